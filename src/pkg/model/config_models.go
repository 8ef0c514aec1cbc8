// Package model defines the data structures used throughout the Outliner application.
package model

// Config holds the application settings loaded from the config file and the environment.
type Config struct {
	StoreType      string `json:"store_type" yaml:"store_type"`
	DatabaseDir    string `json:"database_dir" yaml:"database_dir"`
	DatabaseFile   string `json:"database_file" yaml:"database_file"`
	BadgerDir      string `json:"badger_dir" yaml:"badger_dir"`
	RedisAddr      string `json:"redis_addr" yaml:"redis_addr"`
	RedisPassword  string `json:"redis_password" yaml:"redis_password"`
	RedisDB        int    `json:"redis_db" yaml:"redis_db"`
	RedisPrefix    string `json:"redis_prefix" yaml:"redis_prefix"`
	RedisTimeoutMS int    `json:"redis_timeout_ms" yaml:"redis_timeout_ms"`
	LogFolder      string `json:"log_folder" yaml:"log_folder"`
	CommandLog     string `json:"command_log" yaml:"command_log"`
	AppLog         string `json:"app_log" yaml:"app_log"`
	LogLevel       string `json:"log_level" yaml:"log_level"`
	DefaultKey     string `json:"default_key" yaml:"default_key"`
	HistoryFile    string `json:"history_file" yaml:"history_file"`
}
