package log

import (
	"fmt"
	"log/slog"
	"strings"
)

// LogLevel selects the stream and severity of a log message
type LogLevel int

const (
	LevelCommand LogLevel = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
)

var levelInfo = map[LogLevel]struct {
	name string
	slog slog.Level
}{
	LevelCommand: {"COMMAND", slog.LevelInfo},
	LevelError:   {"ERROR", slog.LevelError},
	LevelWarn:    {"WARN", slog.LevelWarn},
	LevelInfo:    {"INFO", slog.LevelInfo},
	LevelDebug:   {"DEBUG", slog.LevelDebug},
}

// String returns the upper-case level name
func (l LogLevel) String() string {
	if info, ok := levelInfo[l]; ok {
		return info.name
	}
	return "UNKNOWN"
}

// toSlogLevel maps the level onto slog; commands are logged at info
func (l LogLevel) toSlogLevel() slog.Level {
	if info, ok := levelInfo[l]; ok {
		return info.slog
	}
	return slog.LevelInfo
}

// ParseLevel converts a configured level name into a LogLevel.
// The empty string selects LevelInfo; "command" is not a threshold and is rejected.
func ParseLevel(name string) (LogLevel, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	switch name {
	case "":
		return LevelInfo, nil
	case "WARNING":
		return LevelWarn, nil
	}
	for level, info := range levelInfo {
		if level != LevelCommand && info.name == name {
			return level, nil
		}
	}
	return LevelInfo, fmt.Errorf("unknown log level: %s", name)
}
