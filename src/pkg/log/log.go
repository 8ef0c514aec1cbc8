// Package log provides functionality for logging commands and application events
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"outliner/local-app/src/pkg/model"
)

// Fields holds structured key/value pairs attached to a log message
type Fields map[string]interface{}

// logMessage represents a message queued for the logging goroutine
type logMessage struct {
	level   LogLevel
	content string
	fields  Fields
	ctx     context.Context
}

// Logger writes JSON log lines to an application log and a command log.
// Messages are handed to a background goroutine through a buffered channel.
type Logger struct {
	appLogger     *slog.Logger
	commandLogger *slog.Logger
	files         []*os.File
	logChan       chan logMessage
	done          chan struct{}
	mu            sync.RWMutex
	closed        bool
	closeOnce     sync.Once
	wg            sync.WaitGroup
}

// NewLogger creates a new Logger writing into the configured log folder
func NewLogger(cfg *model.Config) (*Logger, error) {
	level, err := ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	// Create log directory if it doesn't exist
	if err := os.MkdirAll(cfg.LogFolder, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// Open application log file
	appFile, err := os.OpenFile(filepath.Join(cfg.LogFolder, cfg.AppLog), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open application log file: %w", err)
	}

	// Open command log file
	commandFile, err := os.OpenFile(filepath.Join(cfg.LogFolder, cfg.CommandLog), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		appFile.Close()
		return nil, fmt.Errorf("failed to open command log file: %w", err)
	}

	logger := newLogger(appFile, commandFile, level)
	logger.files = []*os.File{appFile, commandFile}
	return logger, nil
}

// New creates a Logger writing both streams to w
func New(w io.Writer, level LogLevel) *Logger {
	return newLogger(w, w, level)
}

// NewDiscard creates a Logger that drops everything
func NewDiscard() *Logger {
	return newLogger(io.Discard, io.Discard, LevelError)
}

func newLogger(app, command io.Writer, level LogLevel) *Logger {
	l := &Logger{
		appLogger: slog.New(slog.NewJSONHandler(app, &slog.HandlerOptions{
			Level: level.toSlogLevel(),
		})),
		commandLogger: slog.New(slog.NewJSONHandler(command, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})),
		logChan: make(chan logMessage, 100),
		done:    make(chan struct{}),
	}

	// Start the logging goroutine
	l.wg.Add(1)
	go l.processLogs()

	return l
}

// processLogs handles incoming log messages until Close, then drains the queue
func (l *Logger) processLogs() {
	defer l.wg.Done()
	for {
		select {
		case msg := <-l.logChan:
			l.write(msg)
		case <-l.done:
			for {
				select {
				case msg := <-l.logChan:
					l.write(msg)
				default:
					return
				}
			}
		}
	}
}

func (l *Logger) write(msg logMessage) {
	attrs := fieldsToArgs(msg.fields)
	if msg.level == LevelCommand {
		l.commandLogger.InfoContext(msg.ctx, msg.content, attrs...)
		return
	}
	l.appLogger.Log(msg.ctx, msg.level.toSlogLevel(), msg.content, attrs...)
}

// fieldsToArgs converts fields to slog attributes in key order
func fieldsToArgs(fields Fields) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]any, 0, len(keys))
	for _, k := range keys {
		args = append(args, slog.Any(k, fields[k]))
	}
	return args
}

// send queues a message for the logging goroutine. Messages sent after Close are dropped.
func (l *Logger) send(ctx context.Context, level LogLevel, msg string, fields Fields) {
	if ctx == nil {
		ctx = context.Background()
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return
	}
	l.logChan <- logMessage{level: level, content: msg, fields: fields, ctx: ctx}
}

// Debug logs a debug message
func (l *Logger) Debug(ctx context.Context, msg string, fields Fields) {
	l.send(ctx, LevelDebug, msg, fields)
}

// Info logs an informational message
func (l *Logger) Info(ctx context.Context, msg string, fields Fields) {
	l.send(ctx, LevelInfo, msg, fields)
}

// Warn logs a warning
func (l *Logger) Warn(ctx context.Context, msg string, fields Fields) {
	l.send(ctx, LevelWarn, msg, fields)
}

// Error logs an error
func (l *Logger) Error(ctx context.Context, msg string, fields Fields) {
	l.send(ctx, LevelError, msg, fields)
}

// LogCommand records a user command in the command log
func (l *Logger) LogCommand(ctx context.Context, command string, fields Fields) {
	l.send(ctx, LevelCommand, command, fields)
}

// Close stops the logging goroutine after flushing queued messages and closes the log files
func (l *Logger) Close() error {
	var closeErr error
	l.closeOnce.Do(func() {
		l.mu.Lock()
		l.closed = true
		l.mu.Unlock()
		close(l.done)
		l.wg.Wait()

		for _, f := range l.files {
			if err := f.Close(); err != nil && closeErr == nil {
				closeErr = fmt.Errorf("failed to close log file %s: %w", f.Name(), err)
			}
		}
	})
	return closeErr
}
