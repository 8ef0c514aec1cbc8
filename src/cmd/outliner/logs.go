package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
	colorWhite   = "\033[37m"
)

var (
	noColor bool

	logsCmd = &cobra.Command{
		Use:   "logs [filter]",
		Short: "Print the application and command logs",
		Long: `Prints every JSON entry of the *.log files in the configured log folder
in a compact form. Entries not containing the filter (case-insensitive) are skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runLogs,
	}
)

func init() {
	logsCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// LogEntry is one decoded JSON log line
type LogEntry map[string]interface{}

func runLogs(cmd *cobra.Command, args []string) error {
	filter := ""
	if len(args) > 0 {
		filter = args[0]
	}

	logFiles, err := filepath.Glob(filepath.Join(cfg.LogFolder, "*.log"))
	if err != nil {
		return fmt.Errorf("error reading log directory: %w", err)
	}
	if len(logFiles) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No log files in %s\n", cfg.LogFolder)
		return nil
	}
	sort.Strings(logFiles)

	for _, filePath := range logFiles {
		if err := printLogFile(cmd.OutOrStdout(), filePath, filter, !noColor); err != nil {
			return err
		}
	}
	return nil
}

// printLogFile writes the matching entries of one log file
func printLogFile(w io.Writer, filePath, filter string, color bool) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("error opening %s: %w", filepath.Base(filePath), err)
	}
	defer file.Close()

	fmt.Fprintf(w, "%s\n", paint(color, colorGreen, "== "+filepath.Base(filePath)))

	filter = strings.ToLower(filter)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var entry LogEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			fmt.Fprintf(w, "%s\n", paint(color, colorRed, "Error parsing log entry: "+err.Error()))
			continue
		}

		formatted := formatLogEntry(entry, color)
		if filter == "" || strings.Contains(strings.ToLower(formatted), filter) {
			fmt.Fprintln(w, formatted)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading %s: %w", filepath.Base(filePath), err)
	}
	return nil
}

func formatTimestamp(timestamp string) string {
	t, err := time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		return timestamp // Return original if parsing fails
	}
	return t.Format("06-01-02 15:04:05.000000")
}

func padRight(str string, length int) string {
	if len(str) >= length {
		return str
	}
	return str + strings.Repeat(" ", length-len(str))
}

func paint(enabled bool, color, text string) string {
	if !enabled {
		return text
	}
	return color + text + colorReset
}

// formatLogEntry renders the time, level and message on one line and the
// remaining fields, sorted by name, on indented lines below
func formatLogEntry(entry LogEntry, color bool) string {
	timestamp, _ := entry["time"].(string)
	level, _ := entry["level"].(string)
	msg, _ := entry["msg"].(string)

	level = strings.ToUpper(level)

	var levelColor string
	switch level {
	case "DEBUG":
		levelColor = colorBlue
	case "INFO":
		levelColor = colorGreen
	case "WARN":
		levelColor = colorYellow
	case "ERROR":
		levelColor = colorRed
	default:
		levelColor = colorWhite
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s",
		paint(color, colorMagenta, formatTimestamp(timestamp)),
		paint(color, levelColor, padRight(level, 5)),
		msg)

	keys := make([]string, 0, len(entry))
	for key := range entry {
		if key != "time" && key != "level" && key != "msg" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(&b, "\n    %s %v", paint(color, colorCyan, key+":"), entry[key])
	}

	return b.String()
}
