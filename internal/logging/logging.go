// Package logging wires the standard logger to stderr plus a size-rotated
// file, and exposes a tail helper for the owner-only log command.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

var logFile string

// Setup routes log output to stderr and a rotating file (10 MB, 5 backups).
func Setup(path string) {
	logFile = path
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, rotator))
	log.SetFlags(log.LstdFlags)
}

// Tail returns the last n lines of the current log file.
func Tail(n int) (string, error) {
	if logFile == "" {
		return "", fmt.Errorf("logging is not configured")
	}
	data, err := os.ReadFile(logFile)
	if err != nil {
		return "", fmt.Errorf("failed to read log file: %w", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n"), nil
}
