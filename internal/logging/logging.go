package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

// Options controls the process logger.
type Options struct {
	Dir           string // empty: stdout only
	Level         string // debug|info|warn|error
	Format        string // text|json
	RetentionDays int
}

// ParseLevel maps a config string onto a logrus level, defaulting to info.
func ParseLevel(raw string) log.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return log.TraceLevel
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Setup configures the standard logrus logger. Output goes to stdout and, when a directory is
// given, to app-YYYY-MM-DD.log which is reopened when the date changes.
// The returned func stops rotation and closes the file.
func Setup(opts Options) (func(), error) {
	log.SetLevel(ParseLevel(opts.Level))
	if opts.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	if opts.Dir == "" {
		log.SetOutput(os.Stdout)
		return func() {}, nil
	}
	retentionDays := opts.RetentionDays
	if retentionDays <= 0 || retentionDays > 7 {
		retentionDays = 7
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, err
	}

	var mu sync.Mutex
	currentDate := time.Now().Format(dateLayout)
	file, err := openLogFile(opts.Dir, currentDate)
	if err != nil {
		return nil, err
	}
	log.SetOutput(io.MultiWriter(os.Stdout, file))
	cleanupOldLogs(opts.Dir, retentionDays, time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				date := time.Now().Format(dateLayout)
				mu.Lock()
				if date != currentDate {
					newFile, err := openLogFile(opts.Dir, date)
					if err == nil {
						log.SetOutput(io.MultiWriter(os.Stdout, newFile))
						_ = file.Close()
						file = newFile
						currentDate = date
						cleanupOldLogs(opts.Dir, retentionDays, time.Now())
					}
				}
				mu.Unlock()
			case <-ctx.Done():
				return
			}
		}
	}()

	return func() {
		cancel()
		mu.Lock()
		log.SetOutput(os.Stdout)
		_ = file.Close()
		mu.Unlock()
	}, nil
}

func openLogFile(dir, date string) (*os.File, error) {
	filename := filepath.Join(dir, fmt.Sprintf("app-%s.log", date))
	return os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

func cleanupOldLogs(dir string, retentionDays int, now time.Time) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	cutoff := now.AddDate(0, 0, -(retentionDays - 1))
	cutoff = time.Date(cutoff.Year(), cutoff.Month(), cutoff.Day(), 0, 0, 0, 0, time.UTC)
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() {
			continue
		}
		if !strings.HasPrefix(name, "app-") || !strings.HasSuffix(name, ".log") {
			continue
		}
		datePart := strings.TrimSuffix(strings.TrimPrefix(name, "app-"), ".log")
		logDate, err := time.Parse(dateLayout, datePart)
		if err != nil {
			continue
		}
		if logDate.Before(cutoff) {
			_ = os.Remove(filepath.Join(dir, name))
		}
	}
}
