package services

import (
	"context"
	"errors"
	"time"

	"popup-backend-go/internal/models"

	log "github.com/sirupsen/logrus"
)

const serverLogTimeout = 5 * time.Second

type ServerLogWriter interface {
	InsertServerLog(ctx context.Context, entry models.ServerLog) error
}

// ServerLogger writes handler failures to ServerLogs. It is the logger of last resort: its own
// failures only reach the process log.
type ServerLogger struct {
	repo ServerLogWriter
	feed *LogFeed
}

func NewServerLogger(repo ServerLogWriter, feed *LogFeed) *ServerLogger {
	return &ServerLogger{repo: repo, feed: feed}
}

func (l *ServerLogger) Record(ctx context.Context, err error) {
	if err == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			log.WithField("panic", rec).Error("server log write panicked")
		}
	}()

	entry := models.ServerLog{SourceDetails: "unknown", ErrorLog: err.Error()}
	var soft SoftError
	if errors.As(err, &soft) {
		entry.SourceDetails = soft.Source
		entry.DeviceID = soft.DeviceID
		if soft.Err != nil {
			entry.ErrorLog = soft.Err.Error()
		}
	}
	if entry.DeviceID == "" {
		entry.DeviceID = "n/a"
	}
	entry.CreatedAt = time.Now()

	fields := log.Fields{"source": entry.SourceDetails, "device_id": entry.DeviceID}
	log.WithFields(fields).WithError(err).Warn("request failed")

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), serverLogTimeout)
	defer cancel()
	if l.repo != nil {
		if werr := l.repo.InsertServerLog(writeCtx, entry); werr != nil {
			log.WithFields(fields).WithError(werr).Error("write server log")
		}
	}
	l.feed.Publish(FeedEvent{Kind: FeedServerLog, Entry: entry, At: entry.CreatedAt})
}
