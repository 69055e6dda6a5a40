package services

import (
	"context"
	"time"

	"popup-backend-go/internal/models"
)

// Repository is the persistence the survey operations need. store.Store implements it.
type Repository interface {
	Ping(ctx context.Context) error
	InsertDevice(ctx context.Context, ns models.Namespace, device models.Device) error
	FindDevice(ctx context.Context, ns models.Namespace, deviceID string) (*models.Device, error)
	SetPromptGroup(ctx context.Context, ns models.Namespace, deviceID string, group *string) error
	FindQuestion(ctx context.Context, ns models.Namespace, q models.QuestionQuery) (models.Row, error)
	IncrementCallCount(ctx context.Context, ns models.Namespace, deviceID string) error
	InsertAnswer(ctx context.Context, ns models.Namespace, answer models.Answer) (int64, error)
	InsertLog(ctx context.Context, ns models.Namespace, entry models.DeliveryLog) error
	ReceiptOn(ctx context.Context, ns models.Namespace, deviceID string, day time.Time) (bool, error)
	AppConfiguration(ctx context.Context) ([]models.Row, error)
	InsertServerLog(ctx context.Context, entry models.ServerLog) error
	RecentRows(ctx context.Context, table models.LogTable, limit int) ([]models.Row, error)
}

// Operation identifies a request handler for ServerLogs attribution.
type Operation int

const (
	OpRegister Operation = iota
	OpAnswer
	OpDelivery
	OpPrompt
	OpPopupCheck
	OpLogsView
	OpServerLogsView
	OpUpdateUpload
	OpUpdateDownload
	OpUpdateControl
)

var sources = map[Operation][2]string{
	OpRegister:       {"Customer registration", "Demo Customer register"},
	OpAnswer:         {"Answer recording", "Demo Answer recording"},
	OpDelivery:       {"App logs recording", "Demo App logs recording"},
	OpPrompt:         {"Quiz popup request", "Demo Quiz popup request"},
	OpPopupCheck:     {"Popup alternative time to display checking", "Demo Popup alternative time to display checking"},
	OpLogsView:       {"Logs viewing function", "Demo Logs viewing function"},
	OpServerLogsView: {"Logs viewing function", "Logs viewing function"},
	OpUpdateUpload:   {"App update upload", "App update upload"},
	OpUpdateDownload: {"App update download", "App update download"},
	OpUpdateControl:  {"App update control page", "App update control page"},
}

// SourceFor returns the source_details label written to ServerLogs.
func SourceFor(ns models.Namespace, op Operation) string {
	labels, ok := sources[op]
	if !ok {
		return "unknown"
	}
	if ns.Demo {
		return labels[1]
	}
	return labels[0]
}
