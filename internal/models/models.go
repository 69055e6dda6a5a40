package models

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("record not found")

// Namespace selects the table set a request works against. The demo namespace adds the
// occurrence counter on devices and questions.
type Namespace struct {
	Name      string
	Demo      bool
	Devices   string
	Questions string
	Answers   string
	Logs      string
}

var (
	Production = Namespace{
		Name:      "production",
		Devices:   "Devices",
		Questions: "Questions",
		Answers:   "Answers",
		Logs:      "Logs",
	}
	Demo = Namespace{
		Name:      "demo",
		Demo:      true,
		Devices:   "DemoDevices",
		Questions: "DemoQuestions",
		Answers:   "DemoAnswers",
		Logs:      "DemoLogs",
	}
)

// LogTable names one of the tables exposed by the log views.
type LogTable string

const (
	TableLogs       LogTable = "Logs"
	TableDemoLogs   LogTable = "DemoLogs"
	TableServerLogs LogTable = "ServerLogs"
)

// Row is a database row flattened to column name -> value.
type Row map[string]interface{}

type Device struct {
	ID          int64   `db:"id"`
	DeviceID    string  `db:"device_id"`
	Company     string  `db:"company"`
	Department  string  `db:"department"`
	PromptGroup *string `db:"prompt_group"`
	CallCount   int     `db:"call_count"`
}

type Answer struct {
	DeviceID   string
	QuestionID string
	Answer     string
}

// DeliveryLog is the denormalized snapshot written to Logs/DemoLogs.
type DeliveryLog struct {
	DeviceID      string    `db:"device_id" json:"device_id"`
	Company       string    `db:"company" json:"company"`
	Department    string    `db:"department" json:"department"`
	PromptGroup   *string   `db:"prompt_group" json:"prompt_group"`
	PromptID      string    `db:"prompt_id" json:"prompt_id"`
	Answer        string    `db:"answer" json:"answer"`
	RecivedStatus string    `db:"recived_status" json:"recived_status"`
	ErrorLog      string    `db:"error_log" json:"error_log"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type ServerLog struct {
	DeviceID      string    `db:"device_id" json:"device_id"`
	SourceDetails string    `db:"source_details" json:"source_details"`
	ErrorLog      string    `db:"error_log" json:"error_log"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// QuestionQuery is the selection key for the next question.
type QuestionQuery struct {
	Company     string
	Department  string
	PromptGroup *string
	Occurrence  *int
}
