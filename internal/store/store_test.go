package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"popup-backend-go/internal/db"
	"popup-backend-go/internal/models"
)

// setupStore connects to the database named by POPUP_TEST_DATABASE_URL and resets every table.
func setupStore(t *testing.T) *Store {
	t.Helper()

	dsn := os.Getenv("POPUP_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("POPUP_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	conn, err := db.Open(ctx, dsn, db.PoolOptions{MinIdle: 2, MaxOpen: 5})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	_, err = conn.ExecContext(ctx, `
DROP TABLE IF EXISTS "Devices", "DemoDevices", "Questions", "DemoQuestions", "Answers",
    "DemoAnswers", "Logs", "DemoLogs", "ServerLogs", "AppConfiguration" CASCADE;
`)
	if err != nil {
		t.Fatalf("clean database: %v", err)
	}
	if err := db.EnsureSchema(ctx, conn); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return New(conn)
}

func strPtr(value string) *string {
	return &value
}

func TestDeviceLifecycle(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	if _, err := s.FindDevice(ctx, models.Production, "dev-1"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("FindDevice() error = %v, want ErrNotFound", err)
	}
	if err := s.InsertDevice(ctx, models.Production, models.Device{DeviceID: "dev-1", Company: "Acme Co", Department: "Ops"}); err != nil {
		t.Fatalf("InsertDevice() error = %v", err)
	}
	device, err := s.FindDevice(ctx, models.Production, "dev-1")
	if err != nil {
		t.Fatalf("FindDevice() error = %v", err)
	}
	if device.Company != "Acme Co" || device.PromptGroup != nil || device.CallCount != 0 {
		t.Fatalf("device = %+v", device)
	}
	if err := s.SetPromptGroup(ctx, models.Production, "dev-1", strPtr("3")); err != nil {
		t.Fatalf("SetPromptGroup() error = %v", err)
	}
	device, _ = s.FindDevice(ctx, models.Production, "dev-1")
	if device.PromptGroup == nil || *device.PromptGroup != "3" {
		t.Fatalf("prompt_group = %v", device.PromptGroup)
	}
}

func TestFindDeviceWithoutCreatedAt(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	if _, err := s.db.ExecContext(ctx, `ALTER TABLE "DemoDevices" DROP COLUMN created_at`); err != nil {
		t.Fatalf("drop column: %v", err)
	}
	if err := s.InsertDevice(ctx, models.Demo, models.Device{DeviceID: "legacy", Company: "Acme", Department: "Ops"}); err != nil {
		t.Fatalf("InsertDevice() error = %v", err)
	}
	device, err := s.FindDevice(ctx, models.Demo, "legacy")
	if err != nil {
		t.Fatalf("FindDevice() error = %v", err)
	}
	if device.DeviceID != "legacy" || device.CallCount != 0 {
		t.Fatalf("device = %+v", device)
	}
}

func TestDemoQuestionByOccurrence(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx, `
INSERT INTO "DemoQuestions" ("PickerDB", department, prompt_group, demo_occurence_no, question)
VALUES ('Acme', 'Ops', '1', 0, 'first'), ('Acme', 'Ops', '1', 1, 'second')
`)
	if err != nil {
		t.Fatalf("seed questions: %v", err)
	}
	if err := s.InsertDevice(ctx, models.Demo, models.Device{DeviceID: "d", Company: "Acme", Department: "Ops"}); err != nil {
		t.Fatalf("InsertDevice() error = %v", err)
	}

	for i, want := range []string{"first", "second"} {
		device, err := s.FindDevice(ctx, models.Demo, "d")
		if err != nil {
			t.Fatalf("FindDevice() error = %v", err)
		}
		if device.CallCount != i {
			t.Fatalf("call_count = %d, want %d", device.CallCount, i)
		}
		row, err := s.FindQuestion(ctx, models.Demo, models.QuestionQuery{
			Company: "Acme", Department: "Ops", PromptGroup: strPtr("1"), Occurrence: &device.CallCount,
		})
		if err != nil {
			t.Fatalf("FindQuestion() error = %v", err)
		}
		if row["question"] != want {
			t.Fatalf("question = %v, want %s", row["question"], want)
		}
		if err := s.IncrementCallCount(ctx, models.Demo, "d"); err != nil {
			t.Fatalf("IncrementCallCount() error = %v", err)
		}
	}

	_, err = s.FindQuestion(ctx, models.Demo, models.QuestionQuery{Company: "Acme", Department: "Ops", PromptGroup: nil})
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("FindQuestion(nil group) error = %v, want ErrNotFound", err)
	}
}

func TestLogsAndReceipts(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	day := time.Date(2024, 5, 10, 23, 30, 0, 0, time.Local)
	if found, err := s.ReceiptOn(ctx, models.Production, "dev", day); err != nil || found {
		t.Fatalf("ReceiptOn() = %v, %v", found, err)
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO "Logs" (device_id, prompt_id, recived_status, created_at)
VALUES ('dev', '1', 'true', '2024-05-10 21:30:00'),
       ('dev', '2', 'true', '2024-05-11 00:30:00'),
       ('dev', '3', 'false', '2024-05-12 08:00:00')
`)
	if err != nil {
		t.Fatalf("seed logs: %v", err)
	}
	tests := []struct {
		day  time.Time
		want bool
	}{
		{day, true},
		{day.AddDate(0, 0, 1), true},
		{day.AddDate(0, 0, 2), false},
		{day.AddDate(0, 0, -1), false},
	}
	for _, tt := range tests {
		found, err := s.ReceiptOn(ctx, models.Production, "dev", tt.day)
		if err != nil || found != tt.want {
			t.Fatalf("ReceiptOn(%s) = %v, %v, want %v", tt.day.Format("2006-01-02"), found, err, tt.want)
		}
	}

	entries := []models.DeliveryLog{
		{DeviceID: "dev", PromptID: "1", RecivedStatus: "false"},
		{DeviceID: "dev", PromptID: "2", RecivedStatus: "true"},
	}
	for _, entry := range entries {
		if err := s.InsertLog(ctx, models.Production, entry); err != nil {
			t.Fatalf("InsertLog() error = %v", err)
		}
	}

	if err := s.InsertServerLog(ctx, models.ServerLog{DeviceID: "dev", SourceDetails: "test", ErrorLog: "boom"}); err != nil {
		t.Fatalf("InsertServerLog() error = %v", err)
	}
	rows, err := s.RecentRows(ctx, models.TableLogs, 1000)
	if err != nil {
		t.Fatalf("RecentRows() error = %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("RecentRows() len = %d", len(rows))
	}
	rows, err = s.RecentRows(ctx, models.TableServerLogs, 1000)
	if err != nil || len(rows) != 1 || rows[0]["error_log"] != "boom" {
		t.Fatalf("RecentRows(ServerLogs) = %v, %v", rows, err)
	}
	if _, err := s.RecentRows(ctx, models.LogTable("Devices"), 10); err == nil {
		t.Fatal("RecentRows() expected error for unknown table")
	}
}

func TestAnswersAppendOnly(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	first, err := s.InsertAnswer(ctx, models.Production, models.Answer{DeviceID: "d", QuestionID: "7", Answer: "yes"})
	if err != nil {
		t.Fatalf("InsertAnswer() error = %v", err)
	}
	second, err := s.InsertAnswer(ctx, models.Production, models.Answer{DeviceID: "d", QuestionID: "7", Answer: "yes"})
	if err != nil {
		t.Fatalf("InsertAnswer() error = %v", err)
	}
	if second <= first {
		t.Fatalf("ids = %d, %d", first, second)
	}
	config, err := s.AppConfiguration(ctx)
	if err != nil || len(config) != 0 {
		t.Fatalf("AppConfiguration() = %v, %v", config, err)
	}
}
