package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// EnsureSchema creates the tables used by the service when they are missing.
// Safe to call on every start; existing tables are left untouched.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS "Devices" (
    id SERIAL PRIMARY KEY,
    device_id TEXT NOT NULL,
    company TEXT NOT NULL,
    department TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    prompt_group TEXT
);

CREATE INDEX IF NOT EXISTS idx_devices_device_id ON "Devices"(device_id);

CREATE TABLE IF NOT EXISTS "DemoDevices" (
    id SERIAL PRIMARY KEY,
    device_id TEXT NOT NULL,
    company TEXT NOT NULL,
    department TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    prompt_group TEXT,
    call_count INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_demo_devices_device_id ON "DemoDevices"(device_id);

CREATE TABLE IF NOT EXISTS "Questions" (
    id SERIAL PRIMARY KEY,
    "PickerDB" TEXT NOT NULL,
    department TEXT NOT NULL,
    prompt_group TEXT,
    prompt_type TEXT,
    question TEXT,
    answer_options TEXT,
    media_url TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_questions_selector ON "Questions"("PickerDB", department, prompt_group);

CREATE TABLE IF NOT EXISTS "DemoQuestions" (
    id SERIAL PRIMARY KEY,
    "PickerDB" TEXT NOT NULL,
    department TEXT NOT NULL,
    prompt_group TEXT,
    demo_occurence_no INTEGER NOT NULL DEFAULT 0,
    prompt_type TEXT,
    question TEXT,
    answer_options TEXT,
    media_url TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_demo_questions_selector ON "DemoQuestions"("PickerDB", department, demo_occurence_no, prompt_group);

CREATE TABLE IF NOT EXISTS "Answers" (
    id SERIAL PRIMARY KEY,
    device_id TEXT NOT NULL,
    question_id TEXT NOT NULL,
    answer TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS "DemoAnswers" (
    id SERIAL PRIMARY KEY,
    device_id TEXT NOT NULL,
    question_id TEXT NOT NULL,
    answer TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS "Logs" (
    id SERIAL PRIMARY KEY,
    device_id TEXT NOT NULL,
    company TEXT,
    department TEXT,
    prompt_group TEXT,
    prompt_id TEXT,
    answer TEXT,
    recived_status TEXT,
    error_log TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_logs_device_created ON "Logs"(device_id, created_at DESC);

CREATE TABLE IF NOT EXISTS "DemoLogs" (
    id SERIAL PRIMARY KEY,
    device_id TEXT NOT NULL,
    company TEXT,
    department TEXT,
    prompt_group TEXT,
    prompt_id TEXT,
    answer TEXT,
    recived_status TEXT,
    error_log TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_demo_logs_device_created ON "DemoLogs"(device_id, created_at DESC);

CREATE TABLE IF NOT EXISTS "ServerLogs" (
    id SERIAL PRIMARY KEY,
    device_id TEXT,
    source_details TEXT,
    error_log TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS "AppConfiguration" (
    id SERIAL PRIMARY KEY,
    key TEXT NOT NULL,
    value TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);
`
