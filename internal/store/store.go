package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"popup-backend-go/internal/models"

	"github.com/jmoiron/sqlx"
)

// Store runs every statement the service issues. Table names come from models.Namespace and
// models.LogTable; values are always bound parameters.
type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

const dayLayout = "2006-01-02"

var logTables = map[models.LogTable]bool{
	models.TableLogs:       true,
	models.TableDemoLogs:   true,
	models.TableServerLogs: true,
}

func quote(table string) string {
	return `"` + table + `"`
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) InsertDevice(ctx context.Context, ns models.Namespace, device models.Device) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
INSERT INTO %s (device_id, company, department)
VALUES ($1, $2, $3)
`, quote(ns.Devices)), device.DeviceID, device.Company, device.Department)
	return err
}

func (s *Store) FindDevice(ctx context.Context, ns models.Namespace, deviceID string) (*models.Device, error) {
	callCount := "0"
	if ns.Demo {
		callCount = "COALESCE(call_count, 0)"
	}
	var device models.Device
	err := s.db.GetContext(ctx, &device, fmt.Sprintf(`
SELECT id, device_id, COALESCE(company, '') AS company, COALESCE(department, '') AS department,
       prompt_group, %s AS call_count
FROM %s
WHERE device_id = $1
ORDER BY id
LIMIT 1
`, callCount, quote(ns.Devices)), deviceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &device, nil
}

func (s *Store) SetPromptGroup(ctx context.Context, ns models.Namespace, deviceID string, group *string) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`UPDATE %s SET prompt_group = $1 WHERE device_id = $2`, quote(ns.Devices)), group, deviceID)
	return err
}

// FindQuestion returns the first question matching the selection key. A nil prompt group never
// matches.
func (s *Store) FindQuestion(ctx context.Context, ns models.Namespace, q models.QuestionQuery) (models.Row, error) {
	query := fmt.Sprintf(`SELECT * FROM %s WHERE "PickerDB" = $1 AND department = $2 AND prompt_group = $3`, quote(ns.Questions))
	args := []interface{}{q.Company, q.Department, q.PromptGroup}
	if ns.Demo {
		occurrence := 0
		if q.Occurrence != nil {
			occurrence = *q.Occurrence
		}
		query += ` AND demo_occurence_no = $4`
		args = append(args, occurrence)
	}
	query += ` LIMIT 1`

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, models.ErrNotFound
	}
	row := map[string]interface{}{}
	if err := rows.MapScan(row); err != nil {
		return nil, err
	}
	return normalizeRow(row), rows.Err()
}

func (s *Store) IncrementCallCount(ctx context.Context, ns models.Namespace, deviceID string) error {
	if !ns.Demo {
		return fmt.Errorf("namespace %s has no occurrence counter", ns.Name)
	}
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
UPDATE %s SET call_count = COALESCE(call_count, 0) + 1
WHERE device_id = $1
`, quote(ns.Devices)), deviceID)
	return err
}

func (s *Store) InsertAnswer(ctx context.Context, ns models.Namespace, answer models.Answer) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, fmt.Sprintf(`
INSERT INTO %s (device_id, question_id, answer)
VALUES ($1, $2, $3)
RETURNING id
`, quote(ns.Answers)), answer.DeviceID, answer.QuestionID, answer.Answer)
	return id, err
}

func (s *Store) InsertLog(ctx context.Context, ns models.Namespace, entry models.DeliveryLog) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
INSERT INTO %s (device_id, company, department, prompt_group, prompt_id, answer, recived_status, error_log)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`, quote(ns.Logs)), entry.DeviceID, entry.Company, entry.Department, entry.PromptGroup,
		entry.PromptID, entry.Answer, entry.RecivedStatus, entry.ErrorLog)
	return err
}

// ReceiptOn reports whether a log row with recived_status "true" was created on the calendar day
// of day. The day is taken from day's own year, month and date.
func (s *Store) ReceiptOn(ctx context.Context, ns models.Namespace, deviceID string, day time.Time) (bool, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	var found int
	err := s.db.GetContext(ctx, &found, fmt.Sprintf(`
SELECT 1
FROM %s
WHERE device_id = $1 AND recived_status = 'true'
  AND created_at >= $2::timestamp AND created_at < $3::timestamp
LIMIT 1
`, quote(ns.Logs)), deviceID, start.Format(dayLayout), start.AddDate(0, 0, 1).Format(dayLayout))
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) AppConfiguration(ctx context.Context) ([]models.Row, error) {
	return s.selectRows(ctx, `SELECT * FROM "AppConfiguration"`)
}

func (s *Store) InsertServerLog(ctx context.Context, entry models.ServerLog) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO "ServerLogs" (device_id, source_details, error_log)
VALUES ($1, $2, $3)
`, entry.DeviceID, entry.SourceDetails, entry.ErrorLog)
	return err
}

func (s *Store) RecentRows(ctx context.Context, table models.LogTable, limit int) ([]models.Row, error) {
	if !logTables[table] {
		return nil, fmt.Errorf("unknown log table %q", table)
	}
	return s.selectRows(ctx, fmt.Sprintf(`SELECT * FROM %s ORDER BY created_at DESC LIMIT $1`, quote(string(table))), limit)
}

func (s *Store) selectRows(ctx context.Context, query string, args ...interface{}) ([]models.Row, error) {
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []models.Row{}
	for rows.Next() {
		row := map[string]interface{}{}
		if err := rows.MapScan(row); err != nil {
			return nil, err
		}
		items = append(items, normalizeRow(row))
	}
	return items, rows.Err()
}

func normalizeRow(row map[string]interface{}) models.Row {
	out := make(models.Row, len(row))
	for key, value := range row {
		if raw, ok := value.([]byte); ok {
			out[key] = string(raw)
			continue
		}
		out[key] = value
	}
	return out
}
