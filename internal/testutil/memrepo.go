// Package testutil holds fakes shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"popup-backend-go/internal/models"
)

// Question is a seeded question row.
type Question struct {
	Company     string
	Department  string
	PromptGroup string
	Occurrence  int
	Row         models.Row
}

// MemRepo is an in-memory services.Repository with the same matching rules as the Postgres
// store. Fail maps a method name to the error it should return.
type MemRepo struct {
	mu sync.Mutex

	Devices    map[string][]models.Device
	Questions  map[string][]Question
	Answers    map[string][]models.Answer
	Logs       map[string][]models.DeliveryLog
	ServerLogs []models.ServerLog
	Config     []models.Row
	Fail       map[string]error

	nextID int64
}

func NewMemRepo() *MemRepo {
	return &MemRepo{
		Devices:   map[string][]models.Device{},
		Questions: map[string][]Question{},
		Answers:   map[string][]models.Answer{},
		Logs:      map[string][]models.DeliveryLog{},
		Config:    []models.Row{},
		Fail:      map[string]error{},
	}
}

func (r *MemRepo) fail(method string) error {
	return r.Fail[method]
}

func (r *MemRepo) AddQuestion(ns models.Namespace, q Question) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Questions[ns.Name] = append(r.Questions[ns.Name], q)
}

func (r *MemRepo) Device(ns models.Namespace, deviceID string) *models.Device {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Devices[ns.Name] {
		if r.Devices[ns.Name][i].DeviceID == deviceID {
			device := r.Devices[ns.Name][i]
			return &device
		}
	}
	return nil
}

func (r *MemRepo) LogEntries(ns models.Namespace) []models.DeliveryLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.DeliveryLog(nil), r.Logs[ns.Name]...)
}

func (r *MemRepo) ServerLogEntries() []models.ServerLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.ServerLog(nil), r.ServerLogs...)
}

func (r *MemRepo) Ping(ctx context.Context) error {
	return r.fail("Ping")
}

func (r *MemRepo) InsertDevice(ctx context.Context, ns models.Namespace, device models.Device) error {
	if err := r.fail("InsertDevice"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	device.ID = r.nextID
	r.Devices[ns.Name] = append(r.Devices[ns.Name], device)
	return nil
}

func (r *MemRepo) FindDevice(ctx context.Context, ns models.Namespace, deviceID string) (*models.Device, error) {
	if err := r.fail("FindDevice"); err != nil {
		return nil, err
	}
	if device := r.Device(ns, deviceID); device != nil {
		return device, nil
	}
	return nil, models.ErrNotFound
}

func (r *MemRepo) SetPromptGroup(ctx context.Context, ns models.Namespace, deviceID string, group *string) error {
	if err := r.fail("SetPromptGroup"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Devices[ns.Name] {
		if r.Devices[ns.Name][i].DeviceID == deviceID {
			r.Devices[ns.Name][i].PromptGroup = group
		}
	}
	return nil
}

func (r *MemRepo) FindQuestion(ctx context.Context, ns models.Namespace, q models.QuestionQuery) (models.Row, error) {
	if err := r.fail("FindQuestion"); err != nil {
		return nil, err
	}
	if q.PromptGroup == nil {
		return nil, models.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, question := range r.Questions[ns.Name] {
		if question.Company != q.Company || question.Department != q.Department || question.PromptGroup != *q.PromptGroup {
			continue
		}
		if ns.Demo && (q.Occurrence == nil || question.Occurrence != *q.Occurrence) {
			continue
		}
		row := models.Row{}
		for key, value := range question.Row {
			row[key] = value
		}
		return row, nil
	}
	return nil, models.ErrNotFound
}

func (r *MemRepo) IncrementCallCount(ctx context.Context, ns models.Namespace, deviceID string) error {
	if err := r.fail("IncrementCallCount"); err != nil {
		return err
	}
	if !ns.Demo {
		return fmt.Errorf("namespace %s has no occurrence counter", ns.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Devices[ns.Name] {
		if r.Devices[ns.Name][i].DeviceID == deviceID {
			r.Devices[ns.Name][i].CallCount++
		}
	}
	return nil
}

func (r *MemRepo) InsertAnswer(ctx context.Context, ns models.Namespace, answer models.Answer) (int64, error) {
	if err := r.fail("InsertAnswer"); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.Answers[ns.Name] = append(r.Answers[ns.Name], answer)
	return r.nextID, nil
}

func (r *MemRepo) InsertLog(ctx context.Context, ns models.Namespace, entry models.DeliveryLog) error {
	if err := r.fail("InsertLog"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	r.Logs[ns.Name] = append(r.Logs[ns.Name], entry)
	return nil
}

func (r *MemRepo) ReceiptOn(ctx context.Context, ns models.Namespace, deviceID string, day time.Time) (bool, error) {
	if err := r.fail("ReceiptOn"); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	y, m, d := day.Date()
	for _, entry := range r.Logs[ns.Name] {
		if entry.DeviceID != deviceID || entry.RecivedStatus != "true" {
			continue
		}
		if ey, em, ed := entry.CreatedAt.Date(); ey == y && em == m && ed == d {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemRepo) AppConfiguration(ctx context.Context) ([]models.Row, error) {
	if err := r.fail("AppConfiguration"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Row{}, r.Config...), nil
}

func (r *MemRepo) InsertServerLog(ctx context.Context, entry models.ServerLog) error {
	if err := r.fail("InsertServerLog"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ServerLogs = append(r.ServerLogs, entry)
	return nil
}

func (r *MemRepo) RecentRows(ctx context.Context, table models.LogTable, limit int) ([]models.Row, error) {
	if err := r.fail("RecentRows"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := []models.Row{}
	switch table {
	case models.TableLogs, models.TableDemoLogs:
		ns := models.Production.Name
		if table == models.TableDemoLogs {
			ns = models.Demo.Name
		}
		entries := r.Logs[ns]
		for i := len(entries) - 1; i >= 0 && len(rows) < limit; i-- {
			rows = append(rows, models.Row{
				"device_id":      entries[i].DeviceID,
				"prompt_id":      entries[i].PromptID,
				"answer":         entries[i].Answer,
				"recived_status": entries[i].RecivedStatus,
				"error_log":      entries[i].ErrorLog,
				"created_at":     entries[i].CreatedAt,
			})
		}
	case models.TableServerLogs:
		for i := len(r.ServerLogs) - 1; i >= 0 && len(rows) < limit; i-- {
			rows = append(rows, models.Row{
				"device_id":      r.ServerLogs[i].DeviceID,
				"source_details": r.ServerLogs[i].SourceDetails,
				"error_log":      r.ServerLogs[i].ErrorLog,
				"created_at":     r.ServerLogs[i].CreatedAt,
			})
		}
	default:
		return nil, fmt.Errorf("unknown log table %q", table)
	}
	return rows, nil
}
