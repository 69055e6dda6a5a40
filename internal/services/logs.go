package services

import (
	"context"

	"popup-backend-go/internal/models"
)

// RecentLogs returns the newest rows of a log table.
func (s *Survey) RecentLogs(ctx context.Context, ns models.Namespace, table models.LogTable) ([]models.Row, error) {
	op := OpLogsView
	if table == models.TableServerLogs {
		op = OpServerLogsView
	}
	rows, err := s.Repo.RecentRows(ctx, table, s.ViewLimit)
	if err != nil {
		return nil, Soft(SourceFor(ns, op), "", WrapError(err, "read "+string(table)))
	}
	return rows, nil
}

// LogTableFor maps a namespace to its delivery log table.
func LogTableFor(ns models.Namespace) models.LogTable {
	if ns.Demo {
		return models.TableDemoLogs
	}
	return models.TableLogs
}
