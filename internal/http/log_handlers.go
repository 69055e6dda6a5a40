package httpapi

import (
	"net/http"

	"popup-backend-go/internal/models"

	"github.com/gorilla/websocket"
)

func (s *Server) LogsView(ns models.Namespace, table models.LogTable) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := s.Survey.RecentLogs(r.Context(), ns, table)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, rows)
	}
}

func (s *Server) LogsPage(w http.ResponseWriter, r *http.Request) {
	renderPage(w, "logs.tmpl", logsPage{Title: "Logs", ViewLimit: s.Survey.ViewLimit})
}

// LogsSocket streams new ServerLogs and delivery log entries to the logs page.
func (s *Server) LogsSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.Feed.Add(conn)
	defer func() {
		s.Feed.Remove(conn)
		_ = conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
