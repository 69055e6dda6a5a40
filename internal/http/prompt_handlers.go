package httpapi

import (
	"net/http"

	"popup-backend-go/internal/models"
)

func (s *Server) Prompt(ns models.Namespace) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		row, err := s.Survey.NextPrompt(r.Context(), ns, r.URL.Query().Get("device_id"))
		if err != nil {
			s.fail(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, row)
	}
}

// PopupLogsCheck always answers with the check object, even when part of it could not be computed.
func (s *Server) PopupLogsCheck(ns models.Namespace) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		check, err := s.Survey.CheckPopup(r.Context(), ns, r.URL.Query().Get("device_id"))
		if err != nil {
			s.Errors.Record(r.Context(), err)
		}
		WriteJSON(w, http.StatusOK, check)
	}
}
