package httpapi

import (
	"net/http"

	"popup-backend-go/internal/models"
	"popup-backend-go/internal/services"
)

func (s *Server) RegisterCustomer(ns models.Namespace) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req services.RegisterInput
		if err := decodeJSON(r, &req); err != nil {
			s.fail(w, r, services.Soft(services.SourceFor(ns, services.OpRegister), "", err))
			return
		}
		if err := s.Survey.Register(r.Context(), ns, req); err != nil {
			s.fail(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, emptyObject)
	}
}

func (s *Server) RecordAnswer(ns models.Namespace) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req services.AnswerInput
		if err := decodeJSON(r, &req); err != nil {
			s.fail(w, r, services.Soft(services.SourceFor(ns, services.OpAnswer), "", err))
			return
		}
		if err := s.Survey.RecordAnswer(r.Context(), ns, req); err != nil {
			s.fail(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, emptyObject)
	}
}

func (s *Server) RecordDelivery(ns models.Namespace) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req services.DeliveryInput
		if err := decodeJSON(r, &req); err != nil {
			s.fail(w, r, services.Soft(services.SourceFor(ns, services.OpDelivery), "", err))
			return
		}
		if err := s.Survey.RecordDelivery(r.Context(), ns, req); err != nil {
			s.fail(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, emptyObject)
	}
}
