package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// emptyObject is the body of every failed JSON request.
var emptyObject = struct{}{}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// fail records err in ServerLogs and answers 200 with an empty object.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.Errors.Record(r.Context(), err)
	WriteJSON(w, http.StatusOK, emptyObject)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
