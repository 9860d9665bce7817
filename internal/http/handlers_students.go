package http

import (
	"errors"
	"net/http"

	"seiva/internal/core"
	"seiva/internal/store"
)

type studentRequest struct {
	Name     string `json:"name"`
	Class    string `json:"class"`
	Guardian string `json:"guardian"`
	Status   string `json:"status"`
}

type studentsResponse struct {
	Students   []core.Student `json:"students"`
	StoreError bool           `json:"storeError"`
}

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	snap := s.data.Load(r.Context())
	students := snap.Students
	if students == nil {
		students = []core.Student{}
	}
	writeJSON(w, http.StatusOK, studentsResponse{
		Students:   students,
		StoreError: snap.StoreError,
	})
}

func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var req studentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	student := core.Student{
		Name:     sanitizeInput(req.Name),
		Class:    sanitizeInput(req.Class),
		Guardian: sanitizeInput(req.Guardian),
		Status:   core.Status(req.Status),
	}

	created, err := s.data.AddStudent(r.Context(), student)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("Create student failed", "error", err)
		writeError(w, http.StatusBadGateway, "store unavailable")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	id := core.ID(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing id")
		return
	}

	if err := s.data.DeleteStudent(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "student not found")
			return
		}
		s.logger.Error("Delete student failed", "id", id, "error", err)
		writeError(w, http.StatusBadGateway, "store unavailable")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
