package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/wardclerk/interview-scheduler/pkg/core/conversation"
	"github.com/wardclerk/interview-scheduler/pkg/db"
)

type chatRequest struct {
	WardID   string                 `json:"wardId"`
	Messages []conversation.Message `json:"messages"`
}

type interviewTypeResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"durationMinutes"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.WardID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "wardId is required"})
		return
	}
	if len(req.Messages) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "messages must not be empty"})
		return
	}
	for _, m := range req.Messages {
		if m.Role != conversation.RoleUser && m.Role != conversation.RoleAssistant {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message roles must be user or assistant"})
			return
		}
	}

	result := s.driver.HandleTurn(r.Context(), req.WardID, req.Messages)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListInterviewTypes(w http.ResponseWriter, r *http.Request) {
	wardID := r.URL.Query().Get("wardId")
	if wardID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "wardId is required"})
		return
	}

	if _, err := s.store.GetWard(r.Context(), wardID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "ward not found"})
			return
		}
		s.logger.Error("Failed to fetch ward", zap.String("ward_id", wardID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	types, err := s.store.ListActiveInterviewTypes(r.Context(), wardID)
	if err != nil {
		s.logger.Error("Failed to list interview types", zap.String("ward_id", wardID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	response := make([]interviewTypeResponse, 0, len(types))
	for _, t := range types {
		response = append(response, interviewTypeResponse{
			ID:              t.ID,
			Name:            t.Name,
			Description:     t.Description,
			DurationMinutes: t.DurationMinutes,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
