package http

import (
	"net/http"
	"strings"

	"seiva/internal/ai"
)

type chatRequest struct {
	Message string        `json:"message"`
	History []ai.ChatTurn `json:"history"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) handleAIChat(w http.ResponseWriter, r *http.Request) {
	if s.assistant == nil {
		writeError(w, http.StatusServiceUnavailable, "assistant not configured")
		return
	}

	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := s.assistant.Chat(r.Context(), req.Message, req.History)
	if err != nil {
		s.logger.Error("Chat failed", "error", err)
		writeError(w, http.StatusBadGateway, "assistant unavailable")
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

type imageRequest struct {
	Prompt string `json:"prompt"`
	Size   string `json:"size"`
}

type imageResponse struct {
	Image string `json:"image"`
}

var imageSizes = map[string]bool{"1K": true, "2K": true, "4K": true}

func (s *Server) handleAIImage(w http.ResponseWriter, r *http.Request) {
	if s.assistant == nil {
		writeError(w, http.StatusServiceUnavailable, "assistant not configured")
		return
	}

	var req imageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}
	if req.Size == "" {
		req.Size = "1K"
	}
	if !imageSizes[req.Size] {
		writeError(w, http.StatusBadRequest, "size must be 1K, 2K or 4K")
		return
	}

	dataURI, err := s.assistant.GenerateImage(r.Context(), req.Prompt, req.Size)
	if err != nil {
		s.logger.Error("Image generation failed", "error", err)
		writeError(w, http.StatusBadGateway, "assistant unavailable")
		return
	}

	writeJSON(w, http.StatusOK, imageResponse{Image: dataURI})
}

type speechRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleAISpeech(w http.ResponseWriter, r *http.Request) {
	if s.assistant == nil {
		writeError(w, http.StatusServiceUnavailable, "assistant not configured")
		return
	}

	var req speechRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	clip, err := s.assistant.SynthesizeSpeech(r.Context(), req.Text)
	if err != nil {
		s.logger.Error("Speech synthesis failed", "error", err)
		writeError(w, http.StatusBadGateway, "assistant unavailable")
		return
	}

	writeJSON(w, http.StatusOK, clip)
}
