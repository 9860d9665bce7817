package http

import (
	"net/http"
	"net/url"
	"strings"
)

type logoResponse struct {
	LogoURL string `json:"logoUrl"`
	Custom  bool   `json:"custom"`
}

type logoRequest struct {
	LogoURL string `json:"logoUrl"`
}

func (s *Server) handleGetLogo(w http.ResponseWriter, r *http.Request) {
	stored, err := s.settings.LogoURL(r.Context())
	if err != nil {
		s.logger.Warn("Failed to read logo setting", "error", err)
		writeJSON(w, http.StatusOK, logoResponse{LogoURL: s.defaultLogoURL})
		return
	}
	if strings.TrimSpace(stored) == "" {
		writeJSON(w, http.StatusOK, logoResponse{LogoURL: s.defaultLogoURL})
		return
	}
	writeJSON(w, http.StatusOK, logoResponse{LogoURL: stored, Custom: true})
}

// handleSetLogo stores a custom logo URL. An empty URL resets to the
// default crest.
func (s *Server) handleSetLogo(w http.ResponseWriter, r *http.Request) {
	var req logoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	logoURL := strings.TrimSpace(req.LogoURL)
	if logoURL != "" {
		parsed, err := url.Parse(logoURL)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			writeError(w, http.StatusBadRequest, "logoUrl must be an absolute http(s) URL")
			return
		}
	}

	if err := s.settings.SetLogoURL(r.Context(), logoURL); err != nil {
		s.logger.Error("Failed to save logo setting", "error", err)
		writeError(w, http.StatusBadGateway, "store unavailable")
		return
	}

	if logoURL == "" {
		writeJSON(w, http.StatusOK, logoResponse{LogoURL: s.defaultLogoURL})
		return
	}
	writeJSON(w, http.StatusOK, logoResponse{LogoURL: logoURL, Custom: true})
}
