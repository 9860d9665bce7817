package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"seiva/internal/core"
)

// logoURL resolves the configured logo, falling back to the default crest
// when settings are empty or unreachable.
func (s *Server) logoURL(ctx context.Context) string {
	url, err := s.settings.LogoURL(ctx)
	if err != nil {
		s.logger.Warn("Failed to read logo setting", "error", err)
		return s.defaultLogoURL
	}
	if strings.TrimSpace(url) == "" {
		return s.defaultLogoURL
	}
	return url
}

func (s *Server) handleReceipt(w http.ResponseWriter, r *http.Request) {
	id := core.ID(r.PathValue("id"))

	snap := s.data.Load(r.Context())
	if snap.StoreError {
		writeError(w, http.StatusBadGateway, "store unavailable")
		return
	}

	var target *core.Transaction
	for i := range snap.Transactions {
		if snap.Transactions[i].ID.Equal(id) {
			target = &snap.Transactions[i]
			break
		}
	}
	if target == nil {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}

	out, err := s.renderer.RenderReceipt(r.Context(), *target, s.logoURL(r.Context()))
	if err != nil {
		s.logger.Error("Receipt rendering failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not render receipt")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="recibo-`+string(id)+`.pdf"`)
	_, _ = w.Write(out)
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	today := core.Today()
	year, month := today.Year, today.Month

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = y
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			writeError(w, http.StatusBadRequest, "invalid month")
			return
		}
		month = m
	}

	snap := s.data.Load(r.Context())
	if snap.StoreError {
		writeError(w, http.StatusBadGateway, "store unavailable")
		return
	}

	out, err := s.renderer.RenderMonthlyReport(r.Context(), snap.Transactions, year, month, s.logoURL(r.Context()))
	if err != nil {
		s.logger.Error("Report rendering failed", "year", year, "month", month, "error", err)
		writeError(w, http.StatusInternalServerError, "could not render report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		`inline; filename="relatorio-`+strconv.Itoa(year)+`-`+strconv.Itoa(month)+`.pdf"`)
	_, _ = w.Write(out)
}
