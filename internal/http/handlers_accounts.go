package http

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"seiva/internal/core"
)

type accountsResponse struct {
	Accounts []core.Account `json:"accounts"`
}

// handleListAccounts returns the chart of accounts filtered by category.
// Without a category filter both lists are concatenated, income first.
func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	var accounts []core.Account
	switch category {
	case "":
		accounts = append(accounts, core.AccountsFor(core.Income)...)
		accounts = append(accounts, core.AccountsFor(core.Expense)...)
	case string(core.Income), string(core.Expense):
		accounts = core.AccountsFor(core.Category(category))
	default:
		writeError(w, http.StatusBadRequest, "unknown category "+category)
		return
	}

	if accounts == nil {
		accounts = []core.Account{}
	}
	writeJSON(w, http.StatusOK, accountsResponse{Accounts: accounts})
}

type tuitionQuoteResponse struct {
	Date        core.CivilDate  `json:"date"`
	AccountCode string          `json:"account_code"`
	BaseValue   string          `json:"baseValue"`
	Amount      string          `json:"amount"`
	LateFee     bool            `json:"lateFee"`
}

// handleTuitionQuote prices a tuition payment for a given date. After the
// monthly threshold day the penalty applies.
func (s *Server) handleTuitionQuote(w http.ResponseWriter, r *http.Request) {
	date := core.Today()
	if v := strings.TrimSpace(r.URL.Query().Get("date")); v != "" {
		parsed, err := core.ParseCivilDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	base := s.tuitionRule.BaseValue
	if v := strings.TrimSpace(r.URL.Query().Get("base")); v != "" {
		parsed, err := decimal.NewFromString(v)
		if err != nil || parsed.IsNegative() {
			writeError(w, http.StatusBadRequest, "invalid base value")
			return
		}
		base = parsed
	}

	amount := core.ComputeTuitionAmount(date, base, s.tuitionRule.ThresholdDay, s.tuitionRule.PenaltyRate)
	writeJSON(w, http.StatusOK, tuitionQuoteResponse{
		Date:        date,
		AccountCode: s.tuitionRule.AccountCode,
		BaseValue:   base.StringFixed(2),
		Amount:      amount.StringFixed(2),
		LateFee:     date.Day > s.tuitionRule.ThresholdDay,
	})
}
