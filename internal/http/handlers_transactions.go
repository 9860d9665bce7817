package http

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"seiva/internal/core"
	"seiva/internal/store"
)

type transactionRequest struct {
	Date          string          `json:"date"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod"`
	Recurrence    string          `json:"recurrence"`
	AccountCode   string          `json:"account_code"`
	StudentID     core.ID         `json:"student_id"`
	StudentName   string          `json:"student_name"`
}

type transactionsResponse struct {
	Transactions []core.Transaction `json:"transactions"`
	StoreError   bool               `json:"storeError"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	snap := s.data.Load(r.Context())
	transactions := snap.Transactions
	if transactions == nil {
		transactions = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, transactionsResponse{
		Transactions: transactions,
		StoreError:   snap.StoreError,
	})
}

type createTransactionResponse struct {
	Transaction core.Transaction `json:"transaction"`
	ReceiptURL  string           `json:"receiptUrl,omitempty"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := core.ParseCivilDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	t := core.Transaction{
		Date:          date,
		Category:      core.Category(req.Category),
		Description:   sanitizeInput(req.Description),
		Amount:        req.Amount,
		PaymentMethod: sanitizeInput(req.PaymentMethod),
		Recurrence:    core.Recurrence(req.Recurrence),
		AccountCode:   req.AccountCode,
		StudentID:     req.StudentID,
		StudentName:   sanitizeInput(req.StudentName),
	}

	created, err := s.data.AddTransaction(r.Context(), t)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("Create transaction failed", "error", err)
		writeError(w, http.StatusBadGateway, "store unavailable")
		return
	}

	s.summaryCache.Purge()

	resp := createTransactionResponse{Transaction: created}
	// Incomes get a receipt straight away
	if created.Category == core.Income {
		resp.ReceiptURL = "/api/receipts/" + string(created.ID)
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := core.ID(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing id")
		return
	}

	if err := s.data.DeleteTransaction(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		s.logger.Error("Delete transaction failed", "id", id, "error", err)
		writeError(w, http.StatusBadGateway, "store unavailable")
		return
	}

	s.summaryCache.Purge()
	w.WriteHeader(http.StatusNoContent)
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrInvalidCategory) ||
		errors.Is(err, core.ErrLongDescription) ||
		errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrEmptyDescription) ||
		errors.Is(err, core.ErrEmptyName) ||
		errors.Is(err, core.ErrInvalidClass) ||
		errors.Is(err, core.ErrInvalidStatus)
}
