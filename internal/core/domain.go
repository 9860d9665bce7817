package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	Income  Category = "income"
	Expense Category = "expense"
)

const (
	StatusPaid    Status = "Paid"
	StatusLate    Status = "Late"
	StatusPending Status = "Pending"
)

const (
	RecurrenceMonthly Recurrence = "monthly"
	RecurrenceOneTime Recurrence = "one-time"
)

type (
	// Category splits transactions into the two sides of the cash flow.
	Category string

	// Status is a student's tuition payment state for the current month.
	// It is re-derived by the reconciler on every load, never tracked as
	// transition history.
	Status string

	Recurrence string

	// ID is a store-assigned identifier in canonical string form. Stores
	// disagree on whether ids are numbers or strings; comparisons always
	// go through this type so "7" and 7 name the same record.
	ID string

	Transaction struct {
		ID            ID              `json:"id"`
		Date          CivilDate       `json:"date"`
		Type          string          `json:"type"`
		Description   string          `json:"description"`
		Amount        decimal.Decimal `json:"amount"`
		Category      Category        `json:"category"`
		PaymentMethod string          `json:"paymentMethod,omitempty"`
		Recurrence    Recurrence      `json:"recurrence,omitempty"`
		AccountCode   string          `json:"account_code,omitempty"`
		StudentID     ID              `json:"student_id,omitempty"`
		StudentName   string          `json:"student_name,omitempty"`
	}

	Student struct {
		ID       ID     `json:"id"`
		Name     string `json:"name"`
		Class    string `json:"class"`
		Guardian string `json:"guardian"`
		Status   Status `json:"status"`
	}
)

// SchoolClasses is the fixed set of class labels students belong to.
var SchoolClasses = []string{
	"1ª Classe", "2ª Classe", "3ª Classe", "4ª Classe", "5ª Classe", "6ª Classe",
}

// PaymentMethods lists the accepted payment channels.
var PaymentMethods = []string{"Numerário", "M-Pesa", "Transferência", "POS"}

var (
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrLongDescription  = errors.New("description too long")
	ErrEmptyName        = errors.New("empty name")
	ErrInvalidClass     = errors.New("invalid class")
	ErrInvalidStatus    = errors.New("invalid status")
)

func (c Category) Valid() bool {
	return c == Income || c == Expense
}

func (s Status) Valid() bool {
	return s == StatusPaid || s == StatusLate || s == StatusPending
}

func (id ID) String() string { return string(id) }

// Equal compares two ids by canonical string form.
func (id ID) Equal(o ID) bool { return string(id) == string(o) }

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts both JSON numbers and strings so records coming back
// from the store match regardless of the column type.
func (id *ID) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*id = ""
	case string:
		*id = ID(t)
	case json.Number:
		*id = ID(t.String())
	default:
		return fmt.Errorf("id: unsupported JSON type %T", v)
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if !t.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, t.Category)
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return fmt.Errorf("%w (max 200 characters)", ErrLongDescription)
	}
	if t.Amount.IsNegative() {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, t.Amount)
	}
	return nil
}

func (s Student) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if !validClass(s.Class) {
		return fmt.Errorf("%w: %q", ErrInvalidClass, s.Class)
	}
	if s.Status != "" && !s.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, s.Status)
	}
	return nil
}

func validClass(class string) bool {
	for _, c := range SchoolClasses {
		if c == class {
			return true
		}
	}
	return false
}
