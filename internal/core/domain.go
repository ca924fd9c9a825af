package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Known contract states. Status is free text; these are the values the UI offers.
const (
	StatusActive    ContractStatus = "activo"
	StatusPending   ContractStatus = "pendiente"
	StatusCompleted ContractStatus = "completado"
	StatusCancelled ContractStatus = "cancelado"
)

const maxDescriptionLen = 200

type (
	TransactionType string
	ContractStatus  string

	Category struct {
		ID   int64           `json:"id"`
		Name string          `json:"name"`
		Type TransactionType `json:"type"`
	}

	// Person holds the identity and contact fields shared by clients and avales.
	Person struct {
		Name         string `json:"name"`
		Birthdate    Date   `json:"birthdate"`
		VoterID      string `json:"voter_id"`
		Address      string `json:"address"`
		Neighborhood string `json:"neighborhood"`
		Zip          string `json:"zip"`
		Municipality string `json:"municipality"`
		State        string `json:"state"`
		Phone        string `json:"phone"`
		Cellphone    string `json:"cellphone"`
		MessagePhone string `json:"message_phone"`
		Email        string `json:"email"`
	}

	Client struct {
		ID int64 `json:"id"`
		Person
		Assignment string    `json:"assignment"`
		Promoter   string    `json:"promoter"`
		Supervisor string    `json:"supervisor"`
		Executive  string    `json:"executive"`
		CreatedAt  time.Time `json:"created_at"`
	}

	// Aval is a loan guarantor attached to a contract.
	Aval struct {
		ID int64 `json:"id"`
		Person
		Group     string    `json:"group"`
		CreatedAt time.Time `json:"created_at"`
	}

	// ContractTerms are the loan fields supplied on contract creation.
	ContractTerms struct {
		Amount        decimal.Decimal `json:"amount"`
		InterestRate  decimal.Decimal `json:"interest"`
		TermWeeks     int             `json:"term"`
		WeeklyPayment decimal.Decimal `json:"weekly_payment"`
		StartDate     Date            `json:"start_date"`
		Status        ContractStatus  `json:"status"`
	}

	Contract struct {
		ID              int64  `json:"id"`
		Folio           string `json:"folio"`
		ClientID        int64  `json:"client_id"`
		AvalID          int64  `json:"aval_id"`
		ClientName      string `json:"client_name"`
		ClientCellphone string `json:"client_cellphone"`
		ContractTerms
		CreatedAt time.Time `json:"created_at"`
	}

	Transaction struct {
		ID          int64           `json:"id"`
		Date        Date            `json:"date"`
		Description string          `json:"description"`
		Type        TransactionType `json:"type"`
		CategoryID  int64           `json:"category_id"`
		Amount      decimal.Decimal `json:"amount"`
		WeekID      int64           `json:"week_id"`
		CreatedAt   time.Time       `json:"created_at"`
	}

	Week struct {
		ID        int64           `json:"id"`
		StartDate Date            `json:"start_date"`
		Budget    decimal.Decimal `json:"budget"`
		CreatedAt time.Time       `json:"created_at"`
	}
)

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// EndDate is the last day of the week; it is never stored.
func (w Week) EndDate() Date {
	return w.StartDate.AddDays(6)
}

// Contains reports whether day falls within the seven days starting at StartDate.
func (w Week) Contains(day Date) bool {
	return !day.Before(w.StartDate.Time) && !day.After(w.EndDate().Time)
}

func (p Person) validate(role string) error {
	if strings.TrimSpace(p.Name) == "" {
		return validationf("%s name is required", role)
	}
	return nil
}

func (c Client) Validate() error {
	return c.validate("client")
}

func (a Aval) Validate() error {
	return a.validate("aval")
}

func (t ContractTerms) Validate() error {
	if !t.Amount.IsPositive() {
		return validationf("amount must be greater than zero")
	}
	if t.InterestRate.IsNegative() {
		return validationf("interest rate cannot be negative")
	}
	if t.TermWeeks < 1 {
		return fmt.Errorf("%w: term must be at least 1 week", ErrInvalidTerm)
	}
	if t.WeeklyPayment.IsNegative() {
		return validationf("weekly payment cannot be negative")
	}
	if t.StartDate.IsZero() {
		return validationf("start date is required")
	}
	if strings.TrimSpace(string(t.Status)) == "" {
		return validationf("status is required")
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return validationf("invalid date: %v", err)
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return validationf("description is required")
	}
	if len(t.Description) > maxDescriptionLen {
		return validationf("description too long (max %d characters)", maxDescriptionLen)
	}
	if !t.Type.Valid() {
		return validationf("type must be %q or %q", Income, Expense)
	}
	if !t.Amount.IsPositive() {
		return validationf("amount must be greater than zero")
	}
	if t.CategoryID <= 0 {
		return validationf("category is required")
	}
	if t.WeekID <= 0 {
		return validationf("week is required")
	}
	return nil
}

func (w Week) Validate() error {
	if err := w.StartDate.Validate(); err != nil {
		return validationf("invalid start date: %v", err)
	}
	if w.Budget.IsNegative() {
		return validationf("budget cannot be negative")
	}
	return nil
}

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

var errZeroDate = errors.New("date cannot be zero")
