package core

import (
	"errors"
	"strings"
	"time"
)

const (
	StatusActive    BatchStatus = "active"
	StatusCompleted BatchStatus = "completed"

	FeedStarter  FeedType = "starter"
	FeedGrower   FeedType = "grower"
	FeedFinisher FeedType = "finisher"

	SalePerBird SaleType = "per_bird"
	SalePerKg   SaleType = "per_kg"

	TxIncome  TransactionType = "income"
	TxExpense TransactionType = "expense"

	USD Currency = "USD"
	ZWG Currency = "ZWG"
)

type (
	BatchStatus     string
	FeedType        string
	SaleType        string
	TransactionType string
	Currency        string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Batch is one cohort of poultry tracked from intake to completion.
	Batch struct {
		ID                   int64
		Name                 string
		StartDate            Date
		InitialChicks        int
		ChickPrice           Money
		ExpectedPricePerBird Money
		ExpectedPricePerKg   Money
		Status               BatchStatus
	}

	FeedPurchase struct {
		ID            int64
		BatchID       int64
		Type          FeedType
		QuantityKg    float64
		PricePerKg    Money
		DatePurchased Date
	}

	MortalityEvent struct {
		ID       int64
		BatchID  int64
		Quantity int
		Date     Date
		Reason   string
	}

	Sale struct {
		ID       int64
		BatchID  int64
		ClientID int64
		Type     SaleType
		Quantity float64
		Price    Money // unit price
		Total    Money // quantity * price, fixed at insert
		Date     Date
	}

	Expense struct {
		ID       int64
		BatchID  int64
		ItemName string
		Category string
		Amount   Money
		Date     Date
		Notes    string
	}

	Client struct {
		ID    int64
		Name  string
		Phone string
	}

	// Transaction belongs to the finance-tracker side and is unrelated to Batch.
	Transaction struct {
		ID          int64
		Type        TransactionType
		Amount      Money
		Description string
		Category    string
		Date        Date
		Currency    Currency
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrInvalidChicks    = errors.New("initial chicks must be positive")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
	ErrInvalidFeedType  = errors.New("invalid feed type")
	ErrInvalidSaleType  = errors.New("invalid sale type")
	ErrInvalidTxType    = errors.New("invalid transaction type")
	ErrInvalidCurrency  = errors.New("invalid currency")
)

// NewDate creates a Date at UTC midnight for year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a calendar date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// AddDays returns the date shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.AddDate(0, 0, n)}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (s BatchStatus) Valid() bool {
	return s == StatusActive || s == StatusCompleted
}

func (f FeedType) Valid() bool {
	switch f {
	case FeedStarter, FeedGrower, FeedFinisher:
		return true
	}
	return false
}

func (s SaleType) Valid() bool {
	return s == SalePerBird || s == SalePerKg
}

func (t TransactionType) Valid() bool {
	return t == TxIncome || t == TxExpense
}

func (c Currency) Valid() bool {
	return c == USD || c == ZWG
}

// Symbol returns the display prefix for amounts in this currency.
func (c Currency) Symbol() string {
	if c == USD {
		return "$"
	}
	return string(c)
}

func (b Batch) Validate() error {
	if len(strings.TrimSpace(b.Name)) == 0 {
		return ErrEmptyName
	}
	if err := b.StartDate.Validate(); err != nil {
		return err
	}
	if b.InitialChicks <= 0 {
		return ErrInvalidChicks
	}
	if b.ChickPrice.Cents < 0 || b.ExpectedPricePerBird.Cents < 0 || b.ExpectedPricePerKg.Cents < 0 {
		return ErrInvalidAmount
	}
	if b.Status != "" && !b.Status.Valid() {
		return errors.New("invalid batch status")
	}
	return nil
}

func (f FeedPurchase) Validate() error {
	if !f.Type.Valid() {
		return ErrInvalidFeedType
	}
	if f.QuantityKg <= 0 {
		return ErrInvalidQuantity
	}
	if err := f.PricePerKg.Validate(); err != nil {
		return err
	}
	return f.DatePurchased.Validate()
}

func (m MortalityEvent) Validate() error {
	if m.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	return m.Date.Validate()
}

func (s Sale) Validate() error {
	if !s.Type.Valid() {
		return ErrInvalidSaleType
	}
	if s.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if err := s.Price.Validate(); err != nil {
		return err
	}
	return s.Date.Validate()
}

// ComputedTotal derives the sale total from quantity and unit price.
func (s Sale) ComputedTotal() Money {
	return mulQuantity(s.Price, s.Quantity)
}

func (e Expense) Validate() error {
	if len(strings.TrimSpace(e.ItemName)) == 0 {
		return ErrEmptyName
	}
	if len(strings.TrimSpace(e.Category)) == 0 {
		return ErrEmptyCategory
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	return e.Date.Validate()
}

func (c Client) Validate() error {
	if len(strings.TrimSpace(c.Name)) == 0 {
		return ErrEmptyName
	}
	return nil
}

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidTxType
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if len(strings.TrimSpace(t.Category)) == 0 {
		return ErrEmptyCategory
	}
	if !t.Currency.Valid() {
		return ErrInvalidCurrency
	}
	return t.Date.Validate()
}
