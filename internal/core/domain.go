package core

import (
	"errors"
	"strings"
	"time"
)

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

type (
	// Kind discriminates the two entry collections.
	Kind string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Entry is a single income or expense transaction owned by a user.
	// Income and expense are structurally identical; Kind tells them apart
	// and Label carries the income source or the expense category.
	Entry struct {
		ID        string
		UserID    string
		Kind      Kind
		Label     string
		Amount    Money
		Date      Date
		Icon      string
		CreatedAt time.Time
	}

	User struct {
		ID              string
		Email           string
		PasswordHash    string
		FullName        string
		ProfileImageURL string
		CreatedAt       time.Time
	}
)

var (
	ErrInvalidKind     = errors.New("invalid entry kind")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrEmptyLabel      = errors.New("empty label")
	ErrLabelTooLong    = errors.New("label too long (max 100 characters)")
	ErrInvalidEmail    = errors.New("invalid email")
	ErrEmptyFullName   = errors.New("empty full name")
	ErrPasswordTooWeak = errors.New("password too short (min 8 characters)")
)

// Valid reports whether k is one of the two known entry kinds.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// LabelField is the wire name used for this kind's label: income entries
// carry a "source", expense entries a "category".
func (k Kind) LabelField() string {
	if k == KindIncome {
		return "source"
	}
	return "category"
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Entry) Validate() error {
	if !e.Kind.Valid() {
		return ErrInvalidKind
	}
	if len(strings.TrimSpace(e.Label)) == 0 {
		return ErrEmptyLabel
	}
	if len(e.Label) > 100 {
		return ErrLabelTooLong
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	return nil
}

// ValidateRegistration checks the fields a new user must provide.
// Password is the plaintext candidate, checked before hashing.
func (u User) ValidateRegistration(password string) error {
	email := strings.TrimSpace(u.Email)
	if email == "" || !strings.Contains(email, "@") || strings.HasPrefix(email, "@") || strings.HasSuffix(email, "@") {
		return ErrInvalidEmail
	}
	if len(strings.TrimSpace(u.FullName)) == 0 {
		return ErrEmptyFullName
	}
	if len(password) < 8 {
		return ErrPasswordTooWeak
	}
	return nil
}
