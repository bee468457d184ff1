package core

import (
	"strings"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-09")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.Year() != 2025 || d.Month() != time.March || d.Day() != 9 {
		t.Fatalf("unexpected date %v", d)
	}
	for _, bad := range []string{"", "09/03/2025", "2025-13-01", "yesterday"} {
		if _, err := ParseDate(bad); err == nil {
			t.Fatalf("%q expected error", bad)
		}
	}
}

func TestKind(t *testing.T) {
	if !KindIncome.Valid() || !KindExpense.Valid() {
		t.Fatal("known kinds must be valid")
	}
	if Kind("transfer").Valid() {
		t.Fatal("unknown kind must be invalid")
	}
	if KindIncome.LabelField() != "source" || KindExpense.LabelField() != "category" {
		t.Fatal("unexpected label field names")
	}
}

func TestEntryValidate(t *testing.T) {
	good := Entry{
		Kind:   KindExpense,
		Label:  "Groceries",
		Amount: Money{Cents: 100},
		Date:   NewDate(2025, 1, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Entry{
		{Kind: "loan", Label: "a", Amount: Money{Cents: 1}, Date: NewDate(2025, 1, 1)},
		{Kind: KindIncome, Label: "", Amount: Money{Cents: 1}, Date: NewDate(2025, 1, 1)},
		{Kind: KindIncome, Label: "   ", Amount: Money{Cents: 1}, Date: NewDate(2025, 1, 1)},
		{Kind: KindIncome, Label: strings.Repeat("x", 101), Amount: Money{Cents: 1}, Date: NewDate(2025, 1, 1)},
		{Kind: KindIncome, Label: "a", Amount: Money{Cents: 0}, Date: NewDate(2025, 1, 1)},
		{Kind: KindIncome, Label: "a", Amount: Money{Cents: -5}, Date: NewDate(2025, 1, 1)},
		{Kind: KindIncome, Label: "a", Amount: Money{Cents: 1}, Date: Date{}},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestUserValidateRegistration(t *testing.T) {
	good := User{Email: "jo@example.com", FullName: "Jo Doe"}
	if err := good.ValidateRegistration("longenough"); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		user     User
		password string
	}{
		{User{Email: "", FullName: "Jo"}, "longenough"},
		{User{Email: "not-an-email", FullName: "Jo"}, "longenough"},
		{User{Email: "@example.com", FullName: "Jo"}, "longenough"},
		{User{Email: "jo@", FullName: "Jo"}, "longenough"},
		{User{Email: "jo@example.com", FullName: "  "}, "longenough"},
		{User{Email: "jo@example.com", FullName: "Jo"}, "short"},
	}
	for i, tc := range cases {
		if err := tc.user.ValidateRegistration(tc.password); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
