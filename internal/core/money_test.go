package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"12", 1200, true},
		{"0.05", 5, true},
		{"12.345", 1234, true}, // rounds down
		{"12.346", 1235, true}, // rounds up
		{" 7.50 ", 750, true},
		{"", 0, false},
		{"0", 0, false},
		{"-3.00", 0, false},
		{"+3.00", 0, false},
		{"1.2.3", 0, false},
		{"abc", 0, false},
	}

	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok && err != nil {
			t.Errorf("ParseDecimalToCents(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if !tc.ok {
			if err == nil {
				t.Errorf("ParseDecimalToCents(%q) expected error", tc.in)
			}
			continue
		}
		if got != tc.want {
			t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: 150}
	if got := a.MulInt(100); got.Cents != 15000 {
		t.Fatalf("MulInt = %d, want 15000", got.Cents)
	}
	if got := a.Add(Money{Cents: 50}).Sub(Money{Cents: 75}); got.Cents != 125 {
		t.Fatalf("Add/Sub = %d, want 125", got.Cents)
	}
	if got := (Money{Cents: 1234}).String(); got != "12.34" {
		t.Fatalf("String = %q, want \"12.34\"", got)
	}
}
