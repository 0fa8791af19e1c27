package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1.23", "1.23", true},
		{"24,90", "24.9", true},
		{"0.01", "0.01", true},
		{"1.005", "1.01", true},
		{" 2.50 ", "2.5", true},
		{".5", "0.5", true},
		{"0.004", "", false},
		{"-1", "", false},
		{"+1", "", false},
		{"0", "", false},
		{"abc", "", false},
		{"NaN", "", false},
		{"1.2.3", "", false},
		{"1e3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if !tc.ok {
			if err != ErrInvalidAmount {
				t.Errorf("ParseAmount(%q) err = %v, want ErrInvalidAmount", tc.in, err)
			}
			continue
		}
		if err != nil || !got.Equal(decimal.RequireFromString(tc.out)) {
			t.Errorf("ParseAmount(%q) = %v, %v; want %s", tc.in, got, err, tc.out)
		}
	}
}

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"0.125", "0.125", true},
		{"7,5", "7.5", true},
		{"0,001", "0.001", true},
		{"0", "", false},
		{"-2", "", false},
		{"acht", "", false},
	}
	for _, tc := range cases {
		got, err := ParseQuantity(tc.in)
		if !tc.ok {
			if err == nil {
				t.Errorf("ParseQuantity(%q) = %v, want error", tc.in, got)
			}
			continue
		}
		if err != nil || !got.Equal(decimal.RequireFromString(tc.out)) {
			t.Errorf("ParseQuantity(%q) = %v, %v; want %s", tc.in, got, err, tc.out)
		}
	}
}

func TestFormatEuro(t *testing.T) {
	cases := map[string]string{
		"0":       "0,00 €",
		"24.9":    "24,90 €",
		"1234.5":  "1.234,50 €",
		"-1000":   "-1.000,00 €",
		"1000000": "1.000.000,00 €",
	}
	for in, want := range cases {
		if got := FormatEuro(decimal.RequireFromString(in)); got != want {
			t.Errorf("FormatEuro(%s) = %q, want %q", in, got, want)
		}
	}
}
