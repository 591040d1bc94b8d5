package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	if _, ok := IsValidDate("2024-02-29"); !ok {
		t.Error("IsValidDate(2024-02-29) = false, want true")
	}
	for _, s := range []string{"2024-13-01", "29-02-2024", "not-a-date", ""} {
		if _, ok := IsValidDate(s); ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidEmployeeCode(t *testing.T) {
	valid := []string{"2024-0001", "1999-1234"}
	invalid := []string{"20240001", "2024-001", "abcd-0001", ""}
	for _, code := range valid {
		if !IsValidEmployeeCode(code) {
			t.Errorf("IsValidEmployeeCode(%q) = false, want true", code)
		}
	}
	for _, code := range invalid {
		if IsValidEmployeeCode(code) {
			t.Errorf("IsValidEmployeeCode(%q) = true, want false", code)
		}
	}
}

func TestParseHours(t *testing.T) {
	cases := []struct {
		input string
		want  string
		ok    bool
	}{
		{"8", "8", true},
		{"7.5", "7.5", true},
		{"0", "0", true},
		{"", "0", true},
		{"  4.25 ", "4.25", true},
		{"-1", "0", false},
		{"eight", "0", false},
	}
	for _, c := range cases {
		got, ok := ParseHours(c.input)
		if ok != c.ok {
			t.Errorf("ParseHours(%q) ok = %v, want %v", c.input, ok, c.ok)
			continue
		}
		if c.ok && got.String() != c.want {
			t.Errorf("ParseHours(%q) = %s, want %s", c.input, got, c.want)
		}
	}
}
