package jsonutil

import "testing"

func TestFlexibleString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", "hello", "hello"},
		{"nil", nil, ""},
		{"integral float", float64(42), "42"},
		{"fractional float", 42.5, "42.5"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FlexibleString(tt.in); got != tt.want {
				t.Errorf("FlexibleString(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFlexibleBool(t *testing.T) {
	if !FlexibleBool(true, false) {
		t.Error("expected true for bool true")
	}
	if !FlexibleBool("true", false) {
		t.Error("expected true for string true")
	}
	if FlexibleBool("0", true) {
		t.Error("expected false for string 0")
	}
	if !FlexibleBool(float64(1), false) {
		t.Error("expected true for nonzero number")
	}
	if !FlexibleBool(nil, true) {
		t.Error("expected default for nil")
	}
}

func TestFlexibleStringSlice(t *testing.T) {
	got := FlexibleStringSlice([]any{"a", float64(2), true})
	want := []string{"a", "2", "true"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	if FlexibleStringSlice("not an array") != nil {
		t.Error("expected nil for non-array input")
	}
}
