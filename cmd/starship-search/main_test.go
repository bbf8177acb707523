package main

import (
	"testing"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("SWAPI_SEARCH_TEST_KEY", "value")

	if got := getEnv("SWAPI_SEARCH_TEST_KEY", "fallback"); got != "value" {
		t.Errorf("getEnv = %q, want %q", got, "value")
	}
	if got := getEnv("SWAPI_SEARCH_MISSING_KEY", "fallback"); got != "fallback" {
		t.Errorf("getEnv = %q, want fallback", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"valid", "8", 8},
		{"empty", "", 3},
		{"not a number", "eight", 3},
		{"negative", "-2", 3},
		{"zero", "0", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv("SWAPI_SEARCH_TEST_INT", tt.value)
			}
			if got := getEnvInt("SWAPI_SEARCH_TEST_INT", 3); got != tt.want {
				t.Errorf("getEnvInt(%q) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}
