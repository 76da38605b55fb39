package model

import (
	"encoding/json"
	"testing"
)

func TestResultCountUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ResultCount
	}{
		{name: "number", in: `{"date":"2025-01-02","results":42}`, want: "42"},
		{name: "string", in: `{"date":"2025-01-02","results":"1,204"}`, want: "1,204"},
		{name: "null", in: `{"date":"2025-01-02","results":null}`, want: ""},
		{name: "missing", in: `{"date":"2025-01-02"}`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e HistoryEntry
			if err := json.Unmarshal([]byte(tt.in), &e); err != nil {
				t.Fatalf("Unmarshal() unexpected error: %v", err)
			}
			if e.Results != tt.want {
				t.Errorf("Results = %q, want %q", e.Results, tt.want)
			}
		})
	}
}

func TestResultCountString(t *testing.T) {
	if got := ResultCount("").String(); got != "—" {
		t.Errorf("empty String() = %q, want placeholder", got)
	}
	if got := ResultCount("7").String(); got != "7" {
		t.Errorf("String() = %q, want %q", got, "7")
	}
}

func TestSessionValid(t *testing.T) {
	if (Session{Token: "t1"}).Valid() {
		t.Error("session without username should be invalid")
	}
	if (Session{Username: "alice"}).Valid() {
		t.Error("session without token should be invalid")
	}
	if !(Session{Token: "t1", Username: "alice"}).Valid() {
		t.Error("complete session should be valid")
	}
}
