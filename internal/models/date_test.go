package models

import (
	"encoding/json"
	"testing"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-09-01")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if d.String() != "2026-09-01" {
		t.Errorf("expected 2026-09-01, got %s", d.String())
	}

	d, err = ParseDate("2026-09-01T15:04:05Z")
	if err != nil {
		t.Fatalf("ParseDate failed for timestamp: %v", err)
	}
	if d.String() != "2026-09-01" {
		t.Errorf("expected timestamp truncated to 2026-09-01, got %s", d.String())
	}

	if _, err = ParseDate("not-a-date"); err == nil {
		t.Error("expected error for garbage input")
	}
	if _, err = ParseDate("2026-13-45"); err == nil {
		t.Error("expected error for impossible date")
	}
}

func TestDateJSON(t *testing.T) {
	d, err := ParseDate("2026-12-24")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `"2026-12-24"` {
		t.Errorf("unexpected JSON: %s", data)
	}

	var decoded Date
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.String() != "2026-12-24" {
		t.Errorf("round trip mismatch: %s", decoded.String())
	}
}
