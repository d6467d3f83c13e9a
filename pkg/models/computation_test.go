package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestComputationRecord_JSONFieldNames(t *testing.T) {
	rec := ComputationRecord{
		Seq:       7,
		ID:        "0192f7a8-4d5e-7c3b-9a10-1b2c3d4e5f60",
		CreatedAt: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		Method:    "bisection",
		Equation:  "x^2-4",
		A:         0,
		B:         5,
		Epsilon:   0.0001,
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	jsonStr := string(data)

	for _, key := range []string{`"id"`, `"createdAt"`, `"method"`, `"equation"`, `"a"`, `"b"`, `"epsilon"`} {
		if !strings.Contains(jsonStr, key) {
			t.Errorf("expected %s in %s", key, jsonStr)
		}
	}
	// Internal sequence must not leak to clients.
	if strings.Contains(jsonStr, "Seq") || strings.Contains(jsonStr, `"seq"`) {
		t.Errorf("sequence column leaked into JSON: %s", jsonStr)
	}
}

func TestComputationRecord_OmitEmptyMethod(t *testing.T) {
	rec := ComputationRecord{ID: "x", Equation: "x", Epsilon: 1}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	if strings.Contains(string(data), `"method"`) {
		t.Errorf("expected method to be omitted, got %s", data)
	}
}

func TestComputationRecord_TableName(t *testing.T) {
	if got := (ComputationRecord{}).TableName(); got != "computations" {
		t.Errorf("expected table name 'computations', got '%s'", got)
	}
}
