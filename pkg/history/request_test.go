package history

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/tb0hdan/numlab/pkg/methods"
)

func decode(t *testing.T, body string) SaveRequest {
	t.Helper()
	var req SaveRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("failed to decode %s: %v", body, err)
	}
	return req
}

func TestNumber_Unmarshal(t *testing.T) {
	tests := []struct {
		raw   string
		set   bool
		valid bool
		value float64
	}{
		{`5`, true, true, 5},
		{`0.0001`, true, true, 0.0001},
		{`"2.5"`, true, true, 2.5},
		{`" -3 "`, true, true, -3},
		{`"1e-4"`, true, true, 1e-4},
		{`"foo"`, true, false, 0},
		{`true`, true, false, 0},
		{`[1]`, true, false, 0},
		{`""`, false, false, 0},
		{`null`, false, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var n Number
			if err := json.Unmarshal([]byte(tt.raw), &n); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n.Set != tt.set || n.Valid != tt.valid {
				t.Errorf("expected set=%v valid=%v, got set=%v valid=%v", tt.set, tt.valid, n.Set, n.Valid)
			}
			if n.Value != tt.value {
				t.Errorf("expected value %v, got %v", tt.value, n.Value)
			}
		})
	}
}

func TestNumber_Marshal(t *testing.T) {
	data, _ := json.Marshal(NumberOf(1.5))
	if string(data) != "1.5" {
		t.Errorf("expected 1.5, got %s", data)
	}
	data, _ = json.Marshal(Number{})
	if string(data) != "null" {
		t.Errorf("expected null, got %s", data)
	}
}

func TestValidate_Valid(t *testing.T) {
	req := decode(t, `{"equation":"x^2-4","a":0,"b":"5","epsilon":"0.0001"}`)
	rec, err := req.Validate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Equation != "x^2-4" || rec.A != 0 || rec.B != 5 || rec.Epsilon != 0.0001 {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.ID != "" {
		t.Error("expected id to be assigned by storage")
	}
}

func TestValidate_EqAlias(t *testing.T) {
	req := decode(t, `{"eq":"sin(x)","a":1,"b":4,"epsilon":1e-6}`)
	rec, err := req.Validate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Equation != "sin(x)" {
		t.Errorf("expected equation from eq alias, got %q", rec.Equation)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
		msg   string
	}{
		{"non-numeric a", `{"equation":"x","a":"foo","b":1,"epsilon":0.1}`, "a", "must be a number"},
		{"missing equation", `{"a":0,"b":1,"epsilon":0.1}`, "equation", "is required"},
		{"blank equation", `{"equation":"   ","a":0,"b":1,"epsilon":0.1}`, "equation", "is required"},
		{"missing b", `{"equation":"x","a":0,"epsilon":0.1}`, "b", "is required"},
		{"infinite epsilon", `{"equation":"x","a":0,"b":1,"epsilon":"Inf"}`, "epsilon", "must be a finite number"},
		{"zero epsilon", `{"equation":"x","a":0,"b":1,"epsilon":0}`, "epsilon", "must be greater than 0"},
		{"unknown method", `{"method":"magic","equation":"x","a":0,"b":1,"epsilon":0.1}`, "method", "is not a known method"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decode(t, tt.body).Validate()
			var verr ValidationErrors
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationErrors, got %v", err)
			}
			if verr[tt.field] != tt.msg {
				t.Errorf("expected %s: %q, got %v", tt.field, tt.msg, verr)
			}
		})
	}
}

func TestValidate_ReportsEveryField(t *testing.T) {
	_, err := decode(t, `{"a":"x","b":"y"}`).Validate()
	var verr ValidationErrors
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	for _, f := range []string{"equation", "a", "b", "epsilon"} {
		if _, ok := verr[f]; !ok {
			t.Errorf("expected error for %s, got %v", f, verr)
		}
	}
	if verr.Error() != "validation failed: a: must be a number; b: must be a number; epsilon: is required; equation: is required" {
		t.Errorf("unexpected message: %s", verr.Error())
	}
}

func TestValidate_KnownMethod(t *testing.T) {
	req := decode(t, `{"method":"bisection","equation":"x","a":0,"b":1,"epsilon":0.1}`)
	rec, err := req.Validate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Method != methods.Bisection {
		t.Errorf("expected method bisection, got %q", rec.Method)
	}
}

func TestRequestFromParams(t *testing.T) {
	a, b := 0.0, 5.0
	req, ok := RequestFromParams(methods.Bisection, methods.Params{Equation: "x^2-4", A: &a, B: &b, Epsilon: 0.001})
	if !ok {
		t.Fatal("expected params to be saveable")
	}
	rec, err := req.Validate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Method != methods.Bisection || rec.B != 5 {
		t.Errorf("unexpected record: %+v", rec)
	}

	if _, ok := RequestFromParams(methods.Cramer, methods.Params{}); ok {
		t.Error("expected params without equation to be skipped")
	}
}
