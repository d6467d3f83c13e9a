package history

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/tb0hdan/numlab/pkg/methods"
	"github.com/tb0hdan/numlab/pkg/numerics"
)

// Number accepts a JSON number or a numeric string. Decoding never fails on a
// bad value; the problem is reported by SaveRequest.Validate instead.
type Number struct {
	Value float64
	// Set is true when the field was present and not null.
	Set bool
	// Valid is true when the field parsed as a number.
	Valid bool
}

func NumberOf(v float64) Number {
	return Number{Value: v, Set: true, Valid: true}
}

func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	n.Set = true

	var s string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return nil //nolint:nilerr // reported by Validate
		}
		s = strings.TrimSpace(s)
		if s == "" {
			n.Set = false
			return nil
		}
	} else {
		s = string(data)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil //nolint:nilerr // reported by Validate
	}
	n.Value = v
	n.Valid = true
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Set || !n.Valid || !numerics.IsFinite(n.Value) {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// SaveRequest is the body of a save call. "eq" is accepted as an alias of
// "equation"; method is optional and must name a solvable method.
type SaveRequest struct {
	Method   string `json:"method,omitempty"`
	Equation string `json:"equation"`
	Eq       string `json:"eq,omitempty"`
	A        Number `json:"a"`
	B        Number `json:"b"`
	Epsilon  Number `json:"epsilon"`
}

// RequestFromParams builds a save request from solver parameters; ok is false
// when p does not carry an equation, both bounds and a tolerance.
func RequestFromParams(slug string, p methods.Params) (SaveRequest, bool) {
	if p.Equation == "" || p.A == nil || p.B == nil || p.Epsilon == 0 {
		return SaveRequest{}, false
	}
	return SaveRequest{
		Method:   slug,
		Equation: p.Equation,
		A:        NumberOf(*p.A),
		B:        NumberOf(*p.B),
		Epsilon:  NumberOf(p.Epsilon),
	}, true
}
