package observed

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a numeric collector field. Collectors emit numbers, numeric
// strings or null depending on the device, so decoding never fails: a value
// that cannot be read as a number is kept in Raw with Valid set to false.
type Number struct {
	Value float64
	Raw   string
	Set   bool
	Valid bool
}

// NewNumber returns a set, valid Number.
func NewNumber(v float64) Number {
	return Number{Value: v, Raw: strconv.FormatFloat(v, 'f', -1, 64), Set: true, Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			n.Set, n.Raw = true, raw
			return nil
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			return nil
		}
	}

	n.Set = true
	n.Raw = raw
	if v, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		n.Value = v
		n.Valid = true
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	switch {
	case !n.Set:
		return []byte("null"), nil
	case !n.Valid:
		return json.Marshal(n.Raw)
	default:
		return []byte(strconv.FormatFloat(n.Value, 'f', -1, 64)), nil
	}
}

// Int64 truncates the value toward zero.
func (n Number) Int64() (int64, bool) {
	if !n.Set || !n.Valid {
		return 0, false
	}
	return int64(n.Value), true
}

// String returns the raw text of the value, or "" when unset.
func (n Number) String() string {
	if !n.Set {
		return ""
	}
	return n.Raw
}
