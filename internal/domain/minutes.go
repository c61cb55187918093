package domain

import (
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Minutes is an exercise duration. It may hold NaN when the client sent
// something that is not a number; such values are kept, not rejected.
type Minutes float64

// IsNaN reports whether the duration could not be read as a number.
func (m Minutes) IsNaN() bool {
	return math.IsNaN(float64(m))
}

// MarshalJSON writes NaN and infinities as null, which is what JSON
// clients of this API have always received for them.
func (m Minutes) MarshalJSON() ([]byte, error) {
	f := float64(m)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

func (m *Minutes) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Minutes(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*m = Minutes(f)
	return nil
}

var decimalLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ParseMinutes coerces a request value into a duration with ToNumber.
func ParseMinutes(v any, present bool) Minutes {
	return Minutes(ToNumber(v, present))
}

// ToNumber coerces a request value to a number the way a loosely typed
// client expects: "30" and 30 are both 30, an empty string or null is 0,
// true is 1 and anything unreadable is NaN. present is false when the
// field was not sent at all.
func ToNumber(v any, present bool) float64 {
	if !present {
		return math.NaN()
	}
	switch val := v.(type) {
	case nil:
		return 0
	case bool:
		if val {
			return 1
		}
		return 0
	case float64:
		return val
	case json.Number:
		return parseNumberString(string(val))
	case string:
		return parseNumberString(val)
	case []any:
		switch len(val) {
		case 0:
			return 0
		case 1:
			// [true] reads as "true", which is not a number.
			if _, isBool := val[0].(bool); isBool {
				return math.NaN()
			}
			return ToNumber(val[0], true)
		}
	}
	return math.NaN()
}

func parseNumberString(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return math.NaN()
			}
			return float64(n)
		}
	}

	if !decimalLiteral.MatchString(s) {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Out of range still yields ±Inf, like a client would compute.
		if errors.Is(err, strconv.ErrRange) {
			return f
		}
		return math.NaN()
	}
	return f
}
