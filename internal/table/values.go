package table

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrNotNumber and ErrNotTime are wrapped by the coercion helpers.
var (
	ErrNotNumber = errors.New("not a number")
	ErrNotTime   = errors.New("not a timestamp")
)

// NumberOptions controls locale-aware numeric parsing.
type NumberOptions struct {
	// If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune // optional; if 0, auto-detect common separators (',' '.' space)
}

// USNumbers is '.' decimal with ',' grouping, the layout of the movie and
// crime exports.
var USNumbers = NumberOptions{DecimalSeparator: '.', ThousandsSeparator: ','}

// ParseNumber parses s as a float, tolerating a leading currency symbol,
// a trailing '%', surrounding spaces and thousands separators.
func ParseNumber(s string, opt NumberOptions) (float64, bool) {
	raw := strings.TrimSpace(s)
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSuffix(raw, "%")
	neg := false
	if strings.HasPrefix(raw, "-") {
		neg = true
		raw = strings.TrimSpace(raw[1:])
	}
	for _, sym := range []string{"$", "€", "£"} {
		raw = strings.TrimPrefix(raw, sym)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if dec == 0 {
		// auto detect
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		switch {
		case cpos >= 0 && dpos >= 0:
			if cpos > dpos {
				dec, thou = ',', '.'
			} else {
				dec, thou = '.', ','
			}
		case cpos >= 0:
			// "1,234" and "1,234,567" are grouping; "0,5" is a decimal comma
			if strings.Count(raw, ",") > 1 || len(raw)-cpos-1 == 3 {
				dec, thou = '.', ','
			} else {
				dec = ','
			}
		default:
			dec = '.'
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
		raw = strings.ReplaceAll(raw, " ", "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	if neg {
		f = -f
	}
	return f, true
}

var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"2006/01/02 15:04:05",
	"01/02/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006",
}

// ParseTime tries the supported timestamp layouts in order.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// AsString renders a scalar cell as text. ok is false for missing cells.
func AsString(v Value) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(x), true
	default:
		return fmt.Sprint(x), true
	}
}

// AsFloat coerces a cell to float64. ok is false for missing cells; err is
// set when a present cell is not numeric.
func AsFloat(v Value, opt NumberOptions) (f float64, ok bool, err error) {
	switch x := v.(type) {
	case nil:
		return 0, false, nil
	case float64:
		if math.IsNaN(x) {
			return 0, false, nil
		}
		return x, true, nil
	case string:
		if strings.TrimSpace(x) == "" {
			return 0, false, nil
		}
		n, okp := ParseNumber(x, opt)
		if !okp {
			return 0, false, fmt.Errorf("%w: %q", ErrNotNumber, x)
		}
		return n, true, nil
	default:
		return 0, false, fmt.Errorf("%w: %v", ErrNotNumber, x)
	}
}

// AsInt is AsFloat truncated toward zero.
func AsInt(v Value, opt NumberOptions) (int, bool, error) {
	f, ok, err := AsFloat(v, opt)
	if !ok || err != nil {
		return 0, ok, err
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false, fmt.Errorf("%w: %v out of range", ErrNotNumber, f)
	}
	return int(f), true, nil
}

// AsTime coerces a cell to a timestamp.
func AsTime(v Value) (time.Time, bool, error) {
	s, ok := AsString(v)
	if !ok {
		return time.Time{}, false, nil
	}
	t, okp := ParseTime(s)
	if !okp {
		return time.Time{}, false, fmt.Errorf("%w: %q", ErrNotTime, s)
	}
	return t, true, nil
}
