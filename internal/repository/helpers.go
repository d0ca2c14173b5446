package repository

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// toColumn coerces a decoded JSON value to what the column stores. nil is
// always accepted and stored as NULL.
func toColumn(k Kind, v any) (any, bool) {
	if v == nil {
		return nil, true
	}
	if s, ok := v.(string); ok && k != Text && strings.TrimSpace(s) == "" {
		return nil, true
	}
	switch k {
	case Text:
		switch x := v.(type) {
		case string:
			return x, true
		case float64:
			return strconv.FormatFloat(x, 'f', -1, 64), true
		case int:
			return strconv.Itoa(x), true
		case int64:
			return strconv.FormatInt(x, 10), true
		case bool:
			return strconv.FormatBool(x), true
		}
	case Int:
		f, ok := number(v)
		if !ok {
			return nil, false
		}
		return int64(math.Trunc(f)), true
	case Real:
		return number(v)
	}
	return nil, false
}

func number(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// fromColumn converts a scanned driver value into a JSON-friendly one.
func fromColumn(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	}
	return v
}
