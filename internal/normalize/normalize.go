// Package normalize turns loosely typed spreadsheet cells into the clean
// scalar values exposed by the data API. Every function is total: bad input
// degrades to an empty string or zero instead of an error.
package normalize

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Epoch is day zero of spreadsheet serial dates.
var Epoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

const (
	minYear = 1900
	maxYear = 2100

	// Serials beyond this magnitude fall outside [minYear, maxYear] anyway and
	// would overflow time.Duration.
	maxSerial = 100000
)

// dateLayouts are tried in order for free-text date cells. Month-first
// numeric forms win over day-first ones, as in most spreadsheet exports.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"1-2-2006",
	"01-02-2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04 PM",
	"1/2/2006 3:04:05 PM",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
	"2 January 2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"02-Jan-06",
	"Mon Jan 2 2006",
	"Mon, 02 Jan 2006 15:04:05 MST",
}

// DateISO renders a date cell as YYYY-MM-DD. It accepts a time.Time, a
// spreadsheet serial number or a free-text date. Dates outside 1900..2100 and
// anything unparseable yield "".
func DateISO(v any) string {
	t, ok := parseDate(v)
	if !ok {
		return ""
	}
	if y := t.Year(); y < minYear || y > maxYear {
		return ""
	}
	return t.Format("2006-01-02")
}

func parseDate(v any) (time.Time, bool) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if x.IsZero() {
			return time.Time{}, false
		}
		return x.UTC(), true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), true
			}
		}
		return time.Time{}, false
	}
	f, ok := toFloat(v)
	if !ok {
		return time.Time{}, false
	}
	return SerialToTime(f)
}

// SerialToTime converts a spreadsheet serial (days since Epoch, fractional
// part is the time of day) to a UTC time, rounded to the millisecond.
func SerialToTime(serial float64) (time.Time, bool) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || math.Abs(serial) > maxSerial {
		return time.Time{}, false
	}
	ms := math.Round(serial * 24 * 60 * 60 * 1000)
	return Epoch.Add(time.Duration(ms) * time.Millisecond), true
}

// TimeOfDay renders a fractional-day number as zero-padded HH:MM. Strings
// pass through trimmed; anything else, time.Time included, yields "".
func TimeOfDay(v any) string {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	total := int(math.Round(f * 24 * 60))
	hours := total / 60
	minutes := total % 60
	return pad2(hours) + ":" + pad2(minutes)
}

func pad2(n int) string {
	if n >= 0 && n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// Gender maps any token starting with m/M to "Male" and f/F to "Female".
// Other tokens are title-cased; non-strings and blanks yield "".
func Gender(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	text := strings.TrimSpace(s)
	if text == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(text)
	switch unicode.ToLower(first) {
	case 'm':
		return "Male"
	case 'f':
		return "Female"
	}
	return string(unicode.ToUpper(first)) + strings.ToLower(text[size:])
}

var (
	ageSlashGender = regexp.MustCompile(`(\d+)\s*/\s*([a-zA-Z]+)`)
	digitsOnly     = regexp.MustCompile(`^\d+$`)
)

// AgeGender splits a combined "34/Male" cell. The fallbacks are applied in a
// fixed order: "<digits>/<letters>" anywhere in the text, then a bare number
// (age only), then the whole text as a gender token. Digit runs too long for
// an int clamp to math.MaxInt.
func AgeGender(v any) (age *int, gender string) {
	if !Present(v) {
		return nil, ""
	}
	text := String(v)
	if text == "" {
		return nil, ""
	}
	if m := ageSlashGender.FindStringSubmatch(text); m != nil {
		return parseAge(m[1]), Gender(m[2])
	}
	if digitsOnly.MatchString(text) {
		return parseAge(text), ""
	}
	return nil, Gender(text)
}

func parseAge(digits string) *int {
	n, err := strconv.Atoi(digits)
	if errors.Is(err, strconv.ErrRange) {
		n = math.MaxInt
	} else if err != nil {
		return nil
	}
	return &n
}

// Rating maps a performance score to its label.
func Rating(score float64) string {
	switch {
	case score >= 4.5:
		return "Excellent"
	case score >= 3:
		return "Good"
	case score > 0:
		return "Needs Support"
	}
	return "Unrated"
}

// String renders any cell as trimmed text. Integral numbers print without a
// fractional part.
func String(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.UTC().Format("2006-01-02")
	}
	if f, ok := toFloat(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}

// Number coerces a cell to a number; blanks, garbage and non-finite values
// become 0.
func Number(v any) float64 {
	var f float64
	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = parsed
	case bool:
		if x {
			return 1
		}
		return 0
	default:
		var ok bool
		if f, ok = toFloat(v); !ok {
			return 0
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Int is Number truncated toward zero.
func Int(v any) int {
	return int(Number(v))
}

// Present reports whether a cell holds a real value. Whitespace-only text
// counts as blank.
func Present(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(x) != ""
	case bool:
		return x
	case time.Time:
		return !x.IsZero()
	}
	f, ok := toFloat(v)
	return ok && f != 0 && !math.IsNaN(f)
}

// First returns the value of the first key that exists in row. Sheets edited
// by hand drift between "Name" and "Name " style headers.
func First(row map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := row[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint64:
		return float64(x), true
	case uint32:
		return float64(x), true
	}
	return 0, false
}
