// Package lineparse turns raw text lines from a serial device into numeric
// samples. Devices in the wild print anything from a bare "12.5" to
// "temp:21.4,hum=40|x", so parsing is lenient per segment: a bad segment is
// reported and skipped, never fatal for the line.
package lineparse

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Delimiters separate segments within a multi-value line.
const Delimiters = ",;\t|"

// decimalPattern accepts an optional sign, digits with an optional decimal
// point, and an optional exponent. Word forms like NaN or Inf and hex floats
// are rejected.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// Result holds the values parsed from a single line and any segments that
// could not be converted.
type Result struct {
	Values  []float64
	Invalid []string
}

// ParseError reports a segment that failed numeric conversion.
type ParseError struct {
	Segment string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid segment: %s", e.Segment)
}

// Errors returns one ParseError per invalid segment, in line order.
func (r Result) Errors() []error {
	if len(r.Invalid) == 0 {
		return nil
	}
	errs := make([]error, len(r.Invalid))
	for i, seg := range r.Invalid {
		errs[i] = &ParseError{Segment: seg}
	}
	return errs
}

// Parse extracts numeric values from a raw line.
//
// The cleaned line (trimmed, NULs and spaces removed) is first tried as a
// single number. Otherwise it is split on Delimiters and each segment is
// read as "value", "label:value" or "label=value".
func Parse(raw string) Result {
	clean := Clean(raw)
	if clean == "" {
		return Result{}
	}

	if v, ok := ParseNumber(clean); ok {
		return Result{Values: []float64{v}}
	}

	var res Result
	for _, segment := range Split(clean) {
		if v, ok := parseSegment(segment); ok {
			res.Values = append(res.Values, v)
		} else {
			res.Invalid = append(res.Invalid, segment)
		}
	}
	return res
}

// Clean trims the line and strips NUL characters and spaces.
func Clean(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "\x00", "")
	return strings.ReplaceAll(s, " ", "")
}

// Split breaks a cleaned line into non-empty segments.
func Split(clean string) []string {
	return strings.FieldsFunc(clean, func(r rune) bool {
		return strings.ContainsRune(Delimiters, r)
	})
}

func parseSegment(segment string) (float64, bool) {
	valuePart := strings.TrimSpace(segment)
	if _, after, found := strings.Cut(segment, ":"); found {
		valuePart = strings.TrimSpace(after)
	}

	if v, ok := ParseNumber(valuePart); ok {
		return v, true
	}

	// "a=37020" style
	if _, after, found := strings.Cut(segment, "="); found {
		return ParseNumber(strings.TrimSpace(after))
	}
	return 0, false
}

// ParseNumber parses a locale-invariant decimal number. Values that overflow
// float64 are rejected.
func ParseNumber(s string) (float64, bool) {
	if !decimalPattern.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
