package document

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind is the tag of a scalar Value.
type Kind uint8

const (
	// KindString is a text value (also used for booleans and nulls).
	KindString Kind = iota
	// KindNumber is a JSON number.
	KindNumber
	// KindTime is an instant produced by time coercion.
	KindTime
	// KindNull is an absent cell.
	KindNull
)

// Value is a tagged scalar: String, Number, Time or Null.
type Value struct {
	kind Kind
	str  string
	num  float64
	at   time.Time
}

// StringValue creates a String value.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// NumberValue creates a Number value.
func NumberValue(f float64) Value { return Value{kind: KindNumber, num: f} }

// TimeValue creates a Time value.
func TimeValue(t time.Time) Value { return Value{kind: KindTime, at: t.UTC()} }

// NullValue creates a Null value.
func NullValue() Value { return Value{kind: KindNull} }

// Kind returns the value tag.
func (v Value) Kind() Kind { return v.kind }

// Str returns the text of a String value.
func (v Value) Str() string { return v.str }

// Num returns the number of a Number value.
func (v Value) Num() float64 { return v.num }

// Time returns the instant of a Time value.
func (v Value) Time() time.Time { return v.at }

// Truthy reports whether the value would pass a JavaScript truthiness test:
// "" and 0 are falsy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNumber:
		return v.num != 0 && !math.IsNaN(v.num)
	case KindTime:
		return true
	default:
		return v.str != ""
	}
}

// String renders the value for titles, series keys and annotations.
// Time renders as epoch milliseconds.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return FormatNumber(v.num)
	case KindTime:
		return strconv.FormatInt(v.at.UnixMilli(), 10)
	default:
		return v.str
	}
}

// Interface returns the JSON cell representation: string, float64,
// int64 epoch milliseconds or nil.
func (v Value) Interface() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindNumber:
		return v.num
	case KindTime:
		return v.at.UnixMilli()
	default:
		return v.str
	}
}

// FormatNumber formats f the way JavaScript's Number#toString does:
// plain decimal notation for magnitudes in [1e-6, 1e21), exponent otherwise.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + sign + digits
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ToTime coerces v to a Time value. Numbers are epoch milliseconds; strings
// are RFC 3339, a few common ISO-8601 variants or numeric milliseconds.
// The second result is false when v cannot be interpreted as an instant.
func ToTime(v Value) (Value, bool) {
	switch v.kind {
	case KindTime:
		return v, true
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return v, false
		}
		return TimeValue(time.UnixMilli(int64(v.num))), true
	}

	s := strings.TrimSpace(v.str)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeValue(t), true
		}
	}
	if ms, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(ms) && !math.IsInf(ms, 0) {
		return TimeValue(time.UnixMilli(int64(ms))), true
	}
	return v, false
}
