package models

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ValueKind tags the runtime type of a row value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindNumber
	KindBool
	KindString
	KindTime
)

// String returns a readable name for the kind.
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	default:
		return "unknown"
	}
}

// Value is a tagged row value. Query results arrive as untyped maps; ValueOf
// classifies each entry exactly once so downstream consumers (semantic-type
// inference, SQL literal formatting) dispatch on the Kind tag instead of
// re-sniffing the dynamic type.
type Value struct {
	Kind ValueKind

	Num  float64
	Bool bool
	Str  string
	Time time.Time

	// DateOnly marks a Time value with no time-of-day component, which
	// renders as a DATE literal rather than a TIMESTAMP.
	DateOnly bool
}

// ValueOf classifies a raw row value.
//
// Strings are kept as strings even when their content looks numeric or
// date-like; content sniffing belongs to the consumer (the SQL formatter
// inspects string content, semantic-type inference uses IsDateString).
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return Value{Kind: KindNull}
	case bool:
		return Value{Kind: KindBool, Bool: x}
	case int:
		return Value{Kind: KindNumber, Num: float64(x)}
	case int32:
		return Value{Kind: KindNumber, Num: float64(x)}
	case int64:
		return Value{Kind: KindNumber, Num: float64(x)}
	case float32:
		return Value{Kind: KindNumber, Num: float64(x)}
	case float64:
		return Value{Kind: KindNumber, Num: x}
	case time.Time:
		dateOnly := x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0
		return Value{Kind: KindTime, Time: x, DateOnly: dateOnly}
	case string:
		return Value{Kind: KindString, Str: x}
	case []byte:
		return Value{Kind: KindString, Str: string(x)}
	default:
		return Value{Kind: KindString, Str: fmt.Sprintf("%v", x)}
	}
}

// Float returns the numeric interpretation of the value and whether one
// exists. Numeric strings convert; everything else does not.
func (v Value) Float() (float64, bool) {
	switch v.Kind {
	case KindNumber:
		return v.Num, true
	case KindString:
		f, err := strconv.ParseFloat(v.Str, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

var (
	isoDatePattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	isoDateTimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(\.\d+)?$`)
	monDatePattern     = regexp.MustCompile(`^\d{2}-[A-Z]{3}-\d{4}$`)
	slashDatePattern   = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

	// Loose prefixed forms used for semantic-type inference only.
	looseISOPattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	looseSlashPattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}`)
)

// IsDateString reports whether s matches one of the recognized date or
// date-time text patterns (exact match, used by the SQL formatter).
func IsDateString(s string) bool {
	return isoDatePattern.MatchString(s) ||
		isoDateTimePattern.MatchString(s) ||
		monDatePattern.MatchString(s) ||
		slashDatePattern.MatchString(s)
}

// LooksTemporal reports whether s starts with a date-like prefix. Semantic
// type inference uses the looser test so values like "2024-01-15T10:00:00Z"
// still classify as temporal.
func LooksTemporal(s string) bool {
	return looseISOPattern.MatchString(s) || looseSlashPattern.MatchString(s)
}

// IsNumericString reports whether s parses fully as a number.
func IsNumericString(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// IsJSONString reports whether s is bracket-delimited like a JSON document.
// No structural validation is attempted; the caller only needs to know the
// value should stay a quoted string.
func IsJSONString(s string) bool {
	if len(s) < 2 {
		return false
	}
	first, last := s[0], s[len(s)-1]
	return (first == '{' && last == '}') || (first == '[' && last == ']')
}
