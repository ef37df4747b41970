// Package adapter maps raw backend records onto canonical models. The backend
// mixes snake_case, camelCase and Spanish/English synonyms for the same field,
// so every lookup accepts a list of candidate keys tried in order.
package adapter

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Record is a decoded JSON object as returned by the backend.
type Record = map[string]interface{}

var listKeys = []string{"content", "data", "items", "results", "rows"}

// Records unwraps list payloads: bare arrays or objects that wrap the list under
// content, data, items, results or rows. Non-object elements are dropped.
func Records(raw interface{}) []Record {
	switch v := raw.(type) {
	case []interface{}:
		out := make([]Record, 0, len(v))
		for _, item := range v {
			if rec, ok := item.(map[string]interface{}); ok {
				out = append(out, rec)
			}
		}
		return out
	case []Record:
		return v
	case map[string]interface{}:
		for _, key := range listKeys {
			if inner, ok := v[key]; ok && inner != nil {
				return Records(inner)
			}
		}
	}
	return nil
}

// Object unwraps a single-record payload, looking through a data envelope.
func Object(raw interface{}) Record {
	rec, ok := raw.(map[string]interface{})
	if !ok {
		return nil
	}
	if inner, ok := rec["data"].(map[string]interface{}); ok {
		return inner
	}
	return rec
}

func lookup(rec Record, keys ...string) (interface{}, bool) {
	for _, key := range keys {
		if v, ok := rec[key]; ok && v != nil {
			if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
				continue
			}
			return v, true
		}
	}
	return nil, false
}

// String returns the first non-blank value under keys as a trimmed string.
func String(rec Record, keys ...string) string {
	v, ok := lookup(rec, keys...)
	if !ok {
		return ""
	}
	switch v.(type) {
	case map[string]interface{}, []interface{}:
		return ""
	}
	return strings.TrimSpace(cast.ToString(v))
}

// Int64 returns the first value under keys that is numeric.
func Int64(rec Record, keys ...string) (int64, bool) {
	for _, key := range keys {
		v, ok := lookup(rec, key)
		if !ok {
			continue
		}
		if n, ok := ToInt64(v); ok {
			return n, true
		}
	}
	return 0, false
}

// Int64Ptr is Int64 returning nil when absent.
func Int64Ptr(rec Record, keys ...string) *int64 {
	if n, ok := Int64(rec, keys...); ok {
		return &n
	}
	return nil
}

// Int returns the first numeric value under keys, or zero.
func Int(rec Record, keys ...string) int {
	n, _ := Int64(rec, keys...)
	return int(n)
}

// Float returns the first numeric value under keys, or zero.
func Float(rec Record, keys ...string) float64 {
	for _, key := range keys {
		v, ok := lookup(rec, key)
		if !ok {
			continue
		}
		if _, isBool := v.(bool); isBool {
			continue
		}
		if f, err := cast.ToFloat64E(v); err == nil {
			return f
		}
	}
	return 0
}

// Bool returns the first boolean-like value under keys.
func Bool(rec Record, fallback bool, keys ...string) bool {
	v, ok := lookup(rec, keys...)
	if !ok {
		return fallback
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return fallback
	}
	return b
}

// ToInt64 coerces numbers and numeric strings. Booleans are not numeric.
func ToInt64(v interface{}) (int64, bool) {
	switch t := v.(type) {
	case nil, bool:
		return 0, false
	case string:
		trimmed := strings.TrimSpace(t)
		if trimmed == "" {
			return 0, false
		}
		if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return n, true
		}
		v = trimmed
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, true
		}
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Nested returns the first object value under keys.
func Nested(rec Record, keys ...string) Record {
	for _, key := range keys {
		if inner, ok := rec[key].(map[string]interface{}); ok {
			return inner
		}
	}
	return nil
}

// PersonName builds a display name from the usual name fields.
func PersonName(rec Record) string {
	if rec == nil {
		return ""
	}
	if full := String(rec, "nombreCompleto", "nombre_completo", "fullName", "full_name", "displayName"); full != "" {
		return full
	}
	first := String(rec, "nombre", "firstName", "first_name", "name")
	last := String(rec, "apellido", "lastName", "last_name", "surname")
	return strings.TrimSpace(first + " " + last)
}

var (
	dateTimeLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"02/01/2006 15:04",
	}
	dateLayouts = []string{"2006-01-02", "02/01/2006"}
)

// ParseTime interprets the timestamp shapes the backend emits: ISO strings with
// or without zone and seconds, epoch seconds or milliseconds, and date-time
// arrays ([y, m, d, h, min, s]). Zone-less values are read in loc and every
// result is expressed in loc.
func ParseTime(v interface{}, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	switch t := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		return t.In(loc), true
	case string:
		ts, ok := parseTimeString(strings.TrimSpace(t), loc)
		if !ok {
			return time.Time{}, false
		}
		return ts.In(loc), true
	case []interface{}:
		return parseTimeParts(t, loc)
	case bool:
		return time.Time{}, false
	}
	n, ok := ToInt64(v)
	if !ok || n <= 0 {
		return time.Time{}, false
	}
	if n > 1e12 {
		return time.UnixMilli(n).In(loc), true
	}
	return time.Unix(n, 0).In(loc), true
}

func parseTimeString(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateTimeLayouts {
		if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
			return ts, true
		}
	}
	for _, layout := range dateLayouts {
		if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
			return ts, true
		}
	}
	if ts, err := cast.ToTimeInDefaultLocationE(s, loc); err == nil && !ts.IsZero() {
		return ts, true
	}
	return time.Time{}, false
}

func parseTimeParts(parts []interface{}, loc *time.Location) (time.Time, bool) {
	if len(parts) < 3 {
		return time.Time{}, false
	}
	values := make([]int, 6)
	for i := 0; i < len(parts) && i < 6; i++ {
		n, ok := ToInt64(parts[i])
		if !ok {
			return time.Time{}, false
		}
		values[i] = int(n)
	}
	if values[1] < 1 || values[1] > 12 || values[2] < 1 || values[2] > 31 {
		return time.Time{}, false
	}
	return time.Date(values[0], time.Month(values[1]), values[2], values[3], values[4], values[5], 0, loc), true
}

// Time returns the first parseable timestamp under keys.
func Time(rec Record, loc *time.Location, keys ...string) (time.Time, bool) {
	for _, key := range keys {
		v, ok := lookup(rec, key)
		if !ok {
			continue
		}
		if ts, ok := ParseTime(v, loc); ok {
			return ts, true
		}
	}
	return time.Time{}, false
}

// TimePtr is Time returning nil when absent or unparseable.
func TimePtr(rec Record, loc *time.Location, keys ...string) *time.Time {
	if ts, ok := Time(rec, loc, keys...); ok {
		return &ts
	}
	return nil
}
