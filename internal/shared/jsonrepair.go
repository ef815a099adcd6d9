package shared

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Fences are only recognised at the ends of the output; backticks inside
// JSON strings are content.
var (
	openFenceRe  = regexp.MustCompile("(?i)^```(?:json)?\\s*")
	closeFenceRe = regexp.MustCompile("\\s*```$")
)

// maxCount bounds the integers accepted from model output.
const maxCount = math.MaxInt32

// StripFences removes Markdown code fences around model output. When the model
// wrapped the object in prose, only the outermost {...} span is kept.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	s = closeFenceRe.ReplaceAllString(openFenceRe.ReplaceAllString(s, ""), "")
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "{") {
		return s
	}
	start, end := strings.Index(s, "{"), strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

// DecodeObject strictly parses a JSON object. Trailing data is an error.
func DecodeObject(s string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("invalid JSON: trailing data after object")
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON object, got %s", jsonKind(v))
	}
	return obj, nil
}

// MissingKeys lists the keys absent from obj. A key set to null is present;
// coercion replaces its value with a default.
func MissingKeys(obj map[string]any, keys ...string) []string {
	var missing []string
	for _, k := range keys {
		if _, ok := obj[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}

// CoerceString returns a string for v, or def when v is empty, zero, false or
// not a scalar. Markup is stripped from strings.
func CoerceString(v any, def string) string {
	switch t := v.(type) {
	case string:
		if s := PlainText(t); s != "" {
			return s
		}
	case json.Number:
		if f, err := t.Float64(); err == nil && f != 0 {
			return t.String()
		}
	case float64:
		if t != 0 {
			return strconv.FormatFloat(t, 'f', -1, 64)
		}
	case bool:
		if t {
			return "true"
		}
	}
	return def
}

// CoerceInt converts numbers and numeric strings to a positive count,
// truncating fractions. Anything below one, above maxCount or unparseable
// yields def.
func CoerceInt(v any, def int) int {
	var f float64
	switch t := v.(type) {
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return def
		}
		f = n
	case float64:
		f = t
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return def
		}
		f = n
	case bool:
		if t {
			f = 1
		}
	default:
		return def
	}
	if math.IsNaN(f) || f < 1 || f > maxCount {
		return def
	}
	return int(f)
}

// CoerceStrings keeps the string and number elements of an array. A non-array
// yields an empty slice.
func CoerceStrings(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		switch t := item.(type) {
		case string, json.Number, float64:
			if s := CoerceString(t, ""); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func jsonKind(v any) string {
	switch v.(type) {
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number, float64:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}
