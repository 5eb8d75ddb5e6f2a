package tokens

import (
	"bytes"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// ParseList coerces a list-shaped value into a slice of strings. It accepts
// native slices, JSON or Python style bracketed text, Postgres array literals
// and comma separated text. Anything else yields an empty slice, never nil.
func ParseList(value any) []string {
	switch v := value.(type) {
	case nil:
		return []string{}
	case []string:
		return v
	case string:
		return parseText(v)
	case []byte:
		return parseText(string(v))
	case *string:
		if v == nil {
			return []string{}
		}
		return parseText(*v)
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []string{}
	}

	result := make([]string, 0, rv.Len())
	for i := range rv.Len() {
		item := rv.Index(i).Interface()
		if item == nil {
			continue
		}
		result = append(result, formatScalar(item))
	}
	return result
}

// ParseIDs coerces a list-shaped value into integer ids. Elements that are not
// whole numbers are skipped.
func ParseIDs(value any) []int {
	switch v := value.(type) {
	case []int:
		return v
	case []int64:
		ids := make([]int, 0, len(v))
		for _, id := range v {
			ids = append(ids, int(id))
		}
		return ids
	}

	items := ParseList(value)
	ids := make([]int, 0, len(items))
	for _, item := range items {
		if id, ok := parseID(item); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func parseID(raw string) (int, bool) {
	raw = strings.Trim(strings.TrimSpace(raw), `"'`)
	if raw == "" {
		return 0, false
	}
	if id, err := strconv.Atoi(raw); err == nil {
		return id, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

func parseText(raw string) []string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return []string{}
	}

	switch {
	case strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]"):
		if items, ok := decodeJSONList(text); ok {
			return items
		}
		if items, ok := decodeJSONList(strings.ReplaceAll(text, "'", `"`)); ok {
			return items
		}
		return splitItems(text[1 : len(text)-1])
	case strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}"):
		return splitItems(text[1 : len(text)-1])
	case strings.Contains(text, ","):
		return splitItems(text)
	}

	return []string{text}
}

func decodeJSONList(text string) ([]string, bool) {
	var items []any
	decoder := json.NewDecoder(bytes.NewReader([]byte(text)))
	decoder.UseNumber()
	if err := decoder.Decode(&items); err != nil {
		return nil, false
	}

	result := make([]string, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		result = append(result, formatScalar(item))
	}
	return result, true
}

func splitItems(text string) []string {
	parts := strings.Split(text, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.Trim(strings.TrimSpace(part), `"'`)
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

func formatScalar(item any) string {
	switch v := item.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
