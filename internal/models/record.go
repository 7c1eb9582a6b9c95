package models

import (
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Helpers that turn driver records and property maps into typed fields.
// Missing or mistyped properties decode to the zero value (or nil for
// pointer fields).

func nodeFromRecord(record *neo4j.Record, key string) (neo4j.Node, bool) {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return neo4j.Node{}, false
	}
	node, ok := val.(neo4j.Node)
	return node, ok
}

func relFromRecord(record *neo4j.Record, key string) (neo4j.Relationship, bool) {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return neo4j.Relationship{}, false
	}
	rel, ok := val.(neo4j.Relationship)
	return rel, ok
}

func getStringFromRecord(record *neo4j.Record, key string) string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

func getStringPtrFromRecord(record *neo4j.Record, key string) *string {
	if s := getStringFromRecord(record, key); s != "" {
		return &s
	}
	return nil
}

func getInt64FromRecord(record *neo4j.Record, key string) int64 {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return 0
	}
	switch i := val.(type) {
	case int64:
		return i
	case int:
		return int64(i)
	case float64:
		return int64(i)
	}
	return 0
}

func propString(props map[string]any, key string) string {
	if s, ok := props[key].(string); ok {
		return s
	}
	return ""
}

func propStringPtr(props map[string]any, key string) *string {
	if s, ok := props[key].(string); ok {
		return &s
	}
	return nil
}

func propInt(props map[string]any, key string) int {
	switch v := props[key].(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

func propIntPtr(props map[string]any, key string) *int {
	if _, ok := props[key]; !ok || props[key] == nil {
		return nil
	}
	n := propInt(props, key)
	return &n
}

func propFloatPtr(props map[string]any, key string) *float64 {
	switch v := props[key].(type) {
	case float64:
		return &v
	case int64:
		f := float64(v)
		return &f
	}
	return nil
}

func propBool(props map[string]any, key string) bool {
	b, _ := props[key].(bool)
	return b
}

func propTime(props map[string]any, key string) time.Time {
	switch v := props[key].(type) {
	case time.Time:
		return v
	case neo4j.LocalDateTime:
		return v.Time()
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func propTimePtr(props map[string]any, key string) *time.Time {
	t := propTime(props, key)
	if t.IsZero() {
		return nil
	}
	return &t
}

func propStrings(props map[string]any, key string) []string {
	raw, ok := props[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// optional turns a typed pointer into a driver parameter, nil when unset.
func optional[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
