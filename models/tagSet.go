package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// TagSet is stored as a JSON array column.
type TagSet []string

func (t *TagSet) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*t = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported tag set type %T", value)
	}
	if len(raw) == 0 {
		*t = nil
		return nil
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return fmt.Errorf("failed to decode tag set: %w", err)
	}
	*t = tags
	return nil
}

func (t TagSet) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Normalize 去空白、去重複，保留原順序
func (t TagSet) Normalize() TagSet {
	seen := make(map[string]bool, len(t))
	var out TagSet
	for _, tag := range t {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tag)
	}
	return out
}

// Contains 不分大小寫比對子字串
func (t TagSet) Contains(query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	for _, tag := range t {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}
