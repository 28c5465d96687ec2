package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// scanJSON decodes a text/blob column written by jsonValue into dest.
func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported column type %T", value)
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}

func jsonValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// StringList is a []string persisted as a JSON array.
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return jsonValue([]string(s))
}

func (s *StringList) Scan(value interface{}) error {
	return scanJSON(value, (*[]string)(s))
}

// Combination maps a variant heading name to the chosen option name.
type Combination map[string]string

func (c Combination) Value() (driver.Value, error) {
	if c == nil {
		return "{}", nil
	}
	return jsonValue(map[string]string(c))
}

func (c *Combination) Scan(value interface{}) error {
	return scanJSON(value, (*map[string]string)(c))
}

// Equal reports whether both combinations carry the same keys with the same values.
func (c Combination) Equal(other Combination) bool {
	if len(c) != len(other) {
		return false
	}
	for k, v := range c {
		ov, ok := other[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// Key renders the combination as a stable "k1=v1|k2=v2" string.
func (c Combination) Key() string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+c[k])
	}
	return strings.Join(parts, "|")
}

// Label renders the combination for invoices and notifications, e.g. "Color: Red, Size: M".
func (c Combination) Label() string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+c[k])
	}
	return strings.Join(parts, ", ")
}
