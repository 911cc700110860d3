package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// LocalizedText carries independent content per supported locale. An absent
// locale is the empty string for that locale, never a fallback copy of the
// other one.
type LocalizedText struct {
	En string `json:"en"`
	Fa string `json:"fa"`
}

// Get returns the content for a locale code ("en" or "fa"). Unknown locales
// resolve to English.
func (t LocalizedText) Get(locale string) string {
	if locale == "fa" {
		return t.Fa
	}
	return t.En
}

// IsEmpty reports whether no locale carries content
func (t LocalizedText) IsEmpty() bool {
	return t.En == "" && t.Fa == ""
}

// Value implements driver.Valuer for JSONB storage
func (t LocalizedText) Value() (driver.Value, error) {
	return json.Marshal(t)
}

// Scan implements sql.Scanner for JSONB storage
func (t *LocalizedText) Scan(src interface{}) error {
	if src == nil {
		*t = LocalizedText{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into LocalizedText", src)
	}
	return json.Unmarshal(b, t)
}

// LocalizedList carries an ordered list of strings per locale, used for
// feature and application bullet points.
type LocalizedList struct {
	En []string `json:"en"`
	Fa []string `json:"fa"`
}

// Get returns the list for a locale code
func (l LocalizedList) Get(locale string) []string {
	if locale == "fa" {
		return l.Fa
	}
	return l.En
}

// Value implements driver.Valuer for JSONB storage
func (l LocalizedList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSONB storage
func (l *LocalizedList) Scan(src interface{}) error {
	if src == nil {
		*l = LocalizedList{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into LocalizedList", src)
	}
	return json.Unmarshal(b, l)
}
