// Package models contains database model definitions.
package models

import (
	"encoding/json"
	"strconv"
	"time"
)

// SettingType declares how a setting value must be decoded.
type SettingType string

const (
	// SettingTypeString decodes the value as-is.
	SettingTypeString SettingType = "string"
	// SettingTypeNumber decodes the value as a float.
	SettingTypeNumber SettingType = "number"
	// SettingTypeBoolean decodes the value as a boolean.
	SettingTypeBoolean SettingType = "boolean"
	// SettingTypeJSON decodes the value as an arbitrary JSON document.
	SettingTypeJSON SettingType = "json"
)

// Setting represents a named, typed, visibility-tagged configuration value.
// The value is always persisted as text; Decoded applies the declared type.
type Setting struct {
	ID       uint64      `gorm:"primaryKey"      json:"-"`
	Key      string      `gorm:"unique;size:191;not null" json:"key"`
	Value    string      `gorm:"type:text"       json:"value"`
	Type     SettingType `gorm:"type:varchar(20);not null;default:'string'" json:"type"`
	Category string      `gorm:"size:100"        json:"category"`
	IsPublic bool        `gorm:"not null;default:false"   json:"isPublic"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ValueKind tags a decoded setting value.
type ValueKind int

const (
	// KindString tags a plain string value.
	KindString ValueKind = iota
	// KindNumber tags a numeric value.
	KindNumber
	// KindBoolean tags a boolean value.
	KindBoolean
	// KindJSON tags a decoded JSON document.
	KindJSON
)

// Value is the decoded form of a setting. Exactly one of the typed fields
// is meaningful, selected by Kind.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
	JSON any
}

// Decoded decodes the raw text value under the declared type.
// Decoding never fails: a malformed number decodes to 0 and malformed JSON
// falls back to the raw string, because settings are advisory configuration.
func (s *Setting) Decoded() Value {
	return Decode(s.Type, s.Value)
}

// Decode applies the type coercion rule for raw to the given setting type.
func Decode(t SettingType, raw string) Value {
	switch t {
	case SettingTypeNumber:
		return decodeNumber(raw)
	case SettingTypeBoolean:
		return decodeBoolean(raw)
	case SettingTypeJSON:
		return decodeJSON(raw)
	default:
		return Value{Kind: KindString, Str: raw}
	}
}

func decodeNumber(raw string) Value {
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Value{Kind: KindNumber, Num: 0}
	}

	return Value{Kind: KindNumber, Num: n}
}

func decodeBoolean(raw string) Value {
	return Value{Kind: KindBoolean, Bool: raw == "true"}
}

func decodeJSON(raw string) Value {
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		// malformed JSON degrades to the raw string
		return Value{Kind: KindString, Str: raw}
	}

	return Value{Kind: KindJSON, JSON: doc}
}

// Native returns the decoded value as a plain Go value, suitable for JSON
// responses.
func (v Value) Native() any {
	switch v.Kind {
	case KindNumber:
		return v.Num
	case KindBoolean:
		return v.Bool
	case KindJSON:
		return v.JSON
	default:
		return v.Str
	}
}
