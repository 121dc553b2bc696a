package entity

import (
	"errors"
	"fmt"
	"strconv"
)

// Document keys shared by every store driver and the JSON representation.
const (
	FieldID        = "_id"
	FieldTitle     = "title"
	FieldDirector  = "director"
	FieldGenre     = "genre"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
	fieldVersion   = "__v"
)

// ErrFieldType is returned by CheckFieldTypes when a known movie field carries
// a non-string value.
var ErrFieldType = errors.New("invalid field type")

const (
	setTitle uint8 = 1 << iota
	setDirector
	setGenre
)

// Movie is schema-less beyond title, director and genre. Any other field the
// client sends is kept in Extra, as is a known field whose value is not a
// scalar.
type Movie struct {
	Base
	Title    string
	Director string
	Genre    string
	Extra    map[string]any

	// known fields that were explicitly given, even if empty
	set uint8
}

// IsReserved reports whether key is managed by the store and must never be
// taken from client input.
func IsReserved(key string) bool {
	switch key {
	case FieldID, FieldCreatedAt, FieldUpdatedAt, fieldVersion:
		return true
	}
	return false
}

func isKnown(key string) bool {
	return key == FieldTitle || key == FieldDirector || key == FieldGenre
}

// Apply merges fields into m. Reserved keys are ignored. Scalars given for a
// known field are converted to strings, null clears it and any other value is
// kept verbatim in Extra.
func (m *Movie) Apply(fields map[string]any) {
	for key, value := range fields {
		if IsReserved(key) {
			continue
		}
		if !isKnown(key) {
			m.setExtra(key, value)
			continue
		}

		delete(m.Extra, key)
		s, ok := scalarString(value)
		if !ok {
			m.setKnown(key, "", false)
			m.setExtra(key, value)
			continue
		}
		m.setKnown(key, s, value != nil)
	}
}

func (m *Movie) setExtra(key string, value any) {
	if m.Extra == nil {
		m.Extra = make(map[string]any)
	}
	m.Extra[key] = value
}

func (m *Movie) setKnown(key, value string, present bool) {
	var bit uint8
	switch key {
	case FieldTitle:
		m.Title, bit = value, setTitle
	case FieldDirector:
		m.Director, bit = value, setDirector
	case FieldGenre:
		m.Genre, bit = value, setGenre
	}
	if present {
		m.set |= bit
	} else {
		m.set &^= bit
	}
}

// Document returns the client-visible fields as a flat map, without the
// identifier and timestamps. A known field is present when it is non-empty or
// was explicitly set to "".
func (m *Movie) Document() map[string]any {
	doc := make(map[string]any, len(m.Extra)+3)
	for k, v := range m.Extra {
		doc[k] = v
	}
	if m.Title != "" || m.set&setTitle != 0 {
		doc[FieldTitle] = m.Title
	}
	if m.Director != "" || m.set&setDirector != 0 {
		doc[FieldDirector] = m.Director
	}
	if m.Genre != "" || m.set&setGenre != 0 {
		doc[FieldGenre] = m.Genre
	}
	return doc
}

// NormalizePatch prepares a partial update: reserved keys are dropped and
// scalars given for known fields are converted to strings.
func NormalizePatch(fields map[string]any) map[string]any {
	patch := make(map[string]any, len(fields))
	for key, value := range fields {
		if IsReserved(key) {
			continue
		}
		if isKnown(key) && value != nil {
			if s, ok := scalarString(value); ok {
				value = s
			}
		}
		patch[key] = value
	}
	return patch
}

// CheckFieldTypes rejects known fields that are neither strings nor null.
func CheckFieldTypes(fields map[string]any) error {
	for key, value := range fields {
		if !isKnown(key) {
			continue
		}
		switch value.(type) {
		case nil, string:
		default:
			return fmt.Errorf("%w: %s must be a string, got %T", ErrFieldType, key, value)
		}
	}
	return nil
}

func scalarString(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", true
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case int:
		return strconv.Itoa(v), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	default:
		return "", false
	}
}
