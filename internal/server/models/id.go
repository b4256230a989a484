// Package models defines server-side domain entities shared by services,
// repositories and the REST layer.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// ID is the opaque identifier of every persisted entity. It is parsed from
// strings only at the edges (URL params, request bodies, storage rows) and
// formatted back with String.
type ID struct {
	u uuid.UUID
}

// NilID is the zero identifier; it never refers to a stored entity.
var NilID ID

// NewID returns a fresh random identifier.
func NewID() ID {
	return ID{u: uuid.New()}
}

// ParseID converts the textual form of an identifier.
func ParseID(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return NilID, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return ID{u: u}, nil
}

// MustParseID is ParseID for constants in tests and fixtures.
func MustParseID(s string) ID {
	id, err := ParseID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id ID) String() string {
	if id.IsZero() {
		return ""
	}
	return id.u.String()
}

// IsZero reports whether id is NilID.
func (id ID) IsZero() bool {
	return id.u == uuid.Nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(id.u.String())
}

func (id *ID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = NilID
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*id = NilID
		return nil
	}
	parsed, err := ParseID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Value stores the id as text; NilID becomes SQL NULL.
func (id ID) Value() (driver.Value, error) {
	if id.IsZero() {
		return nil, nil
	}
	return id.u.String(), nil
}

// Scan reads uuid/text columns, treating NULL as NilID.
func (id *ID) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*id = NilID
		return nil
	case string:
		parsed, err := ParseID(v)
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	case []byte:
		if len(v) == 16 {
			u, err := uuid.FromBytes(v)
			if err != nil {
				return err
			}
			*id = ID{u: u}
			return nil
		}
		return id.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into models.ID", src)
	}
}
