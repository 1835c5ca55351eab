package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// EntryID is an opaque directory identifier. The backing service mixes
// numeric and string IDs, so both decode into the same type.
type EntryID string

// UnmarshalJSON accepts JSON strings, integers and null.
func (id *EntryID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = EntryID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("entry id must be string or number: %w", err)
	}
	*id = EntryID(n.String())
	return nil
}

// MarshalJSON emits numeric IDs as numbers and everything else as strings.
func (id EntryID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return json.Marshal(n)
	}
	return json.Marshal(string(id))
}

// String returns the raw identifier.
func (id EntryID) String() string { return string(id) }

// DirectoryEntry is one row of a directory list operation: an opaque ID
// plus sanitized display text. Entries are never persisted by the core.
type DirectoryEntry struct {
	ID    EntryID
	Title string
}

// Registration is the payload of the non-tolerant directory write that
// enrolls an identity.
type Registration struct {
	Identity           string
	Country            string
	FullName           string
	FirstName          string
	Surname            string
	RegistrationNumber string
	Facility           EntryID
	Specialties        []EntryID
}

// MemberStatus is the result of a member-number lookup.
type MemberStatus struct {
	// InGroup reports whether the number belongs to the closed user group.
	InGroup bool
}
