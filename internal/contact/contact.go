// Package contact defines the contact record, its JSON round-trip behavior
// and collection-level helpers (id assignment, lookup, email uniqueness).
package contact

import (
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Contact is the managed record. Known fields are typed; any unrecognized
// JSON keys are kept in Extra and written back on marshal, so records
// round-trip through the store without losing client-supplied fields.
type Contact struct {
	ID       int    `json:"id" validate:"-"`
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email,omitempty" validate:"contact_email"`
	Company  string `json:"company,omitempty"`
	Phone1   string `json:"phone1,omitempty"`
	Phone2   string `json:"phone2,omitempty"`
	Position string `json:"position,omitempty"`
	Status   string `json:"status,omitempty"`
	Stage    string `json:"stage,omitempty"`

	// Extra holds pass-through fields that are not part of the known set.
	Extra map[string]string `json:"-"`
}

// knownFields are the JSON keys mapped onto typed struct fields.
var knownFields = map[string]bool{
	"id":       true,
	"name":     true,
	"email":    true,
	"company":  true,
	"phone1":   true,
	"phone2":   true,
	"position": true,
	"status":   true,
	"stage":    true,
}

// Field returns the stringified value of the named field and whether the
// contact carries it. Empty optional fields count as absent, matching the
// null/undefined semantics of the store format. The id field is always
// present.
func (c Contact) Field(name string) (string, bool) {
	var v string
	switch name {
	case "id":
		return strconv.Itoa(c.ID), true
	case "name":
		v = c.Name
	case "email":
		v = c.Email
	case "company":
		v = c.Company
	case "phone1":
		v = c.Phone1
	case "phone2":
		v = c.Phone2
	case "position":
		v = c.Position
	case "status":
		v = c.Status
	case "stage":
		v = c.Stage
	default:
		v = c.Extra[name]
	}
	if v == "" {
		return "", false
	}
	return v, true
}

// MarshalJSON emits known fields plus all extras as a flat JSON object.
// Empty optional fields are omitted.
func (c Contact) MarshalJSON() ([]byte, error) {
	obj := make(map[string]interface{}, 9+len(c.Extra))
	obj["id"] = c.ID
	obj["name"] = c.Name
	setIfPresent := func(key, value string) {
		if value != "" {
			obj[key] = value
		}
	}
	setIfPresent("email", c.Email)
	setIfPresent("company", c.Company)
	setIfPresent("phone1", c.Phone1)
	setIfPresent("phone2", c.Phone2)
	setIfPresent("position", c.Position)
	setIfPresent("status", c.Status)
	setIfPresent("stage", c.Stage)
	for k, v := range c.Extra {
		if !knownFields[k] {
			obj[k] = v
		}
	}
	return json.Marshal(obj)
}

// UnmarshalJSON decodes known fields into their typed slots and keeps every
// other key in Extra. Non-string extra values are stored as their literal
// JSON text.
func (c *Contact) UnmarshalJSON(data []byte) error {
	var raw map[string]jsoniter.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	decodeString := func(key string, dst *string) error {
		msg, ok := raw[key]
		if !ok {
			return nil
		}
		// Tolerate non-string values the same way extras are handled.
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			*dst = rawToString(msg)
			return nil
		}
		*dst = s
		return nil
	}

	if msg, ok := raw["id"]; ok {
		var id int
		if err := json.Unmarshal(msg, &id); err == nil {
			c.ID = id
		}
	}
	_ = decodeString("name", &c.Name)
	_ = decodeString("email", &c.Email)
	_ = decodeString("company", &c.Company)
	_ = decodeString("phone1", &c.Phone1)
	_ = decodeString("phone2", &c.Phone2)
	_ = decodeString("position", &c.Position)
	_ = decodeString("status", &c.Status)
	_ = decodeString("stage", &c.Stage)

	for k, msg := range raw {
		if knownFields[k] {
			continue
		}
		if string(msg) == "null" {
			continue
		}
		if c.Extra == nil {
			c.Extra = make(map[string]string)
		}
		c.Extra[k] = rawToString(msg)
	}

	return nil
}

// rawToString converts a raw JSON value to its pass-through string form:
// string values are unquoted, everything else keeps its literal text.
func rawToString(msg jsoniter.RawMessage) string {
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return s
	}
	return string(msg)
}

// NextID returns the id for a newly created contact: one more than the
// current maximum id in the collection, or 1 if the collection is empty.
// The maximum is derived from the current collection only, so ids freed by
// deleting the largest record can be handed out again.
func NextID(contacts []Contact) int {
	max := 0
	for _, c := range contacts {
		if c.ID > max {
			max = c.ID
		}
	}
	return max + 1
}

// FindByID returns the contact with the given id, or false if absent.
func FindByID(contacts []Contact, id int) (Contact, bool) {
	for _, c := range contacts {
		if c.ID == id {
			return c, true
		}
	}
	return Contact{}, false
}

// IndexByID returns the slice index of the contact with the given id, or -1.
func IndexByID(contacts []Contact, id int) int {
	for i, c := range contacts {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// EmailInUse reports whether a non-empty email is already carried by a
// contact other than excludeID. Comparison is a case-sensitive exact match
// on the stored string; contacts without an email never conflict.
func EmailInUse(contacts []Contact, email string, excludeID int) bool {
	if email == "" {
		return false
	}
	for _, c := range contacts {
		if c.ID == excludeID {
			continue
		}
		if c.Email != "" && c.Email == email {
			return true
		}
	}
	return false
}
