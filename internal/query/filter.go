package query

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/contactkit/contactd/internal/contact"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Operator is a filter comparison operator.
type Operator int

const (
	// OpContains matches when the field value contains the filter value.
	// It is the default operator.
	OpContains Operator = iota

	// OpEquals matches on full equality.
	OpEquals

	// OpStartsWith matches on prefix.
	OpStartsWith

	// OpEndsWith matches on suffix.
	OpEndsWith
)

// ParseOperator maps a wire string to an Operator. Unknown or empty strings
// fall back to OpContains, keeping bad optional query input non-fatal.
func ParseOperator(s string) Operator {
	switch s {
	case "equals":
		return OpEquals
	case "startsWith":
		return OpStartsWith
	case "endsWith":
		return OpEndsWith
	default:
		return OpContains
	}
}

// String returns the wire name of the operator.
func (o Operator) String() string {
	switch o {
	case OpEquals:
		return "equals"
	case OpStartsWith:
		return "startsWith"
	case OpEndsWith:
		return "endsWith"
	case OpContains:
		return "contains"
	}
	return "contains"
}

// MarshalJSON emits the wire name.
func (o Operator) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON parses the wire name, defaulting to contains.
func (o *Operator) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*o = OpContains
		return nil
	}
	*o = ParseOperator(s)
	return nil
}

// Filter is a single field/value/operator predicate. A request carries zero
// or more filters, combined with AND.
type Filter struct {
	Field    string   `json:"field"`
	Value    string   `json:"value"`
	Operator Operator `json:"operator"`
}

// UnmarshalJSON tolerates non-string filter values by stringifying them.
func (f *Filter) UnmarshalJSON(data []byte) error {
	var raw struct {
		Field    string              `json:"field"`
		Value    jsoniter.RawMessage `json:"value"`
		Operator Operator            `json:"operator"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f.Field = raw.Field
	f.Value = scalarToString(raw.Value)
	f.Operator = raw.Operator
	return nil
}

// scalarToString renders a raw JSON scalar as its comparison string.
func scalarToString(msg jsoniter.RawMessage) string {
	if len(msg) == 0 || string(msg) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return s
	}
	var v interface{}
	if err := json.Unmarshal(msg, &v); err == nil {
		return fmt.Sprintf("%v", v)
	}
	return string(msg)
}

// Matches reports whether the contact satisfies the filter. The field value
// is stringified and compared case-insensitively; a contact missing the
// field never matches.
func (f Filter) Matches(c contact.Contact) bool {
	value, ok := c.Field(f.Field)
	if !ok {
		return false
	}

	fieldValue := strings.ToLower(value)
	filterValue := strings.ToLower(f.Value)

	switch f.Operator {
	case OpEquals:
		return fieldValue == filterValue
	case OpContains:
		return strings.Contains(fieldValue, filterValue)
	case OpStartsWith:
		return strings.HasPrefix(fieldValue, filterValue)
	case OpEndsWith:
		return strings.HasSuffix(fieldValue, filterValue)
	}
	return false
}

// searchFields are the fields scanned by the legacy free-text search.
var searchFields = []string{"id", "name", "email", "company", "phone1", "phone2"}

// matchesSearch reports whether the legacy search term matches any of the
// search fields with a case-insensitive substring comparison.
func matchesSearch(c contact.Contact, term string) bool {
	needle := strings.ToLower(term)
	for _, field := range searchFields {
		value, ok := c.Field(field)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(value), needle) {
			return true
		}
	}
	return false
}
