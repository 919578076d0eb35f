// Package query implements the contact query engine: legacy free-text
// search, AND-composed structured filters, multi-key stable sorting and
// skip/take pagination over an in-memory collection.
//
// The engine is pure: it never touches storage and never mutates its input
// collection, which keeps it unit-testable in isolation. The processing
// order is fixed: search pre-filter, structured filters, sort, slice.
package query

import (
	"strings"

	"github.com/contactkit/contactd/internal/contact"
)

// UnboundedTake marks a request for all remaining records after Skip.
const UnboundedTake = 0

// Request describes one query against the collection. All fields are
// optional; zero values select everything in stored order.
type Request struct {
	// Search is the legacy free-text term, OR-matched across the
	// id/name/email/company/phone1/phone2 fields before Filters apply.
	Search string `json:"search,omitempty"`

	// Filters are AND-composed structured predicates.
	Filters []Filter `json:"filters"`

	// Sort lists sort keys in precedence order (first key dominates).
	Sort []SortKey `json:"sort"`

	// Skip is the offset into the filtered, sorted sequence. Negative
	// values are treated as 0.
	Skip int `json:"skip"`

	// Take is the page size; UnboundedTake returns all remaining records.
	Take int `json:"take"`
}

// Page carries pagination metadata for a query result.
type Page struct {
	Skip     int  `json:"skip"`
	Take     int  `json:"take"`
	Total    int  `json:"total"`
	TotalAll int  `json:"totalAll"`
	HasNext  bool `json:"hasNext"`
	HasPrev  bool `json:"hasPrev"`
}

// Result is the outcome of a query: the page of matching contacts plus
// metadata, with the request's filters and sort echoed back.
type Result struct {
	Data       []contact.Contact `json:"data"`
	Pagination Page              `json:"pagination"`
	Filters    []Filter          `json:"filters"`
	Sort       []SortKey         `json:"sort"`
}

// Run executes the request against the collection.
//
// Total counts matches after filtering but before slicing; TotalAll is the
// size of the collection entering the structured stage, i.e. after the
// legacy search pre-filter has narrowed it.
func Run(collection []contact.Contact, req Request) Result {
	working := collection
	if term := strings.TrimSpace(req.Search); term != "" {
		working = searchFilter(collection, term)
	}

	totalAll := len(working)

	matched := working
	if len(req.Filters) > 0 {
		matched = make([]contact.Contact, 0, len(working))
		for _, c := range working {
			if matchesAll(c, req.Filters) {
				matched = append(matched, c)
			}
		}
	}

	total := len(matched)

	// Sort on a copy so the caller's collection order is untouched.
	ordered := make([]contact.Contact, len(matched))
	copy(ordered, matched)
	if len(req.Sort) > 0 {
		applySort(ordered, req.Sort)
	}

	skip := req.Skip
	if skip < 0 {
		skip = 0
	}
	take := req.Take
	if take < 0 {
		take = UnboundedTake
	}

	data := slicePage(ordered, skip, take)

	hasNext := take != UnboundedTake && skip+take < total

	return Result{
		Data: data,
		Pagination: Page{
			Skip:     skip,
			Take:     take,
			Total:    total,
			TotalAll: totalAll,
			HasNext:  hasNext,
			HasPrev:  skip > 0,
		},
		Filters: echoFilters(req.Filters),
		Sort:    echoSort(req.Sort),
	}
}

// matchesAll reports whether the contact satisfies every filter.
func matchesAll(c contact.Contact, filters []Filter) bool {
	for _, f := range filters {
		if !f.Matches(c) {
			return false
		}
	}
	return true
}

// searchFilter applies the legacy OR search across the search fields.
func searchFilter(collection []contact.Contact, term string) []contact.Contact {
	out := make([]contact.Contact, 0, len(collection))
	for _, c := range collection {
		if matchesSearch(c, term) {
			out = append(out, c)
		}
	}
	return out
}

// slicePage cuts the skip/take window out of the ordered sequence.
func slicePage(ordered []contact.Contact, skip, take int) []contact.Contact {
	if skip >= len(ordered) {
		return []contact.Contact{}
	}
	rest := ordered[skip:]
	if take == UnboundedTake || take >= len(rest) {
		out := make([]contact.Contact, len(rest))
		copy(out, rest)
		return out
	}
	out := make([]contact.Contact, take)
	copy(out, rest[:take])
	return out
}

// echoFilters returns a non-nil copy of the filters for response echoing.
func echoFilters(filters []Filter) []Filter {
	if len(filters) == 0 {
		return []Filter{}
	}
	out := make([]Filter, len(filters))
	copy(out, filters)
	return out
}

// echoSort returns a non-nil copy of the sort keys for response echoing.
func echoSort(keys []SortKey) []SortKey {
	if len(keys) == 0 {
		return []SortKey{}
	}
	out := make([]SortKey, len(keys))
	copy(out, keys)
	return out
}
