package api

import (
	"net/url"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/contactkit/contactd/internal/log"
	"github.com/contactkit/contactd/internal/query"
)

const (
	// defaultTake is used when a take value is present but unusable.
	defaultTake = 10

	// maxTake is the safety cap: anything above it means "return all".
	maxTake = 1000
)

// parseSkip clamps a skip parameter to a non-negative offset. Non-numeric
// input clamps to 0.
func parseSkip(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// parseTake interprets a take parameter: absent/empty means unbounded,
// non-numeric or non-positive clamps to the default page size, values above
// the safety cap mean unbounded.
func parseTake(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return query.UnboundedTake
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return defaultTake
	}
	if v > maxTake {
		return query.UnboundedTake
	}
	return v
}

// parseFilters decodes a JSON-encoded filter array. Malformed input
// degrades to an empty filter list with a logged warning so bad optional
// params never block a listing.
func parseFilters(raw string) []query.Filter {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var filters []query.Filter
	if err := json.Unmarshal([]byte(raw), &filters); err != nil {
		log.Warnf("Ignoring malformed filters parameter: %v", err)
		return nil
	}
	return filters
}

// parseSort decodes a JSON-encoded sort key array with the same
// degrade-on-malformed policy as parseFilters.
func parseSort(raw string) []query.SortKey {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var keys []query.SortKey
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		log.Warnf("Ignoring malformed sort parameter: %v", err)
		return nil
	}
	return keys
}

// queryRequestFromValues builds a query request from URL query parameters.
// The legacy page/size addressing is translated to skip/take at this
// boundary when no skip/take parameters are given.
func queryRequestFromValues(values url.Values) query.Request {
	skipParam := values.Get("skip")
	takeParam := values.Get("take")

	skip := parseSkip(skipParam)
	take := parseTake(takeParam)

	if skipParam == "" && takeParam == "" && values.Get("page") != "" {
		page, err := strconv.Atoi(values.Get("page"))
		if err != nil || page < 1 {
			page = 1
		}
		size := parseTake(values.Get("size"))
		if size == query.UnboundedTake {
			size = defaultTake
		}
		skip = (page - 1) * size
		take = size
	}

	return query.Request{
		Search:  values.Get("search"),
		Filters: parseFilters(values.Get("filters")),
		Sort:    parseSort(values.Get("sort")),
		Skip:    skip,
		Take:    take,
	}
}

// queryBodyKeys are the body fields that mark a POST body as a query
// request rather than a contact to create.
var queryBodyKeys = []string{"skip", "take", "filters", "sort", "search"}

// isQueryBody reports whether a decoded POST body is a query request.
func isQueryBody(raw map[string]jsoniter.RawMessage) bool {
	for _, key := range queryBodyKeys {
		if _, ok := raw[key]; ok {
			return true
		}
	}
	return false
}

// queryRequestFromBody builds a query request from a JSON body. Fields have
// the same semantics as their query-string counterparts; filters and sort
// may be given either as JSON arrays or as JSON-encoded array strings.
func queryRequestFromBody(raw map[string]jsoniter.RawMessage) query.Request {
	return query.Request{
		Search:  rawString(raw["search"]),
		Filters: parseFilters(rawText(raw["filters"])),
		Sort:    parseSort(rawText(raw["sort"])),
		Skip:    parseSkip(rawText(raw["skip"])),
		Take:    parseTake(rawText(raw["take"])),
	}
}

// rawString decodes a raw JSON string value, returning "" for anything else.
func rawString(msg jsoniter.RawMessage) string {
	if len(msg) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(msg, &s); err != nil {
		return ""
	}
	return s
}

// rawText returns the text form of a raw JSON value; string values are
// unquoted first, so a JSON-encoded array string parses the same as an
// inline array and numeric scalars share the query-string clamping rules.
func rawText(msg jsoniter.RawMessage) string {
	if len(msg) == 0 || string(msg) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return s
	}
	return string(msg)
}
