package api

import (
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/contactkit/contactd/internal/config"
	"github.com/contactkit/contactd/internal/store"
)

// Handler manages all API endpoints and their dependencies. Handlers never
// hold the collection between requests: every request loads it from the
// store and mutating requests persist the full replacement.
type Handler struct {
	store      store.Store
	production bool
}

// NewHandler creates a new API handler over the given store.
func NewHandler(st store.Store, cfg *config.Config) *Handler {
	return &Handler{
		store:      st,
		production: cfg.IsProduction(),
	}
}

// readBody reads and decodes the request body as a generic JSON object.
func readBody(r *http.Request) (map[string]jsoniter.RawMessage, []byte, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, nil, err
	}
	var raw map[string]jsoniter.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, nil, err
	}
	return raw, body, nil
}
