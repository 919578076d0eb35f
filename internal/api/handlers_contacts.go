package api

import (
	"fmt"
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"github.com/contactkit/contactd/internal/contact"
	"github.com/contactkit/contactd/internal/query"
)

// BulkDeleteResult reports the outcome of a bulk delete request.
type BulkDeleteResult struct {
	DeletedCount int   `json:"deletedCount"`
	NotFoundIDs  []int `json:"notFoundIds"`
}

// GetContacts handles GET /contacts. With an id parameter it fetches a
// single contact; otherwise it runs a structured query built from the
// skip/take/filters/sort/search parameters (or legacy page/size).
func (h *Handler) GetContacts(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()

	if idParam := values.Get("id"); idParam != "" {
		id, err := strconv.Atoi(idParam)
		if err != nil {
			RespondValidationError(w, "id must be numeric")
			return
		}

		contacts, err := h.store.Load(r.Context())
		if err != nil {
			RespondDomainError(w, err, h.production)
			return
		}

		c, ok := contact.FindByID(contacts, id)
		if !ok {
			RespondNotFound(w, fmt.Sprintf("Contact with id %d not found", id))
			return
		}
		RespondData(w, http.StatusOK, c)
		return
	}

	contacts, err := h.store.Load(r.Context())
	if err != nil {
		RespondDomainError(w, err, h.production)
		return
	}

	RespondQuery(w, query.Run(contacts, queryRequestFromValues(values)))
}

// PostContacts handles POST /contacts. A body carrying any of the
// skip/take/filters/sort/search keys is a query request; any other body is
// a contact to create.
func (h *Handler) PostContacts(w http.ResponseWriter, r *http.Request) {
	raw, body, err := readBody(r)
	if err != nil {
		RespondValidationError(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if isQueryBody(raw) {
		contacts, err := h.store.Load(r.Context())
		if err != nil {
			RespondDomainError(w, err, h.production)
			return
		}
		RespondQuery(w, query.Run(contacts, queryRequestFromBody(raw)))
		return
	}

	var candidate contact.Contact
	if err := json.Unmarshal(body, &candidate); err != nil {
		RespondValidationError(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := contact.Validate(candidate, true); err != nil {
		RespondDomainError(w, err, h.production)
		return
	}

	contacts, err := h.store.Load(r.Context())
	if err != nil {
		RespondDomainError(w, err, h.production)
		return
	}

	if contact.EmailInUse(contacts, candidate.Email, 0) {
		RespondConflict(w, fmt.Sprintf("Email '%s' is already in use", candidate.Email))
		return
	}

	candidate.ID = contact.NextID(contacts)
	contacts = append(contacts, candidate)

	if err := h.store.Persist(r.Context(), contacts); err != nil {
		RespondDomainError(w, err, h.production)
		return
	}

	RespondData(w, http.StatusCreated, candidate)
}

// PutContact handles PUT /contacts: a full record replacement. The body
// must carry a numeric id; the id itself is immutable.
func (h *Handler) PutContact(w http.ResponseWriter, r *http.Request) {
	raw, body, err := readBody(r)
	if err != nil {
		RespondValidationError(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	idMsg, ok := raw["id"]
	if !ok {
		RespondValidationError(w, "id is required")
		return
	}
	var id int
	if err := json.Unmarshal(idMsg, &id); err != nil {
		RespondValidationError(w, "id must be numeric")
		return
	}

	var candidate contact.Contact
	if err := json.Unmarshal(body, &candidate); err != nil {
		RespondValidationError(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	candidate.ID = id

	if err := contact.Validate(candidate, false); err != nil {
		RespondDomainError(w, err, h.production)
		return
	}

	contacts, err := h.store.Load(r.Context())
	if err != nil {
		RespondDomainError(w, err, h.production)
		return
	}

	idx := contact.IndexByID(contacts, id)
	if idx < 0 {
		RespondNotFound(w, fmt.Sprintf("Contact with id %d not found", id))
		return
	}

	if contact.EmailInUse(contacts, candidate.Email, id) {
		RespondConflict(w, fmt.Sprintf("Email '%s' is already in use", candidate.Email))
		return
	}

	contacts[idx] = candidate

	if err := h.store.Persist(r.Context(), contacts); err != nil {
		RespondDomainError(w, err, h.production)
		return
	}

	RespondData(w, http.StatusOK, candidate)
}

// DeleteContacts handles DELETE /contacts: single deletion via the id query
// parameter, or bulk deletion via an ids body field. Bulk deletion ignores
// invalid ids, reports the missing ones and succeeds if at least one
// requested id existed.
func (h *Handler) DeleteContacts(w http.ResponseWriter, r *http.Request) {
	if idParam := r.URL.Query().Get("id"); idParam != "" {
		id, err := strconv.Atoi(idParam)
		if err != nil {
			RespondValidationError(w, "id must be numeric")
			return
		}
		h.deleteSingle(w, r, id)
		return
	}

	raw, _, err := readBody(r)
	if err != nil {
		RespondValidationError(w, "id query parameter or ids body field is required")
		return
	}

	idsMsg, ok := raw["ids"]
	if !ok {
		RespondValidationError(w, "id query parameter or ids body field is required")
		return
	}

	ids := parseBulkIDs(idsMsg)
	if len(ids) == 0 {
		RespondValidationError(w, "ids must contain at least one positive numeric id")
		return
	}

	contacts, err := h.store.Load(r.Context())
	if err != nil {
		RespondDomainError(w, err, h.production)
		return
	}

	result := BulkDeleteResult{NotFoundIDs: []int{}}
	for _, id := range ids {
		idx := contact.IndexByID(contacts, id)
		if idx < 0 {
			result.NotFoundIDs = append(result.NotFoundIDs, id)
			continue
		}
		// Remove in place; survivors keep their stored order.
		contacts = append(contacts[:idx], contacts[idx+1:]...)
		result.DeletedCount++
	}

	if result.DeletedCount == 0 {
		writeEnvelope(w, http.StatusNotFound, Envelope{
			Success: false,
			Message: "No matching contacts found",
			Data:    result,
		})
		return
	}

	if err := h.store.Persist(r.Context(), contacts); err != nil {
		RespondDomainError(w, err, h.production)
		return
	}

	RespondMessage(w, http.StatusOK, fmt.Sprintf("Deleted %d contact(s)", result.DeletedCount), result)
}

// deleteSingle removes one contact by id.
func (h *Handler) deleteSingle(w http.ResponseWriter, r *http.Request, id int) {
	contacts, err := h.store.Load(r.Context())
	if err != nil {
		RespondDomainError(w, err, h.production)
		return
	}

	idx := contact.IndexByID(contacts, id)
	if idx < 0 {
		RespondNotFound(w, fmt.Sprintf("Contact with id %d not found", id))
		return
	}

	contacts = append(contacts[:idx], contacts[idx+1:]...)

	if err := h.store.Persist(r.Context(), contacts); err != nil {
		RespondDomainError(w, err, h.production)
		return
	}

	RespondMessage(w, http.StatusOK, fmt.Sprintf("Contact with id %d deleted", id), nil)
}

// parseBulkIDs extracts positive numeric ids from a raw JSON array,
// silently dropping anything invalid or non-positive.
func parseBulkIDs(msg jsoniter.RawMessage) []int {
	var rawIDs []jsoniter.RawMessage
	if err := json.Unmarshal(msg, &rawIDs); err != nil {
		return nil
	}

	ids := make([]int, 0, len(rawIDs))
	for _, rawID := range rawIDs {
		var id int
		if err := json.Unmarshal(rawID, &id); err != nil {
			continue
		}
		if id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
