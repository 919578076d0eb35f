package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactkit/contactd/internal/config"
	"github.com/contactkit/contactd/internal/contact"
	"github.com/contactkit/contactd/internal/store"
)

type envelope struct {
	Success    bool                     `json:"success"`
	Message    string                   `json:"message"`
	Data       interface{}              `json:"data"`
	Pagination map[string]interface{}   `json:"pagination"`
	Filters    []map[string]interface{} `json:"filters"`
	Sort       []map[string]interface{} `json:"sort"`
	Error      string                   `json:"error"`
}

func newTestServer(t *testing.T, seed []contact.Contact) (*Server, *store.FileStore) {
	t.Helper()

	st := store.NewFileStore(filepath.Join(t.TempDir(), "contacts.json"))
	if seed != nil {
		require.NoError(t, st.Persist(context.Background(), seed))
	}

	cfg := config.Default()
	return NewServer(cfg, st), st
}

func doRequest(t *testing.T, srv *Server, method, target string, body []byte) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func seedContacts() []contact.Contact {
	return []contact.Contact{
		{ID: 1, Name: "Ann", Email: "a@x.com", Company: "Acme", Phone1: "111"},
		{ID: 2, Name: "Bob", Company: "Zenith"},
	}
}

func dataIDs(t *testing.T, env envelope) []int {
	t.Helper()
	items, ok := env.Data.([]interface{})
	require.True(t, ok, "data should be an array, got %T", env.Data)
	out := make([]int, 0, len(items))
	for _, item := range items {
		obj := item.(map[string]interface{})
		out = append(out, int(obj["id"].(float64)))
	}
	return out
}

func TestGetContacts_List(t *testing.T) {
	srv, _ := newTestServer(t, seedContacts())

	rec, env := doRequest(t, srv, http.MethodGet, "/contacts", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, []int{1, 2}, dataIDs(t, env))
	assert.Equal(t, float64(2), env.Pagination["total"])
	assert.Equal(t, float64(2), env.Pagination["totalAll"])
	assert.NotNil(t, env.Filters)
	assert.NotNil(t, env.Sort)
}

func TestGetContacts_ByID(t *testing.T) {
	srv, _ := newTestServer(t, seedContacts())

	rec, env := doRequest(t, srv, http.MethodGet, "/contacts?id=1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	obj := env.Data.(map[string]interface{})
	assert.Equal(t, "Ann", obj["name"])

	rec, env = doRequest(t, srv, http.MethodGet, "/contacts?id=99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)

	rec, env = doRequest(t, srv, http.MethodGet, "/contacts?id=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
}

func TestGetContacts_FilteredQuery(t *testing.T) {
	srv, _ := newTestServer(t, seedContacts())

	filters := url.QueryEscape(`[{"field":"name","value":"an","operator":"contains"}]`)
	rec, env := doRequest(t, srv, http.MethodGet, "/contacts?filters="+filters, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{1}, dataIDs(t, env))
	assert.Equal(t, float64(1), env.Pagination["total"])
	assert.Equal(t, float64(2), env.Pagination["totalAll"])
	require.Len(t, env.Filters, 1)
	assert.Equal(t, "contains", env.Filters[0]["operator"])
}

func TestGetContacts_MalformedFiltersDegrade(t *testing.T) {
	srv, _ := newTestServer(t, seedContacts())

	rec, env := doRequest(t, srv, http.MethodGet, "/contacts?filters=%7Bnot-json&sort=%5Bbad", nil)

	assert.Equal(t, http.StatusOK, rec.Code, "bad optional params must not block listing")
	assert.Equal(t, []int{1, 2}, dataIDs(t, env))
}

func TestGetContacts_SkipTake(t *testing.T) {
	srv, _ := newTestServer(t, seedContacts())

	rec, env := doRequest(t, srv, http.MethodGet, "/contacts?skip=1&take=1", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{2}, dataIDs(t, env))
	assert.Equal(t, true, env.Pagination["hasPrev"])
	assert.Equal(t, false, env.Pagination["hasNext"])
}

func TestGetContacts_PageSizeTranslation(t *testing.T) {
	srv, _ := newTestServer(t, seedContacts())

	rec, env := doRequest(t, srv, http.MethodGet, "/contacts?page=2&size=1", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{2}, dataIDs(t, env))
	assert.Equal(t, float64(1), env.Pagination["skip"])
	assert.Equal(t, float64(1), env.Pagination["take"])
}

func TestGetContacts_LegacySearch(t *testing.T) {
	srv, _ := newTestServer(t, seedContacts())

	rec, env := doRequest(t, srv, http.MethodGet, "/contacts?search=acme", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{1}, dataIDs(t, env))
	assert.Equal(t, float64(1), env.Pagination["totalAll"])
}

func TestPostContacts_Create(t *testing.T) {
	srv, st := newTestServer(t, seedContacts())

	body := []byte(`{"name":"Carla","email":"c@y.org","linkedin":"url"}`)
	rec, env := doRequest(t, srv, http.MethodPost, "/contacts", body)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.True(t, env.Success)
	obj := env.Data.(map[string]interface{})
	assert.Equal(t, float64(3), obj["id"], "id is one more than the current max")
	assert.Equal(t, "url", obj["linkedin"], "extra fields pass through")

	contacts, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, contacts, 3)
	assert.Equal(t, "Carla", contacts[2].Name, "creation appends at the end")
}

func TestPostContacts_CreateIntoEmptyStore(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec, env := doRequest(t, srv, http.MethodPost, "/contacts", []byte(`{"name":"First"}`))

	assert.Equal(t, http.StatusCreated, rec.Code)
	obj := env.Data.(map[string]interface{})
	assert.Equal(t, float64(1), obj["id"])
}

func TestPostContacts_ValidationErrors(t *testing.T) {
	srv, _ := newTestServer(t, seedContacts())

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"missing name", `{"email":"x@y.com"}`, http.StatusBadRequest},
		{"bad email shape", `{"name":"X","email":"nope"}`, http.StatusBadRequest},
		{"duplicate email", `{"name":"X","email":"a@x.com"}`, http.StatusConflict},
		{"malformed body", `{nope`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := doRequest(t, srv, http.MethodPost, "/contacts", []byte(tt.body))
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.False(t, env.Success)
		})
	}
}

func TestPostContacts_DuplicateEmailCaseSensitive(t *testing.T) {
	srv, _ := newTestServer(t, seedContacts())

	// Differently-cased email is a different stored string, so no conflict.
	rec, _ := doRequest(t, srv, http.MethodPost, "/contacts", []byte(`{"name":"X","email":"A@X.com"}`))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestPostContacts_TwoEmptyEmailsAllowed(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec, _ := doRequest(t, srv, http.MethodPost, "/contacts", []byte(`{"name":"One"}`))
	assert.Equal(t, http.StatusCreated, rec.Code)
	rec, _ = doRequest(t, srv, http.MethodPost, "/contacts", []byte(`{"name":"Two"}`))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestPostContacts_QueryBody(t *testing.T) {
	srv, _ := newTestServer(t, seedContacts())

	body := []byte(`{"filters":[{"field":"name","value":"bob","operator":"equals"}],"skip":0,"take":10}`)
	rec, env := doRequest(t, srv, http.MethodPost, "/contacts", body)

	assert.Equal(t, http.StatusOK, rec.Code, "query body answers 200, not 201")
	assert.Equal(t, []int{2}, dataIDs(t, env))
	assert.Equal(t, float64(10), env.Pagination["take"])
}

func TestPostContacts_QueryBodyWithEncodedFilterString(t *testing.T) {
	srv, _ := newTestServer(t, seedContacts())

	body := []byte(`{"filters":"[{\"field\":\"company\",\"value\":\"acme\",\"operator\":\"equals\"}]"}`)
	rec, env := doRequest(t, srv, http.MethodPost, "/contacts", body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{1}, dataIDs(t, env))
}

func TestPutContact(t *testing.T) {
	srv, st := newTestServer(t, seedContacts())

	body := []byte(`{"id":2,"name":"Robert","email":"b@z.com"}`)
	rec, env := doRequest(t, srv, http.MethodPut, "/contacts", body)

	assert.Equal(t, http.StatusOK, rec.Code)
	obj := env.Data.(map[string]interface{})
	assert.Equal(t, "Robert", obj["name"])
	assert.Equal(t, float64(2), obj["id"])

	contacts, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Robert", contacts[1].Name)
}

func TestPutContact_Errors(t *testing.T) {
	srv, _ := newTestServer(t, seedContacts())

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"missing id", `{"name":"X"}`, http.StatusBadRequest},
		{"non-numeric id", `{"id":"two","name":"X"}`, http.StatusBadRequest},
		{"unknown id", `{"id":99,"name":"X"}`, http.StatusNotFound},
		{"missing name", `{"id":2}`, http.StatusBadRequest},
		{"email of another contact", `{"id":2,"name":"Bob","email":"a@x.com"}`, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := doRequest(t, srv, http.MethodPut, "/contacts", []byte(tt.body))
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.False(t, env.Success)
		})
	}
}

func TestPutContact_KeepOwnEmail(t *testing.T) {
	srv, _ := newTestServer(t, seedContacts())

	rec, _ := doRequest(t, srv, http.MethodPut, "/contacts", []byte(`{"id":1,"name":"Ann","email":"a@x.com"}`))
	assert.Equal(t, http.StatusOK, rec.Code, "a contact may keep its own email on update")
}

func TestDeleteContacts_Single(t *testing.T) {
	srv, st := newTestServer(t, seedContacts())

	rec, env := doRequest(t, srv, http.MethodDelete, "/contacts?id=1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	contacts, err := st.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, 2, contacts[0].ID)

	rec, _ = doRequest(t, srv, http.MethodDelete, "/contacts?id=1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = doRequest(t, srv, http.MethodDelete, "/contacts?id=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteContacts_Bulk(t *testing.T) {
	srv, st := newTestServer(t, seedContacts())

	rec, env := doRequest(t, srv, http.MethodDelete, "/contacts", []byte(`{"ids":[1,999]}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)
	obj := env.Data.(map[string]interface{})
	assert.Equal(t, float64(1), obj["deletedCount"])
	assert.Equal(t, []interface{}{float64(999)}, obj["notFoundIds"])

	contacts, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, contacts, 1)
}

func TestDeleteContacts_BulkIgnoresInvalidIDs(t *testing.T) {
	srv, _ := newTestServer(t, seedContacts())

	rec, env := doRequest(t, srv, http.MethodDelete, "/contacts", []byte(`{"ids":[0,-3,"x",2]}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	obj := env.Data.(map[string]interface{})
	assert.Equal(t, float64(1), obj["deletedCount"])
}

func TestDeleteContacts_BulkNoneFound(t *testing.T) {
	srv, _ := newTestServer(t, seedContacts())

	rec, env := doRequest(t, srv, http.MethodDelete, "/contacts", []byte(`{"ids":[98,99]}`))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
}

func TestDeleteContacts_NoIDs(t *testing.T) {
	srv, _ := newTestServer(t, seedContacts())

	rec, _ := doRequest(t, srv, http.MethodDelete, "/contacts", []byte(`{"ids":[]}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doRequest(t, srv, http.MethodDelete, "/contacts", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnmatchedRoute(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec, env := doRequest(t, srv, http.MethodGet, "/nope", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Endpoint not found", env.Message)
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec, _ := doRequest(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
