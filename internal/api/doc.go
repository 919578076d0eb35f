// Package api provides the REST API server for the contact store.
//
// The server exposes the contact collection over four verbs on a single
// /contacts resource:
//   - GET: fetch one contact by id, or run a filtered/sorted/paginated query
//   - POST: create a contact, or run a query given via the request body
//   - PUT: replace a contact (id immutable)
//   - DELETE: remove one contact by id, or several via an ids body field
//
// # Response Format
//
// Every endpoint answers with the standard envelope:
//
//	{
//	  "success": true,
//	  "message": "optional human-readable text",
//	  "data": ...,
//	  "pagination": { "skip": 0, "take": 10, "total": 3, "totalAll": 3, "hasNext": false, "hasPrev": false },
//	  "filters": [ ... ],
//	  "sort": [ ... ],
//	  "error": "internal detail, omitted in production"
//	}
//
// Query endpoints echo the parsed filters and sort keys back so clients can
// confirm what was applied. Malformed filters/sort parameters are dropped
// with a logged warning instead of failing the request; malformed required
// inputs (a non-numeric id, a missing id on update) are 400s.
//
// # Status codes
//
// 200 read/update/delete, 201 create, 400 validation or malformed input,
// 404 unknown contact or endpoint, 409 duplicate email, 500 storage or
// internal failure.
package api
