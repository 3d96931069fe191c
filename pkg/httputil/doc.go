// Package httputil provides JSON response helpers for the netlayout HTTP
// service.
//
// # Errors
//
// [WriteError] maps [errors.Code] values to HTTP statuses so handlers can
// return library errors unchanged:
//
//   - INVALID_*, UNSUPPORTED: 400 Bad Request
//   - NOT_FOUND: 404 Not Found
//   - LAYOUT_PENDING, CONFLICT: 409 Conflict
//   - anything else: 500 Internal Server Error
//
// The body is always {"error": CODE, "message": text}.
//
// # Requests
//
// [DecodeJSON] reads a size-limited JSON body and rejects unknown fields.
// An empty body leaves the target unchanged.
//
// [errors.Code]: github.com/matzehuels/netlayout/pkg/errors.Code
package httputil
