// Package serve exposes registered resources over HTTP.
//
// NewHandler returns a chi router answering GET and HEAD on
//
//	/{id}          file, content and object resources
//	/{id}/{path}   files inside a directory resource
//
// Resource errors map to status codes: unknown identifiers, missing files
// and paths escaping a directory root are 404, unsatisfiable or malformed
// ranges are 416 with Content-Range: bytes */<total>, and anything else is
// 500. Error bodies are the bare status text. A failure after the status
// line was written aborts the connection so the client sees a truncated
// body instead of a silently short one.
//
// The router carries RequestID and AccessLog middleware. WithRateLimit caps
// the bandwidth of each response body.
package serve
