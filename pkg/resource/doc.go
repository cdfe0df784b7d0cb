// Package resource implements the servable entities behind a provider URL and
// the range-request protocol they share.
//
// A Resource is one of a closed set of variants:
//
//   - File serves a single regular file.
//   - Directory serves files below a root, resolving a request sub-path and
//     refusing anything that escapes the root.
//   - Content serves an immutable in-memory payload.
//   - Object serves an S3 (or S3-compatible) object through ranged GetObject calls.
//
// Every variant answers Respond with a Response whose body is a lazy, bounded
// stream of chunks covering exactly the requested byte window. Without a
// Range header the response is 200 with the full content; with one it is 206
// with Content-Range, or a *RangeError that maps to 416.
//
// # Usage
//
//	res, err := resource.NewFile("/data/hello.txt")
//	if err != nil {
//		return err
//	}
//
//	resp, err := res.Respond(ctx, "", r.Header.Get("Range"))
//	if err != nil {
//		// errors.Is(err, resource.ErrNotFound) -> 404
//		// errors.As(err, new(*resource.RangeError)) -> 416
//		return err
//	}
//	defer resp.Close()
//	_, err = resp.Send(w, r.Method != http.MethodHead)
//
// # Error Handling
//
// Errors are sentinel values checked with errors.Is. Directory traversal
// attempts are reported as ErrNotFound so responses never reveal whether a
// path outside the root exists.
package resource
