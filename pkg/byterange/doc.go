// Package byterange parses single-range HTTP Range headers into concrete,
// inclusive byte windows and formats the matching Content-Range values.
//
// Only the "bytes" unit and a single range are supported. The three forms
// accepted are:
//
//	bytes=500-999   // explicit window
//	bytes=500-      // from offset to the end of the content
//	bytes=-500      // the last 500 bytes
//
// # Usage
//
//	r, err := byterange.Parse(req.Header.Get("Range"), size)
//	switch {
//	case errors.Is(err, byterange.ErrUnsatisfiableRange),
//		errors.Is(err, byterange.ErrMalformedRange):
//		w.Header().Set("Content-Range", byterange.Unsatisfied(size))
//		w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
//	case err == nil:
//		w.Header().Set("Content-Range", r.ContentRange(size))
//		w.WriteHeader(http.StatusPartialContent)
//	}
//
// Absence of a Range header is not handled here: callers answer 200 with
// Full(size) and keep 206 for requests that carried a header, even when the
// header covers the whole content.
package byterange
