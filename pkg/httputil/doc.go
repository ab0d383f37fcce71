// Package httputil downloads remote map data with caching and retries.
//
// [Client] is used for tile datasets such as the Natural Earth land polygons.
// Responses are stored in a [cache.Cache] so repeated renders work offline:
//
//	c := httputil.NewClient(fileCache, httputil.WithTTL(7*24*time.Hour))
//	data, err := c.Fetch(ctx, url, false)
//
// Transient failures (network errors, 5xx and 429 responses) are retried
// with exponential backoff via [Retry]. A 404 is reported as NOT_FOUND and is
// not retried. Every request is reported to the observability HTTP hooks.
package httputil
