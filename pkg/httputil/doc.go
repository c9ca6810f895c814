// Package httputil provides retry helpers for the backend client.
//
// # Retry
//
// [Retry] re-runs an operation that failed with a [RetryableError]:
//
//   - Network errors
//   - 5xx server errors
//
// Any other error ends the loop at once. The delay doubles after each
// failed attempt and the loop stops early when the context is cancelled.
//
// Geometry reads are retried once, so callers use two attempts:
//
//	err := httputil.Retry(ctx, httputil.ReadAttempts, httputil.ReadDelay, func() error {
//	    return fetch(ctx)
//	})
//
// Writes are never passed through Retry. A geometry write fully replaces
// the stored geometry, and the user re-invokes save after a failure.
package httputil
