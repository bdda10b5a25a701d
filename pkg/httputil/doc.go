// Package httputil provides retry helpers for outbound HTTP calls.
//
// Only transient failures are retried. Callers mark them by wrapping the
// error with [Retryable] (or returning a [RetryableError]); every other
// error ends the loop immediately:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    defer resp.Body.Close()
//	    if httputil.RetryableStatus(resp.StatusCode) {
//	        return httputil.Retryable(fmt.Errorf("status %d", resp.StatusCode))
//	    }
//	    ...
//	})
//
// [RetryWithBackoff] makes 3 attempts with a 1 second initial delay that
// doubles after each failure, and stops early when the context is done.
package httputil
