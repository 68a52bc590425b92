// Package resilience provides reliability patterns for the pipeline's
// external calls: bounded retry with exponential backoff for feed fetches and
// scorer API calls, and circuit breakers to stop hammering a source or model
// endpoint that keeps failing.
//
// Usage:
//
//	cfg := retry.FeedFetchConfig()
//	err := retry.WithBackoff(ctx, cfg, func() error {
//	    return fetchFeed()
//	})
//
//	cb := circuitbreaker.New(circuitbreaker.FeedFetchConfig("feed"))
//	err := cb.Execute(func() error {
//	    return callExternalService()
//	})
package resilience
