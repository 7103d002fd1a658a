// Package resilience groups the fault tolerance helpers used around calls
// that leave the process: the remote newshub API, the summarizer providers
// and feed downloads.
//
//	cb := circuitbreaker.New(circuitbreaker.RemoteAPIConfig())
//	err := retry.WithBackoff(ctx, retry.RemoteAPIConfig(), func() error {
//	    _, err := circuitbreaker.Do(cb, func() (*entity.Article, error) {
//	        return fetch(ctx)
//	    })
//	    return err
//	})
package resilience
