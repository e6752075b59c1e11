package fetcher

import (
	"context"
	"net/http"

	"github.com/rohmanhakim/coin-checker/pkg/failure"
)

type Fetcher interface {
	Fetch(
		ctx context.Context,
		fetchParam FetchParam,
	) (FetchResult, failure.ClassifiedError)
}

// Doer is the transport seam. Production injects *http.Client;
// tests inject a scripted transport.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}
