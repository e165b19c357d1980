package httpclient

import "net/http"

// HTTPClient is the minimal client surface the services depend on, so
// tests can inject a fake transport.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
