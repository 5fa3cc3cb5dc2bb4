package model

//
// Common HTTP definitions.
//

import "net/http"

// HTTPHeaderUserAgent is the default User-Agent header.
const HTTPHeaderUserAgent = "fasthosts/1.0"

// HTTPClient is the HTTP client used by this codebase.
type HTTPClient interface {
	// Do sends the request and returns the response.
	Do(req *http.Request) (*http.Response, error)

	// CloseIdleConnections closes the idle connections.
	CloseIdleConnections()
}
