// Package httpclientx contains small helpers to fetch resources
// over HTTP with a consistent logging and error handling policy.
package httpclientx

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/fasthosts/fasthosts/internal/logx"
)

// maxBodySize is the maximum response body size we are willing to read.
const maxBodySize = 1 << 24

// ErrRequestFailed indicates that the server returned >= 400.
type ErrRequestFailed struct {
	// StatusCode is the MANDATORY status code that we got.
	StatusCode int
}

// Error implements error.
func (err *ErrRequestFailed) Error() string {
	return "httpclientx: request failed"
}

// ErrTruncated indicates the body exceeded the maximum size.
var ErrTruncated = errors.New("httpclientx: response body too large")

// zeroValue is a convenience function to return the zero value.
func zeroValue[T any]() T {
	return *new(T)
}

// do sends the given request and reads the response body.
func do(ctx context.Context, req *http.Request, config *Config) ([]byte, error) {
	// log the operation we're about to perform
	ol := logx.NewOperationLogger(config.Logger, "httpclientx: %s %s", req.Method, req.URL.String())

	// make sure we include the proper headers
	req.Header.Set("User-Agent", config.UserAgent)
	req.Header.Set("Accept-Encoding", "gzip")

	// get the response
	resp, err := config.Client.Do(req)
	if err != nil {
		ol.Stop(err)
		return nil, err
	}
	defer resp.Body.Close()

	// handle the case of failure
	if resp.StatusCode >= 400 {
		err := &ErrRequestFailed{resp.StatusCode}
		ol.Stop(err)
		return nil, err
	}

	// handle the case of compressed response body
	var baseReader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzreader, err := gzip.NewReader(baseReader)
		if err != nil {
			ol.Stop(err)
			return nil, err
		}
		defer gzreader.Close()
		baseReader = gzreader
	}

	// read the whole body, refusing oversized bodies
	rawrespbody, err := io.ReadAll(io.LimitReader(baseReader, maxBodySize+1))
	if err == nil && len(rawrespbody) > maxBodySize {
		err = ErrTruncated
	}
	if err != nil {
		ol.Stop(err)
		return nil, err
	}

	ol.Stop(nil)
	return rawrespbody, nil
}
