// Package network provides the HTTP client shared by responders.
package network

import (
	"net/http"
	"time"
)

// Client is shared by every built-in responder and the script installer.
// It has no overall timeout: replies can take minutes, so callers bound
// requests with their context instead.
var Client = &http.Client{
	Transport: newTransport(),
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 10
	t.IdleConnTimeout = 90 * time.Second
	t.TLSHandshakeTimeout = 10 * time.Second
	t.ExpectContinueTimeout = time.Second
	return t
}
