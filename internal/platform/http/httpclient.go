// Package http builds outbound HTTP clients for upstream APIs.
package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient returns a client for upstream calls. timeout bounds the whole
// request; the transport sets shorter dial, TLS and header timeouts and honours
// HTTP_PROXY style environment variables.
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
