// Package docsclient is a minimal stand-in for the live Apple Developer
// documentation client. The full HTTP client that fetches and renders
// undocumented JSON endpoints is out of scope for this repository; this
// package exists only so the CLI has a concrete, typed collaborator to
// call when composing the WWDC transcript path with the live-docs path.
package docsclient

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// ErrNotImplemented is returned by every Client method. The live
// documentation client is a separate collaborator; this stub only
// satisfies the composition contract at the CLI layer.
var ErrNotImplemented = errors.New("docsclient: live documentation client is not implemented in this build")

// Client is the contract the CLI composes alongside the WWDC facade. It
// shares no mutable state with the WWDC core.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New builds a Client against baseURL. No request is made until a method
// is called.
func New(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
	}
}

// FetchDocument would fetch and render a single documentation endpoint.
// Always returns ErrNotImplemented.
func (c *Client) FetchDocument(ctx context.Context, path string) (string, error) {
	return "", ErrNotImplemented
}

// Search would query the live documentation index. Always returns
// ErrNotImplemented.
func (c *Client) Search(ctx context.Context, term string) ([]string, error) {
	return nil, ErrNotImplemented
}
