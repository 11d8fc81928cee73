package ldp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"ldptw/internal/domain"
)

// Client talks to the LDP server under test
type Client struct {
	http *http.Client
}

// NewClient creates a new Client. A nil client uses http.DefaultClient.
func NewClient(c *http.Client) *Client {
	if c == nil {
		c = http.DefaultClient
	}
	return &Client{http: c}
}

// ResourceURL returns a fresh random resource path under server
func ResourceURL(server string) string {
	return strings.TrimSuffix(server, "/") + "/" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// CreateResource PUTs an empty turtle resource at a fresh path under server and
// returns its URL. A non-empty containerType is advertised in the Link header.
// Anything but 201 Created is an error.
func (c *Client) CreateResource(ctx context.Context, server string, containerType domain.ContainerType) (string, error) {
	url := ResourceURL(server)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("Content-Type", "text/turtle")
	if containerType != "" {
		req.Header.Set("Link", fmt.Sprintf("<%s>; rel=\"type\"", containerType))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("create resource %s: %w", url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("create resource %s: expected 201 Created, got %s", url, resp.Status)
	}
	return url, nil
}
