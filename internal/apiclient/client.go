package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rx0a/rayspace/internal/authservice"
	"github.com/rx0a/rayspace/internal/common"
)

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		ttl:     DefaultCacheTTL,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.ttl <= 0 {
		c.ttl = DefaultCacheTTL
	}

	c.c = common.NewCache(c.ttl, 2*c.ttl)

	return c
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		js, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		r = bytes.NewReader(js)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != "" {
		req.AddCookie(&http.Cookie{Name: authservice.SessionCookieName, Value: c.session})
	}

	return req, nil
}

// do sends the request and decodes a 2xx JSON body into dst when dst is not nil.
func (c *Client) do(ctx context.Context, method, path string, body, dst any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return decodeError(res)
	}

	if dst == nil {
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		return fmt.Errorf("%s %s: could not decode response: %w", method, path, err)
	}

	return nil
}

func decodeError(res *http.Response) error {
	apiErr := &APIError{Status: res.StatusCode, Message: http.StatusText(res.StatusCode)}

	b, err := io.ReadAll(io.LimitReader(res.Body, 1<<16))
	if err != nil || len(b) == 0 {
		return apiErr
	}

	var env struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(b, &env); err != nil || len(env.Error) == 0 {
		apiErr.Message = strings.TrimSpace(string(b))
		return apiErr
	}

	var msg string
	if err := json.Unmarshal(env.Error, &msg); err == nil {
		apiErr.Message = msg
		return apiErr
	}

	var fields map[string]string
	if err := json.Unmarshal(env.Error, &fields); err == nil {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+fields[k])
		}
		apiErr.Message = strings.Join(parts, "; ")
	}

	return apiErr
}

// IsNotFound reports whether err is a 404 from the server or a failed local
// lookup.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusNotFound
	}
	return errors.Is(err, ErrNotFound)
}
