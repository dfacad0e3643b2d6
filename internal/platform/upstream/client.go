// Package upstream talks to the backend finance API. It attaches the bearer
// credential, forwards query strings and JSON bodies, and coerces every
// failure into the normalized error shape so callers never see a raw
// transport error.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cofre-app/cofre/internal/platform/httpx"
)

// TotalHeader carries the collection size on upstream list responses.
const TotalHeader = "X-Total-Count"

// Client issues requests against the upstream base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a Client for the given base URL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Response is a successful upstream reply.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Total parses the X-Total-Count header, returning nil when absent or not an
// integer.
func (r *Response) Total() *int {
	raw := r.Header.Get(TotalHeader)
	if raw == "" {
		return nil
	}
	total, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &total
}

// DecodeJSON unmarshals the response body.
func (r *Response) DecodeJSON(target any) error {
	return json.Unmarshal(r.Body, target)
}

// Fault is a failed upstream call before normalization. Message, Code and
// Details come from the upstream error body when it is JSON.
type Fault struct {
	StatusCode int
	Message    string
	Code       string
	Details    any
}

func (f *Fault) Error() string {
	return "upstream: " + strconv.Itoa(f.StatusCode) + " " + f.Message
}

// Normalize applies the generic fallbacks and returns the error shape
// handlers surface.
func (f *Fault) Normalize() *httpx.Error {
	details := f.Details
	if details == nil {
		details = httpx.GenericDetail
	}
	return httpx.NewError(f.StatusCode, f.Message, details)
}

// Do sends a JSON request. A non-empty token is attached as a bearer
// credential. Failures of any kind come back as *Fault.
func (c *Client) Do(ctx context.Context, method, path string, values url.Values, body any, token string) (*Response, error) {
	var reader io.Reader
	contentType := ""
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &Fault{StatusCode: http.StatusInternalServerError, Message: err.Error()}
		}
		reader = bytes.NewReader(payload)
		contentType = "application/json"
	}
	return c.DoRaw(ctx, method, path, values, contentType, reader, token)
}

// DoRaw sends a request with a caller-built body, used by the multipart
// upload proxy.
func (c *Client) DoRaw(ctx context.Context, method, path string, values url.Values, contentType string, body io.Reader, token string) (*Response, error) {
	target := c.baseURL + path
	if len(values) > 0 {
		target += "?" + values.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, &Fault{StatusCode: http.StatusInternalServerError, Message: err.Error()}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	res, err := c.http.Do(req)
	if err != nil {
		return nil, &Fault{StatusCode: http.StatusInternalServerError, Message: err.Error()}
	}
	defer func() { _ = res.Body.Close() }()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &Fault{StatusCode: http.StatusInternalServerError, Message: err.Error()}
	}

	if res.StatusCode >= http.StatusBadRequest {
		return nil, newFault(res.StatusCode, raw)
	}
	return &Response{StatusCode: res.StatusCode, Header: res.Header, Body: raw}, nil
}

// errorBody is the error payload the upstream API produces.
type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details any    `json:"details"`
}

func newFault(status int, raw []byte) *Fault {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return &Fault{StatusCode: status}
	}
	return &Fault{StatusCode: status, Message: body.Message, Code: body.Code, Details: body.Details}
}
