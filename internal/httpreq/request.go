// Package httpreq runs the HTTP requests and server reachability probes the
// front-end asks for.
package httpreq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrBadHeader is returned when the header argument is not a JSON object of strings.
var ErrBadHeader = errors.New("header must be a JSON object of strings")

// Request is one front-end HTTP request.
type Request struct {
	Method string
	URL    string
	Body   string
	Header string // JSON object, may be empty
}

// Response is what the front-end receives back, serialized as JSON.
type Response struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
}

// JSON returns the response as a JSON string.
func (r Response) JSON() string {
	data, err := json.Marshal(r)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// Requester performs front-end HTTP requests.
type Requester struct {
	client *resty.Client
}

// NewRequester creates a requester with the given per-request timeout.
func NewRequester(timeout time.Duration) *Requester {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Requester{client: resty.New().SetTimeout(timeout)}
}

// Do sends req. Any HTTP status is a successful exchange; only transport
// failures and malformed arguments are errors.
func (r *Requester) Do(ctx context.Context, req Request) (Response, error) {
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}

	headers, err := parseHeader(req.Header)
	if err != nil {
		return Response{}, err
	}

	rr := r.client.R().SetContext(ctx).SetHeaders(headers)
	if req.Body != "" {
		rr.SetBody(req.Body)
	}

	resp, err := rr.Execute(method, req.URL)
	if err != nil {
		return Response{}, fmt.Errorf("%s %s: %w", method, req.URL, err)
	}

	out := Response{
		StatusCode: resp.StatusCode(),
		Headers:    make(map[string]string, len(resp.Header())),
		Body:       string(resp.Body()),
	}
	for k := range resp.Header() {
		out.Headers[k] = resp.Header().Get(k)
	}
	return out, nil
}

// Post sends a POST with a JSON body and returns the response body.
// Non-2xx statuses are errors.
func (r *Requester) Post(ctx context.Context, url, body, header string) (string, error) {
	headers, err := parseHeader(header)
	if err != nil {
		return "", err
	}
	if _, ok := headers["Content-Type"]; !ok {
		headers["Content-Type"] = "application/json"
	}

	resp, err := r.client.R().
		SetContext(ctx).
		SetHeaders(headers).
		SetBody(body).
		Post(url)
	if err != nil {
		return "", fmt.Errorf("post request: %w", err)
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		text := strings.TrimSpace(string(resp.Body()))
		if text == "" {
			text = http.StatusText(resp.StatusCode())
		}
		return "", fmt.Errorf("http %d: %s", resp.StatusCode(), text)
	}
	return string(resp.Body()), nil
}

func parseHeader(header string) (map[string]string, error) {
	headers := make(map[string]string)
	if strings.TrimSpace(header) == "" {
		return headers, nil
	}
	if err := json.Unmarshal([]byte(header), &headers); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	return headers, nil
}
