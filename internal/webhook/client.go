// Package webhook is the HTTP client for the remote submissions API.
//
// The remote service owns submission storage and exposes three endpoints:
//
//	GET  {base}/webhook/get-submissions           list (JSON array)
//	POST {base}/webhook/delete-submission?id={id} delete one submission
//	POST {base}/webhook/react-contact             create from the contact form
//
// Failures are classified into the error taxonomy the rest of the
// application acts on:
//
//   - ErrNetwork: the request never completed
//   - *StatusError: the request completed and the server signalled failure
//   - ErrUnexpectedResponse: the response shape was not what the call needs
//
// The client never retries.
package webhook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tbourn/contact-dashboard/internal/domain"
)

// Endpoint paths relative to the base URL.
const (
	PathList    = "/webhook/get-submissions"
	PathDelete  = "/webhook/delete-submission"
	PathContact = "/webhook/react-contact"
)

// Fallback messages.
const (
	MsgDeleteFailed   = "Delete failed"
	MsgContactSuccess = "Submitted successfully!"
)

var (
	// ErrNetwork wraps transport failures (DNS, refused, reset, timeout).
	ErrNetwork = errors.New("network error")

	// ErrUnexpectedResponse reports a completed request whose response cannot
	// be interpreted, e.g. a 2xx contact reply without a JSON content type.
	ErrUnexpectedResponse = errors.New("unexpected response")

	// ErrMalformedBody marks a reply that claimed JSON but did not decode.
	// It always travels together with ErrUnexpectedResponse.
	ErrMalformedBody = errors.New("malformed response body")
)

// StatusError is an application-level failure reported by the server.
// Message follows the precedence payload "error", then HTTP status text,
// then a generic fallback.
type StatusError struct {
	Status     int
	StatusText string
	Message    string
}

func (e *StatusError) Error() string { return e.Message }

var webhookReqs = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "subdash_webhook_requests_total",
		Help: "Remote webhook calls by operation and result.",
	},
	[]string{"op", "result"},
)

func init() {
	prometheus.MustRegister(webhookReqs)
}

// observe records the outcome class of err for op.
func observe(op string, err error) {
	result := "ok"
	var se *StatusError
	switch {
	case err == nil:
	case errors.Is(err, ErrNetwork):
		result = "network"
	case errors.As(err, &se):
		result = "status"
	case errors.Is(err, ErrUnexpectedResponse):
		result = "unexpected"
	default:
		result = "error"
	}
	webhookReqs.WithLabelValues(op, result).Inc()
}

// ----------------------------------------------------------------------------
// Options

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its transport is used
// as-is (no tracing wrapper is added).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

// WithTimeout sets a per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.hc.Timeout = d
		}
	}
}

// ----------------------------------------------------------------------------
// Client

// Client talks to the remote submissions API. It is safe for concurrent use.
type Client struct {
	base string
	hc   *http.Client
}

// New returns a Client for the API rooted at base (trailing slashes are
// ignored). The default transport is traced with otelhttp and has no
// timeout.
func New(base string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(strings.TrimSpace(base), "/"),
		hc: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the normalized API base.
func (c *Client) BaseURL() string { return c.base }

// ListSubmissions fetches every submission. A response that is valid JSON
// but not an array yields an empty list; non-object array entries are
// skipped.
func (c *Client) ListSubmissions(ctx context.Context) (subs []domain.Submission, err error) {
	defer func() { observe("list", err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+PathList, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	status, _, body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status.code < 200 || status.code > 299 {
		return nil, &StatusError{Status: status.code, StatusText: status.text, Message: nonEmpty(status.text, "List failed")}
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: list body is not JSON", ErrUnexpectedResponse)
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return []domain.Submission{}, nil
	}

	subs = make([]domain.Submission, 0, len(root.Array()))
	var decodeErr error
	root.ForEach(func(_, v gjson.Result) bool {
		if !v.IsObject() {
			return true
		}
		var s domain.Submission
		if err := json.Unmarshal([]byte(v.Raw), &s); err != nil {
			decodeErr = err
			return false
		}
		subs = append(subs, s)
		return true
	})
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedResponse, decodeErr)
	}
	return subs, nil
}

// DeleteSubmission asks the server to delete id. The call fails when the
// status is not 2xx or the JSON payload carries "ok": false.
func (c *Client) DeleteSubmission(ctx context.Context, id string) (err error) {
	defer func() { observe("delete", err) }()

	u := c.base + PathDelete + "?" + url.Values{"id": {id}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	status, _, body, err := c.do(req)
	if err != nil {
		return err
	}

	// An unparseable body is treated as an empty payload.
	var payload gjson.Result
	if gjson.ValidBytes(body) {
		payload = gjson.ParseBytes(body)
	}
	if status.code >= 200 && status.code <= 299 && payload.Get("ok").Type != gjson.False {
		return nil
	}

	// payload error, then the status text, then the generic message.
	msg := ""
	if e := payload.Get("error"); e.Exists() && e.Type != gjson.Null {
		msg = e.String()
	}
	if msg == "" {
		msg = status.text
	}
	return &StatusError{
		Status:     status.code,
		StatusText: status.text,
		Message:    nonEmpty(msg, MsgDeleteFailed),
	}
}

// ContactRequest is the body of a contact-form submission.
type ContactRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SubmitContact posts the contact form. Success requires a 2xx status and a
// JSON content type; anything else is ErrUnexpectedResponse, even a 2xx with
// a non-JSON body. The returned message is the server's "message" field or
// MsgContactSuccess.
func (c *Client) SubmitContact(ctx context.Context, in ContactRequest) (msg string, err error) {
	defer func() { observe("contact", err) }()

	b, err := json.Marshal(in)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+PathContact, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	status, ctype, body, err := c.do(req)
	if err != nil {
		return "", err
	}
	if status.code < 200 || status.code > 299 || !isJSON(ctype) {
		return "", fmt.Errorf("%w: status %d, content type %q", ErrUnexpectedResponse, status.code, ctype)
	}

	var out struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: %w: %v", ErrUnexpectedResponse, ErrMalformedBody, err)
	}
	return nonEmpty(out.Message, MsgContactSuccess), nil
}

type statusLine struct {
	code int
	text string
}

// do executes req and reads the whole body. Transport and body-read failures
// are wrapped in ErrNetwork.
func (c *Client) do(req *http.Request) (statusLine, string, []byte, error) {
	res, err := c.hc.Do(req)
	if err != nil {
		return statusLine{}, "", nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return statusLine{}, "", nil, fmt.Errorf("%w: read body: %v", ErrNetwork, err)
	}
	return statusLine{code: res.StatusCode, text: reasonPhrase(res)}, res.Header.Get("Content-Type"), body, nil
}

// reasonPhrase extracts "Not Found" from "404 Not Found".
func reasonPhrase(res *http.Response) string {
	return strings.TrimSpace(strings.TrimPrefix(res.Status, strconv.Itoa(res.StatusCode)))
}

// isJSON matches any content type mentioning application/json, parameters
// included.
func isJSON(ctype string) bool {
	return strings.Contains(strings.ToLower(ctype), "application/json")
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
