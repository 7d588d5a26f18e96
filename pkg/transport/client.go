package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	pkgerrors "github.com/asif-amar/shopping-mcp/pkg/errors"
)

const (
	defaultTimeout      = 15 * time.Second
	defaultMaxBodyBytes = 5 << 20
	errorBodyReadLimit  = 512
)

// ErrUnsafeTarget is returned when a request would reach a private, loopback or
// link-local address, or uses a scheme other than http/https.
var ErrUnsafeTarget = errors.New("unsafe request target")

// Request describes one upstream call. Endpoint is either an absolute URL or a
// path joined onto the client's base URL.
type Request struct {
	Method   string
	Endpoint string
	Params   map[string]string
	Body     any
	Headers  map[string]string
	Timeout  time.Duration
}

// Requester is the contract adapters depend on. The returned body is either a
// sanitized JSON tree (map[string]any, []any, ...) or a string for non-JSON responses.
type Requester interface {
	Request(ctx context.Context, req Request) (any, error)
}

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
}

// Client is a Requester bound to one base URL and a fixed header set.
type Client struct {
	httpClient   *http.Client
	baseURL      *url.URL
	headers      map[string]string
	timeout      time.Duration
	maxBodyBytes int64
	allowPrivate bool
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client. The private-network guard on
// dialing is only installed on the default client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithHeaders sets headers sent on every request. Per-request headers win.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// WithTimeout sets the default per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithMaxBodyBytes caps how much of a response body is read.
func WithMaxBodyBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBodyBytes = n
		}
	}
}

// AllowPrivateNetworks disables the SSRF guard. Local development and tests only.
func AllowPrivateNetworks(allow bool) Option {
	return func(c *Client) {
		c.allowPrivate = allow
	}
}

// New builds a client for baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("base url scheme must be http or https")
	}

	client := &Client{
		baseURL:      parsed,
		headers:      map[string]string{},
		timeout:      defaultTimeout,
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	if client.httpClient == nil {
		client.httpClient = client.defaultHTTPClient()
	}
	return client, nil
}

func (c *Client) defaultHTTPClient() *http.Client {
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	if !c.allowPrivate {
		dialer.Control = guardDial
	}
	// No proxy: guardDial checks the address actually dialed, which must be the
	// upstream itself. Callers that need a proxy pass WithHTTPClient.
	return &http.Client{
		Transport: &http.Transport{
			DialContext:         dialer.DialContext,
			TLSHandshakeTimeout: 10 * time.Second,
			MaxIdleConnsPerHost: 4,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return errors.New("too many redirects")
			}
			if c.allowPrivate {
				return nil
			}
			return validateTarget(req.URL)
		},
	}
}

// Request performs the call and returns the sanitized body.
func (c *Client) Request(ctx context.Context, req Request) (any, error) {
	target, err := c.resolve(req.Endpoint, req.Params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "build request url")
	}
	if !c.allowPrivate {
		if err := validateTarget(target); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeSecurity, err, "request target rejected")
		}
	}

	timeout := c.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "encode request body")
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "build request")
	}
	httpReq.Header.Set("Accept", "application/json, text/plain, */*")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, ErrUnsafeTarget) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeSecurity, err, "request target rejected")
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "request timed out")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "execute request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, statusErr, fmt.Sprintf("upstream status %d", resp.StatusCode))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "read response")
	}

	if !isJSON(resp.Header.Get("Content-Type")) {
		return string(raw), nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode json response")
	}
	return SanitizeJSON(decoded), nil
}

func (c *Client) resolve(endpoint string, params map[string]string) (*url.URL, error) {
	ref, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		return nil, err
	}
	target := c.baseURL.ResolveReference(ref)
	if len(params) > 0 {
		q := target.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		target.RawQuery = q.Encode()
	}
	return target, nil
}

func encodeBody(body any) (io.Reader, string, error) {
	switch v := body.(type) {
	case nil:
		return nil, "", nil
	case url.Values:
		return strings.NewReader(v.Encode()), "application/x-www-form-urlencoded", nil
	case []byte:
		return bytes.NewReader(v), "application/json", nil
	default:
		payload, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(payload), "application/json", nil
	}
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// validateTarget rejects non-http schemes, localhost names and private IP literals.
// Hostnames are re-checked at dial time by guardDial.
func validateTarget(u *url.URL) error {
	if u == nil {
		return ErrUnsafeTarget
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme %q", ErrUnsafeTarget, u.Scheme)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return fmt.Errorf("%w: missing host", ErrUnsafeTarget)
	}
	if host == "localhost" || strings.HasSuffix(host, ".localhost") || strings.HasSuffix(host, ".internal") {
		return fmt.Errorf("%w: host %q", ErrUnsafeTarget, host)
	}
	if ip := net.ParseIP(host); ip != nil && unsafeIP(ip) {
		return fmt.Errorf("%w: address %s", ErrUnsafeTarget, ip)
	}
	return nil
}

func guardDial(network, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnsafeTarget, address)
	}
	ip := net.ParseIP(host)
	if ip == nil || unsafeIP(ip) {
		return fmt.Errorf("%w: address %s", ErrUnsafeTarget, host)
	}
	return nil
}

var carrierGradeNAT = &net.IPNet{IP: net.IPv4(100, 64, 0, 0), Mask: net.CIDRMask(10, 32)}

func unsafeIP(ip net.IP) bool {
	return ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() ||
		ip.IsMulticast() ||
		ip.IsUnspecified() ||
		carrierGradeNAT.Contains(ip)
}
