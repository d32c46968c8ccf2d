package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/feco/api-smoke-tests/framework"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const (
	// DefaultJSONTimeout bounds a Request call.
	DefaultJSONTimeout = time.Second * 10

	// DefaultRawTimeout bounds a RequestRaw call, which may carry file uploads and downloads.
	DefaultRawTimeout = time.Second * 20
)

// ErrNoBearerToken is returned when an authenticated request is attempted before any bearer
// token was set. It means the steps are in the wrong order, not that the backend misbehaved.
var ErrNoBearerToken = errors.New("authenticated request attempted before a bearer token was set")

// Client talks to the FECO API. Each Client has its own CookieSession and BearerAuth; two
// Clients never share cookies or tokens.
type Client struct {
	baseURL     *url.URL
	session     *CookieSession
	auth        *BearerAuth
	transport   http.RoundTripper
	jsonTimeout time.Duration
	rawTimeout  time.Duration
	logger      framework.Logger
}

// Option configures a Client created with New.
type Option func(*Client)

// WithTimeouts overrides DefaultJSONTimeout and DefaultRawTimeout.
func WithTimeouts(jsonTimeout, rawTimeout time.Duration) Option {
	return func(c *Client) {
		c.jsonTimeout = jsonTimeout
		c.rawTimeout = rawTimeout
	}
}

// WithHTTPTransport replaces the http.RoundTripper. The default is http.DefaultTransport.
func WithHTTPTransport(transport http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = transport
	}
}

// WithLogger sets the logger that receives a line for every request and response.
func WithLogger(logger framework.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// Response is the outcome of one request.
//
// If no HTTP response was received at all, Status is 0, Body contains the error description
// and Err is set. Callers that only look at Status therefore see a transport failure as one
// more unexpected status code.
type Response struct {
	Status int
	Body   []byte
	Header http.Header
	Err    error
}

// Text returns the body as a string.
func (r Response) Text() string {
	return string(r.Body)
}

// ContentType returns the Content-Type response header.
func (r Response) ContentType() string {
	return r.Header.Get("Content-Type")
}

// JSON parses the body as an arbitrary JSON value.
func (r Response) JSON() (ldvalue.Value, error) {
	var v ldvalue.Value
	if err := json.Unmarshal(r.Body, &v); err != nil {
		return ldvalue.Null(), err
	}
	return v, nil
}

// New creates a Client for the API at baseURL. Request paths are resolved relative to it.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: must be an absolute http or https URL", baseURL)
	}
	session, err := NewCookieSession()
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:     u,
		session:     session,
		auth:        &BearerAuth{},
		transport:   http.DefaultTransport,
		jsonTimeout: DefaultJSONTimeout,
		rawTimeout:  DefaultRawTimeout,
		logger:      framework.NullLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// BaseURL returns the normalised base URL, which always ends in a slash.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) Auth() *BearerAuth {
	return c.auth
}

// SetBearerToken is a shortcut for Auth().Set(token).
func (c *Client) SetBearerToken(token string) {
	c.auth.Set(token)
}

// WithLogger returns a Client that shares this Client's session and bearer token but sends its
// request log to a different logger.
func (c *Client) WithLogger(logger framework.Logger) *Client {
	c1 := *c
	c1.logger = logger
	return &c1
}

// Cookie returns the named cookie that this Client's session would send with a request to path.
// It does not look at the bearer token.
func (c *Client) Cookie(path, name string) (*http.Cookie, bool) {
	u, err := c.resolve(path)
	if err != nil {
		return nil, false
	}
	return c.session.Cookie(u, name)
}

// Request sends a request with an optional JSON body. A non-nil jsonBody is marshalled with
// encoding/json and sent with a JSON Content-Type.
//
// The returned error is non-nil only for mistakes on the caller's side: ErrNoBearerToken, a
// body that cannot be marshalled, or a malformed path. Transport failures are reported in the
// Response; see Response.
func (c *Client) Request(method, path string, jsonBody interface{}, useAuth bool) (Response, error) {
	var body []byte
	var contentType string
	if jsonBody != nil {
		data, err := json.Marshal(jsonBody)
		if err != nil {
			return Response{}, fmt.Errorf("encoding JSON body for %s %s: %w", method, path, err)
		}
		body = data
		contentType = "application/json"
	}
	return c.do(method, path, body, contentType, useAuth, c.jsonTimeout)
}

// RequestRaw is like Request but sends body unchanged with the given Content-Type and uses the
// longer raw-transfer timeout. Response.Header carries every response header.
func (c *Client) RequestRaw(method, path string, body []byte, contentType string, useAuth bool) (Response, error) {
	return c.do(method, path, body, contentType, useAuth, c.rawTimeout)
}

func (c *Client) do(
	method, path string,
	body []byte,
	contentType string,
	useAuth bool,
	timeout time.Duration,
) (Response, error) {
	target, err := c.resolve(path)
	if err != nil {
		return Response{}, err
	}
	var bodyReader io.Reader
	if len(body) > 0 {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, target.String(), bodyReader)
	if err != nil {
		return Response{}, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if useAuth {
		if err := c.auth.apply(req); err != nil {
			return Response{}, err
		}
	}

	c.logger.Printf("%s", curlCommand(req, body))
	hc := &http.Client{
		Transport: c.transport,
		Jar:       c.session.jar,
		Timeout:   timeout,
	}
	resp, err := hc.Do(req)
	if err != nil {
		c.logger.Printf("<- transport error: %s", err)
		return Response{Body: []byte(err.Error()), Err: err}, nil
	}
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Printf("<- %d, error reading body: %s", resp.StatusCode, err)
		return Response{Body: []byte(err.Error()), Err: err}, nil
	}
	c.logger.Printf("<- %d %s", resp.StatusCode, describeBody(resp.Header.Get("Content-Type"), data))
	return Response{Status: resp.StatusCode, Body: data, Header: resp.Header}, nil
}

func (c *Client) resolve(path string) (*url.URL, error) {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid request path %q: %w", path, err)
	}
	return c.baseURL.ResolveReference(ref), nil
}
