package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"maps"
	"net/http"
	"sync"
)

const (
	defaultBufferSize = 4096
	maxBufferSize     = 1024 * 1024 // 1MB
)

// Client is a JSON-oriented HTTP client with buffer pooling.
type Client struct {
	client     *http.Client
	bufferPool sync.Pool
}

// Option configures the HTTP client.
type Option func(*Client)

// WithClient sets a custom http.Client.
func WithClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// New creates a new HTTP client.
func New(opts ...Option) *Client {
	c := &Client{
		client: &http.Client{},
		bufferPool: sync.Pool{
			New: func() any {
				return bytes.NewBuffer(make([]byte, 0, defaultBufferSize))
			},
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// RequestOption holds options for individual HTTP requests.
type RequestOption struct {
	ctx      context.Context
	header   map[string]string
	response any
}

// WithContext sets a custom context for the request.
func WithContext(ctx context.Context) func(*RequestOption) {
	return func(opt *RequestOption) {
		opt.ctx = ctx
	}
}

// WithHeader sets multiple headers for the request. Later options override
// earlier ones, and any caller-supplied Content-Type overrides the JSON
// default.
func WithHeader(header map[string]string) func(*RequestOption) {
	return func(opt *RequestOption) {
		maps.Copy(opt.header, header)
	}
}

// WithResponse sets the target object the response body is unmarshalled into.
func WithResponse(response any) func(*RequestOption) {
	return func(opt *RequestOption) {
		opt.response = response
	}
}

// Request sends an HTTP request with the specified method, URL, and body.
// A nil body sends no payload, an io.Reader is streamed as-is, and anything
// else is JSON-encoded.
func (c *Client) Request(method, url string, body any, opts ...func(*RequestOption)) (*http.Response, error) {
	opt := &RequestOption{
		header: map[string]string{HeaderContentType: ContentTypeJSON},
	}
	for _, o := range opts {
		o(opt)
	}

	req, err := c.createRequest(method, url, body)
	if err != nil {
		return nil, err
	}

	for k, v := range opt.header {
		req.Header.Set(k, v)
	}
	if opt.ctx != nil {
		req = req.WithContext(opt.ctx)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	return c.processResponse(resp, opt.response)
}

func (c *Client) createRequest(method, url string, body any) (*http.Request, error) {
	switch v := body.(type) {
	case nil:
		return http.NewRequest(method, url, nil)
	case io.Reader:
		return http.NewRequest(method, url, v)
	default:
		return c.createJSONRequest(method, url, v)
	}
}

func (c *Client) createJSONRequest(method, url string, body any) (*http.Request, error) {
	buf := c.getBuffer()
	defer c.putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(body); err != nil {
		return nil, err
	}

	return http.NewRequest(method, url, bytes.NewReader(buf.Bytes()))
}

func (c *Client) getBuffer() *bytes.Buffer {
	buf := c.bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func (c *Client) putBuffer(buf *bytes.Buffer) {
	// Very large buffers are not pooled to avoid pinning memory
	if buf.Cap() <= maxBufferSize {
		c.bufferPool.Put(buf)
	}
}

func (c *Client) processResponse(resp *http.Response, dest any) (*http.Response, error) {
	if dest == nil {
		return resp, nil
	}

	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return nil, err
	}

	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(url string, opts ...func(*RequestOption)) (*http.Response, error) {
	return c.Request(MethodGet, url, nil, opts...)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(url string, body any, opts ...func(*RequestOption)) (*http.Response, error) {
	return c.Request(MethodPost, url, body, opts...)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(url string, body any, opts ...func(*RequestOption)) (*http.Response, error) {
	return c.Request(MethodPut, url, body, opts...)
}

// Delete performs a DELETE request.
func (c *Client) Delete(url string, opts ...func(*RequestOption)) (*http.Response, error) {
	return c.Request(MethodDelete, url, nil, opts...)
}
