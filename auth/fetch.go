package auth

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/utpal03/portalkit/errors"
	"github.com/utpal03/portalkit/httpclient"
	"github.com/utpal03/portalkit/log"
	"github.com/utpal03/portalkit/metrics"
	"github.com/utpal03/portalkit/session"
)

// Fetcher sends bearer-authenticated requests against the portal backend.
// On a 401 it performs at most one refresh round-trip and replays the
// request once with the renewed access token. Concurrent 401s share a
// single refresh call.
type Fetcher struct {
	baseURL string
	http    *httpclient.Client
	store   session.Store
	nav     Navigator
	logger  *log.Logger

	refresh singleflight.Group
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(client *httpclient.Client) FetcherOption {
	return func(f *Fetcher) {
		f.http = client
	}
}

// WithNavigator sets the navigation sink used when a dead session forces
// the user back to login.
func WithNavigator(nav Navigator) FetcherOption {
	return func(f *Fetcher) {
		f.nav = nav
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a Fetcher over the given session store.
func NewFetcher(baseURL string, store session.Store, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		baseURL: baseURL,
		http:    httpclient.New(),
		store:   store,
		nav:     NopNavigator(),
		logger:  log.G,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// RequestOption holds options for a single authenticated request.
type RequestOption struct {
	header   map[string]string
	response any
}

// WithHeader sets extra headers for the request. The Authorization header
// is always overwritten with the current access token.
func WithHeader(header map[string]string) func(*RequestOption) {
	return func(opt *RequestOption) {
		for k, v := range header {
			opt.header[k] = v
		}
	}
}

// WithResponse sets the target the final 2xx response body is decoded into.
func WithResponse(response any) func(*RequestOption) {
	return func(opt *RequestOption) {
		opt.response = response
	}
}

// Do sends one authenticated request. A nil body sends no payload, an
// io.Reader is read fully up front so a retry can replay it, and anything
// else is JSON-encoded. The returned response is the terminal one: either
// the first response when no refresh was needed, or the single retry's.
func (f *Fetcher) Do(ctx context.Context, method, path string, body any, opts ...func(*RequestOption)) (*http.Response, error) {
	opt := &RequestOption{header: map[string]string{}}
	for _, o := range opts {
		o(opt)
	}

	payload, err := bufferBody(body)
	if err != nil {
		return nil, errors.Internal("encode request body").WithCause(err)
	}

	token, err := f.store.AccessToken(ctx)
	if err != nil && !stderrors.Is(err, session.ErrNotFound) {
		return nil, errors.Internal("read access token").WithCause(err)
	}

	resp, err := f.send(ctx, method, path, payload, opt.header, token)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized {
		return f.finalize(resp, opt.response)
	}

	refreshToken, err := f.store.RefreshToken(ctx)
	if err != nil || refreshToken == "" {
		// Nothing to refresh with. The 401 is handed back untouched.
		return f.finalize(resp, opt.response)
	}

	f.logger.Debug().Str("method", method).Str("path", path).Msg("access token rejected, attempting transparent refresh")

	drain(resp)

	renewed, err := f.refreshAccessToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	metrics.AuthRetries.Inc()

	retry, err := f.send(ctx, method, path, payload, opt.header, renewed)
	if err != nil {
		return nil, err
	}

	return f.finalize(retry, opt.response)
}

// Get performs an authenticated GET request.
func (f *Fetcher) Get(ctx context.Context, path string, opts ...func(*RequestOption)) (*http.Response, error) {
	return f.Do(ctx, httpclient.MethodGet, path, nil, opts...)
}

// Post performs an authenticated POST request with a JSON body.
func (f *Fetcher) Post(ctx context.Context, path string, body any, opts ...func(*RequestOption)) (*http.Response, error) {
	return f.Do(ctx, httpclient.MethodPost, path, body, opts...)
}

// Put performs an authenticated PUT request with a JSON body.
func (f *Fetcher) Put(ctx context.Context, path string, body any, opts ...func(*RequestOption)) (*http.Response, error) {
	return f.Do(ctx, httpclient.MethodPut, path, body, opts...)
}

// Delete performs an authenticated DELETE request.
func (f *Fetcher) Delete(ctx context.Context, path string, opts ...func(*RequestOption)) (*http.Response, error) {
	return f.Do(ctx, httpclient.MethodDelete, path, nil, opts...)
}

// Store returns the session store the Fetcher reads tokens from.
func (f *Fetcher) Store() session.Store {
	return f.store
}

func (f *Fetcher) send(ctx context.Context, method, path string, payload []byte, header map[string]string, token string) (*http.Response, error) {
	h := map[string]string{}
	for k, v := range header {
		h[k] = v
	}
	if token != "" {
		h[httpclient.HeaderAuthorization] = "Bearer " + token
	}

	var body any
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	resp, err := f.http.Request(method, httpclient.JoinURL(f.baseURL, path), body,
		httpclient.WithContext(ctx),
		httpclient.WithHeader(h),
	)
	if err != nil {
		return nil, errors.Network(err, "%s %s did not reach the backend", method, path)
	}

	return resp, nil
}

// refreshAccessToken exchanges the refresh token for a new access token.
// Concurrent callers collapse onto one backend round-trip; everyone gets
// the same renewed token or the same failure.
func (f *Fetcher) refreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	v, err, _ := f.refresh.Do("refresh", func() (any, error) {
		var out struct {
			AccessToken string `json:"accessToken"`
		}

		resp, err := f.http.Post(httpclient.JoinURL(f.baseURL, EndpointRefreshToken),
			map[string]string{"refreshToken": refreshToken},
			httpclient.WithContext(ctx),
		)
		if err != nil {
			metrics.AuthRefreshes.WithLabelValues("network").Inc()
			return "", errors.Network(err, "token refresh did not reach the backend")
		}
		defer resp.Body.Close()

		if !is2xx(resp.StatusCode) {
			metrics.AuthRefreshes.WithLabelValues("rejected").Inc()
			f.logger.Warn().Int("status", resp.StatusCode).Msg("token refresh rejected, session destroyed")

			if err := f.store.Clear(ctx); err != nil {
				f.logger.Error().Err(err).Msg("clear session after rejected refresh")
			}
			f.nav.Navigate(RouteLogin)

			// The expired classification rides along as the cause: the
			// session went from recoverable to dead in this round-trip.
			return "", errors.SessionInvalid(resp.StatusCode, "token refresh rejected").
				WithCause(errors.SessionExpired("access token no longer accepted"))
		}

		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.AccessToken == "" {
			metrics.AuthRefreshes.WithLabelValues("malformed").Inc()
			return "", errors.Internal("malformed refresh response").WithCause(err)
		}

		if err := f.store.SetAccessToken(ctx, out.AccessToken); err != nil {
			return "", errors.Internal("persist renewed access token").WithCause(err)
		}

		metrics.AuthRefreshes.WithLabelValues("renewed").Inc()
		f.logger.Debug().Msg("access token renewed")

		return out.AccessToken, nil
	})
	if err != nil {
		return "", err
	}

	return v.(string), nil
}

func (f *Fetcher) finalize(resp *http.Response, dest any) (*http.Response, error) {
	metrics.AuthRequests.WithLabelValues(strconv.Itoa(resp.StatusCode / 100)).Inc()

	if dest == nil || !is2xx(resp.StatusCode) {
		return resp, nil
	}

	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return nil, errors.Internal("decode response body").WithCause(err)
	}

	return resp, nil
}

// bufferBody reads the request body into memory so a post-refresh retry
// can replay it byte for byte.
func bufferBody(body any) ([]byte, error) {
	switch v := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case io.Reader:
		return io.ReadAll(v)
	default:
		return json.Marshal(v)
	}
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	resp.Body.Close()
}

func is2xx(status int) bool {
	return status >= 200 && status < 300
}
