// Package http provides the retrying HTTP implementation of
// metasift.Fetcher used to download pages before extraction.
package http

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/siftworks/metasift"
)

// Defaults applied by NewFetcher when no option overrides them.
const (
	DefaultTimeout     = 20 * time.Second
	DefaultMaxRetries  = 2
	DefaultBackoffBase = 500 * time.Millisecond
)

// maxRetryAfter caps the sleep taken from a Retry-After header.
const maxRetryAfter = 10 * time.Second

// defaultUserAgent mimics a desktop browser; some sites serve reduced
// markup to unknown agents.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// retryStatuses are the transient statuses worth another attempt.
// Any other status >= 400 fails immediately.
var retryStatuses = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Ensure Fetcher implements metasift.Fetcher at compile time.
var _ metasift.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML pages with bounded retry and exponential backoff.
// It does not execute JavaScript and is suitable for server-rendered pages
// only.
type Fetcher struct {
	client *http.Client

	timeout     time.Duration
	maxRetries  int
	backoffBase time.Duration
	headers     map[string]string
	tlsVerify   bool
	caCert      string
	clientCert  string
	clientKey   string
	proxy       string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-request timeout.
// Defaults to DefaultTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxRetries sets how many times a failed attempt is retried.
// The total number of attempts is maxRetries+1. Negative values are
// treated as zero.
func WithMaxRetries(n int) Option {
	return func(f *Fetcher) {
		f.maxRetries = max(0, n)
	}
}

// WithBackoffBase sets the base delay for exponential backoff between
// retries. A zero or negative base disables the backoff sleep entirely.
func WithBackoffBase(d time.Duration) Option {
	return func(f *Fetcher) {
		f.backoffBase = d
	}
}

// WithHeader adds a request header sent with every fetch, overriding the
// default header of the same name.
func WithHeader(key, value string) Option {
	return func(f *Fetcher) {
		f.headers[key] = value
	}
}

// WithUserAgent replaces the default browser-like User-Agent string.
func WithUserAgent(ua string) Option {
	return WithHeader("User-Agent", ua)
}

// WithTLSVerify controls server certificate verification.
// Verification is on by default.
func WithTLSVerify(verify bool) Option {
	return func(f *Fetcher) {
		f.tlsVerify = verify
	}
}

// WithCACert verifies servers against the CA bundle at path instead of the
// system pool.
func WithCACert(path string) Option {
	return func(f *Fetcher) {
		f.caCert = path
	}
}

// WithClientCert presents a client certificate. keyPath may be empty when
// certPath is a combined PEM holding both certificate and key.
func WithClientCert(certPath, keyPath string) Option {
	return func(f *Fetcher) {
		f.clientCert = certPath
		if keyPath == "" {
			keyPath = certPath
		}
		f.clientKey = keyPath
	}
}

// WithProxy routes requests through the proxy at rawurl.
// Without this option the standard environment proxy settings apply.
func WithProxy(rawurl string) Option {
	return func(f *Fetcher) {
		f.proxy = rawurl
	}
}

// NewFetcher creates an HTTP Fetcher. Options override the documented
// defaults; the zero-option form is ready for production use.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:     DefaultTimeout,
		maxRetries:  DefaultMaxRetries,
		backoffBase: DefaultBackoffBase,
		tlsVerify:   true,
		headers: map[string]string{
			"User-Agent":      defaultUserAgent,
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
			"Cache-Control":   "no-cache",
			"Pragma":          "no-cache",
		},
	}
	for _, opt := range opts {
		opt(f)
	}

	transport, err := f.transport()
	if err != nil {
		return nil, err
	}
	f.client = &http.Client{
		Transport: transport,
		Timeout:   f.timeout,
	}

	return f, nil
}

func (f *Fetcher) transport() (*http.Transport, error) {
	tlsConfig := &tls.Config{InsecureSkipVerify: !f.tlsVerify}

	if f.caCert != "" {
		pem, err := os.ReadFile(f.caCert)
		if err != nil {
			return nil, metasift.Errorf(metasift.EINVALID, "read CA certificate %q: %v", f.caCert, err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, metasift.Errorf(metasift.EINVALID, "no certificates in %q", f.caCert)
		}
		tlsConfig.RootCAs = pool
	}

	if f.clientCert != "" {
		cert, err := tls.LoadX509KeyPair(f.clientCert, f.clientKey)
		if err != nil {
			return nil, metasift.Errorf(metasift.EINVALID, "load client certificate: %v", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		TLSClientConfig:     tlsConfig,
		ForceAttemptHTTP2:   true,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
	}
	if f.proxy != "" {
		u, err := url.Parse(f.proxy)
		if err != nil {
			return nil, metasift.Errorf(metasift.EINVALID, "invalid proxy URL %q: %v", f.proxy, err)
		}
		transport.Proxy = http.ProxyURL(u)
	}

	return transport, nil
}

// attemptState is the retry state machine's classification of one attempt:
// succeed, retry while attempts remain, or fail immediately.
type attemptState int

const (
	attemptSuccess attemptState = iota
	attemptRetry
	attemptFatal
)

// classify maps a transport error or response status to the next
// transition of the retry loop.
func classify(resp *http.Response, err error) attemptState {
	switch {
	case err != nil:
		return attemptRetry
	case retryStatuses[resp.StatusCode]:
		return attemptRetry
	case resp.StatusCode >= 400:
		return attemptFatal
	default:
		return attemptSuccess
	}
}

// Fetch retrieves the page at rawurl, retrying transient failures up to the
// configured ceiling. Transport failures surface as EUNAVAILABLE after
// exhaustion; status failures surface as EHTTP carrying the status code.
func (f *Fetcher) Fetch(ctx context.Context, rawurl string) (*metasift.FetchResult, error) {
	var lastErr error

	for attempt := 1; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
		if err != nil {
			return nil, metasift.Errorf(metasift.EINVALID, "invalid URL %q: %v", rawurl, err)
		}
		for k, v := range f.headers {
			req.Header.Set(k, v)
		}

		resp, err := f.client.Do(req)

		switch classify(resp, err) {
		case attemptSuccess:
			result, err := f.result(resp)
			if err == nil {
				return result, nil
			}
			// A body read failure is a transport failure: retryable.
			lastErr = err
			if attempt > f.maxRetries {
				return nil, lastErr
			}
			if err := sleep(ctx, f.backoff(attempt)); err != nil {
				return nil, err
			}

		case attemptFatal:
			drain(resp)
			return nil, metasift.HTTPErrorf(resp.StatusCode, "HTTP %d for %s", resp.StatusCode, rawurl)

		case attemptRetry:
			delay := f.backoff(attempt)
			if err != nil {
				lastErr = metasift.Errorf(metasift.EUNAVAILABLE, "GET %s: %v", rawurl, err)
			} else {
				lastErr = metasift.HTTPErrorf(resp.StatusCode, "HTTP %d for %s", resp.StatusCode, rawurl)
				delay = retryDelay(resp.Header.Get("Retry-After"), delay)
				drain(resp)
			}
			if attempt > f.maxRetries {
				return nil, lastErr
			}
			if err := sleep(ctx, delay); err != nil {
				return nil, err
			}
		}
	}
}

// result reads and decodes a successful response.
func (f *Fetcher) result(resp *http.Response) (*metasift.FetchResult, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, metasift.Errorf(metasift.EUNAVAILABLE, "read response body: %v", err)
	}

	header := make(map[string]string, len(resp.Header))
	for k, vals := range resp.Header {
		if len(vals) > 0 {
			header[strings.ToLower(k)] = vals[0]
		}
	}

	return &metasift.FetchResult{
		HTML:     decodeHTML(body, resp.Header.Get("Content-Type")),
		FinalURL: resp.Request.URL.String(),
		Header:   header,
	}, nil
}

// backoff computes the sleep before the next attempt: exponential growth
// from the base plus a small deterministic jitter. A base of zero disables
// the sleep.
func (f *Fetcher) backoff(attempt int) time.Duration {
	if f.backoffBase <= 0 {
		return 0
	}
	d := f.backoffBase * (1 << (attempt - 1))
	return d + min(250*time.Millisecond, f.backoffBase/2)
}

// retryDelay honors a Retry-After header carrying a non-negative integer
// number of seconds, capped at maxRetryAfter. Anything else falls back to
// the computed backoff.
func retryDelay(retryAfter string, fallback time.Duration) time.Duration {
	if retryAfter == "" {
		return fallback
	}
	secs, err := strconv.Atoi(strings.TrimSpace(retryAfter))
	if err != nil || secs < 0 {
		return fallback
	}
	return min(maxRetryAfter, time.Duration(secs)*time.Second)
}

// sleep waits for d unless the context ends first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// drain discards and closes the response body so the underlying connection
// can be reused by the next attempt.
func drain(resp *http.Response) {
	if resp == nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

// Close releases idle transport connections.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
