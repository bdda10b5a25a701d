package annotate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/matzehuels/arcdiff/pkg/cache"
	apperrors "github.com/matzehuels/arcdiff/pkg/errors"
	"github.com/matzehuels/arcdiff/pkg/httputil"
	"github.com/matzehuels/arcdiff/pkg/observability"
)

// DefaultSentence is annotated when a request leaves the sentence empty.
const DefaultSentence = "The quick brown fox jumped over the lazy dog."

// Path is the annotation endpoint relative to the service base URL.
const Path = "/api/1/annotate"

const (
	httpTimeout      = 30 * time.Second
	maxResponseBytes = 16 << 20
)

var (
	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")

	// ErrBadResponse is returned when the service answers with a payload
	// that is not an annotation response.
	ErrBadResponse = errors.New("malformed annotation response")
)

// Request is the body sent to the annotation service.
type Request struct {
	Sentence         string `json:"sentence"`
	EnhanceUD        bool   `json:"enhance_ud"`
	EnhancedPlusPlus bool   `json:"enhanced_plus_plus"`
	EnhancedExtra    bool   `json:"enhanced_extra"`
}

// Response holds one Odin payload per annotation scheme.
type Response struct {
	Basic json.RawMessage `json:"basic"`
	Plus  json.RawMessage `json:"plus"`
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithCache caches responses in cc for ttl.
func WithCache(cc cache.Cache, keyer cache.Keyer, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cc
		c.keyer = keyer
		c.ttl = ttl
	}
}

// WithHeaders adds headers to every request.
func WithHeaders(h map[string]string) Option { return func(c *Client) { c.headers = h } }

// WithRetry overrides the retry policy (default 3 attempts, 1s initial delay).
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		c.attempts = attempts
		c.delay = delay
	}
}

// Client talks to one annotation service.
type Client struct {
	http     *http.Client
	baseURL  string
	cache    cache.Cache
	keyer    cache.Keyer
	ttl      time.Duration
	headers  map[string]string
	attempts int
	delay    time.Duration
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		http:     &http.Client{Timeout: httpTimeout},
		baseURL:  strings.TrimRight(baseURL, "/"),
		cache:    cache.NewNullCache(),
		keyer:    cache.NewDefaultKeyer(),
		attempts: 3,
		delay:    time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.keyer == nil {
		c.keyer = cache.NewDefaultKeyer()
	}
	return c
}

// Endpoint returns the full annotation URL.
func (c *Client) Endpoint() string { return c.baseURL + Path }

// Annotate sends req to the service. An empty sentence is replaced by
// [DefaultSentence]. With refresh set the cache is bypassed (but still
// updated).
func (c *Client) Annotate(ctx context.Context, req Request, refresh bool) (*Response, error) {
	req.Sentence = strings.TrimSpace(req.Sentence)
	if req.Sentence == "" {
		req.Sentence = DefaultSentence
	}
	if err := apperrors.ValidateSentence(req.Sentence); err != nil {
		return nil, err
	}

	key := c.keyer.AnnotateKey(req.Sentence, cache.AnnotateKeyOpts{
		Endpoint:         c.Endpoint(),
		EnhanceUD:        req.EnhanceUD,
		EnhancedPlusPlus: req.EnhancedPlusPlus,
		EnhancedExtra:    req.EnhancedExtra,
	})
	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, key); ok {
			var resp Response
			if json.Unmarshal(data, &resp) == nil && resp.valid() {
				observability.Cache().OnCacheHit(ctx, "annotate")
				return &resp, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "annotate")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "encode request")
	}

	var resp Response
	err = httputil.Retry(ctx, c.attempts, c.delay, func() error {
		data, err := c.post(ctx, body)
		if err != nil {
			return err
		}
		resp = Response{}
		if err := json.Unmarshal(data, &resp); err != nil || !resp.valid() {
			return fmt.Errorf("%w: expected {\"basic\", \"plus\"}", ErrBadResponse)
		}
		return nil
	})
	if err != nil {
		return nil, classify(ctx, err)
	}

	if data, err := json.Marshal(resp); err == nil {
		if c.cache.Set(ctx, key, data, c.ttl) == nil {
			observability.Cache().OnCacheSet(ctx, "annotate", len(data))
		}
	}
	return &resp, nil
}

func (r *Response) valid() bool {
	return len(r.Basic) > 0 && len(r.Plus) > 0 &&
		!bytes.Equal(r.Basic, []byte("null")) && !bytes.Equal(r.Plus, []byte("null"))
}

func (c *Client) post(ctx context.Context, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, httputil.Retryable(fmt.Errorf("%w: read body: %v", ErrNetwork, err))
	}
	return data, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case httputil.RetryableStatus(code):
		return httputil.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

// classify attaches an error code to a failed request.
func classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return apperrors.Wrap(apperrors.ErrCodeTimeout, err, "annotation service timed out")
	case errors.Is(err, ErrBadResponse):
		return apperrors.Wrap(apperrors.ErrCodeNetwork, err, "annotation service")
	default:
		return apperrors.Wrap(apperrors.ErrCodeNetwork, err, "annotation service unavailable")
	}
}
