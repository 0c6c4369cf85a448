// Package api is the REST client for the store backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/pkg/circuitbreaker"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const IdempotencyHeader = "Idempotency-Key"

// maxErrorBody caps how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

var (
	ErrNoBaseURL        = errors.New("api base url is required")
	ErrMalformedPayload = errors.New("malformed response payload")
)

// errServerStatus lets a 5xx response count against the breaker while the
// response itself still reaches the caller.
var errServerStatus = errors.New("server error status")

// StatusError is a non-2xx reply. Message is taken from the body when the
// server sent one.
type StatusError struct {
	Op      string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.Status)
}

type Options struct {
	BaseURL string
	// Timeout bounds every request. Zero leaves requests unbounded.
	Timeout   time.Duration
	Breaker   circuitbreaker.Settings
	Transport http.RoundTripper
	Logger    *slog.Logger
}

type Client struct {
	baseURL string
	http    *http.Client
	breaker *circuitbreaker.Breaker[*http.Response]
	log     *slog.Logger
}

func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, ErrNoBaseURL
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	if opts.Breaker.Logger == nil {
		opts.Breaker.Logger = log
	}

	return &Client{
		baseURL: strings.TrimSuffix(opts.BaseURL, "/"),
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(base),
		},
		breaker: circuitbreaker.New[*http.Response]("store-api", opts.Breaker),
		log:     log,
	}, nil
}

// BreakerState reports the outbound circuit breaker state.
func (c *Client) BreakerState() string {
	return c.breaker.State()
}

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.getList(ctx, "list products", "/products", "products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := c.getList(ctx, "list categories", "/categories", "categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// ValidateCoupon asks the server about code. A reply with valid=false is
// not an error here; interpreting it is up to the caller.
func (c *Client) ValidateCoupon(ctx context.Context, code string, subtotal decimal.Decimal) (CouponResult, error) {
	const op = "validate coupon"

	var out CouponResult
	resp, err := c.do(ctx, op, http.MethodPost, "/coupons/validate", couponRequest{Code: code, Subtotal: NewMoney(subtotal)}, nil)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()

	if err := statusError(op, resp); err != nil {
		return out, err
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("%s: %w: %v", op, ErrMalformedPayload, err)
	}
	return out, nil
}

// CheckStock returns the names of items the store cannot supply, in the
// order the server listed them. An empty result means everything is available.
func (c *Client) CheckStock(ctx context.Context, lines []StockLine) ([]string, error) {
	const op = "check stock"

	resp, err := c.do(ctx, op, http.MethodPost, "/products/check-stock", stockRequest{Items: lines}, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := statusError(op, resp); err != nil {
		return nil, err
	}

	var out stockResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrMalformedPayload, err)
	}
	names := make([]string, 0, len(out.OutOfStockItems))
	for _, it := range out.OutOfStockItems {
		names = append(names, it.Name)
	}
	return names, nil
}

// CreateOrder posts the order once. idempotencyKey is sent as a header so a
// server can drop a duplicate.
func (c *Client) CreateOrder(ctx context.Context, order OrderRequest, idempotencyKey string) (OrderReceipt, error) {
	const op = "create order"

	var receipt OrderReceipt
	headers := map[string]string{}
	if idempotencyKey != "" {
		headers[IdempotencyHeader] = idempotencyKey
	}

	resp, err := c.do(ctx, op, http.MethodPost, "/orders", order, headers)
	if err != nil {
		return receipt, err
	}
	defer resp.Body.Close()

	if err := statusError(op, resp); err != nil {
		return receipt, err
	}
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil && !errors.Is(err, io.EOF) {
		return receipt, fmt.Errorf("%s: %w: %v", op, ErrMalformedPayload, err)
	}
	return receipt, nil
}

func (c *Client) getList(ctx context.Context, op, path, wrapKey string, dst any) error {
	resp, err := c.do(ctx, op, http.MethodGet, path, nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := statusError(op, resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.NetworkError{Op: op, Err: err}
	}
	if err := decodeList(body, wrapKey, dst); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// decodeList accepts a bare JSON array or an object wrapping the array
// under "data" or wrapKey.
func decodeList(body []byte, wrapKey string, dst any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, dst); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		return nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	for _, key := range []string{"data", wrapKey} {
		raw, ok := wrapped[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMalformedPayload, key, err)
		}
		return nil
	}
	return fmt.Errorf("%w: no list found", ErrMalformedPayload)
}

func (c *Client) do(ctx context.Context, op, method, path string, body any, headers map[string]string) (*http.Response, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: marshal request: %w", op, err)
		}
	}

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, errServerStatus
		}
		return resp, nil
	})

	if errors.Is(err, errServerStatus) {
		return resp, nil
	}
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		c.log.WarnContext(ctx, "store api call failed", "op", op, "path", path, "error", err)
		return nil, &domain.NetworkError{Op: op, Err: err}
	}
	return resp, nil
}

func statusError(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var eb errorBody
	_ = json.Unmarshal(raw, &eb)
	msg := eb.Message
	if msg == "" {
		msg = eb.Error
	}
	return &StatusError{Op: op, Status: resp.StatusCode, Message: msg}
}
