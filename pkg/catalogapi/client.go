package catalogapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultBaseURL             = "http://localhost:8000"
	defaultTimeout             = 10 * time.Second
	errorBodyReadLimit   int64 = 64 * 1024
	genericFailureFormat       = "Request failed with status code %d"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// Client talks to the catalog REST API. It holds no per-user state; the bearer
// token for a call comes from the context (see WithToken) or the static token.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	metrics    *metrics.CatalogMetrics
	logg       *logger.Logger
	now        func() time.Time
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the catalog base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithStaticToken sets a bearer token used when the context carries none.
func WithStaticToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithMetrics records request counts and latency.
func WithMetrics(m *metrics.CatalogMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger logs failed requests at debug level.
func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		if logg != nil {
			c.logg = logg
		}
	}
}

// WithClock overrides the clock used to check token expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClient builds a catalog client with sane defaults.
func NewClient(opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    defaultBaseURL,
		logg:       logger.Nop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

type tokenKey struct{}

// WithToken attaches a per-client bearer token to ctx.
func WithToken(ctx context.Context, token string) context.Context {
	token = strings.TrimSpace(token)
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

func (c *Client) bearer(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	if token == "" {
		token = c.token
	}
	if !tokenUsable(token, c.now()) {
		return ""
	}
	return token
}

// tokenUsable rejects empty tokens and JWTs whose exp has passed. Opaque
// tokens are passed through untouched.
func tokenUsable(token string, now time.Time) bool {
	if token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return now.Before(exp.Time)
}

// do issues one request and decodes a 2xx body into out (when non-nil).
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	start := time.Now()
	err := c.send(ctx, method, path, query, body, out)
	c.metrics.Observe(op, time.Since(start), err)
	if err != nil {
		c.logg.Debug(c.logg.WithFields(ctx, pkgerrors.Dump(err).Fields()), "catalog request failed")
	}
	return err
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.buildURL(path)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return remoteError(method, path, 0, err.Error(), err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return remoteError(method, path, 0, err.Error(), err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token := c.bearer(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return remoteError(method, path, 0, err.Error(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		msg := messageFromBody(raw)
		if msg == "" {
			msg = fmt.Sprintf(genericFailureFormat, resp.StatusCode)
		}
		return remoteError(method, path, resp.StatusCode, msg, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return remoteError(method, path, resp.StatusCode, "invalid response from catalog", err)
	}
	return nil
}

func (c *Client) buildURL(path string) string {
	trimmed := strings.TrimRight(c.baseURL, "/")
	path = strings.TrimLeft(path, "/")
	return fmt.Sprintf("%s/%s", trimmed, path)
}

func remoteError(method, path string, status int, msg string, cause error) *pkgerrors.Error {
	return pkgerrors.Wrap(pkgerrors.CodeRemote, cause, msg).WithDetails(pkgerrors.RemoteDetails{
		Status: status,
		Method: method,
		Path:   path,
	})
}

// messageFromBody extracts a readable message from an error body: the
// "detail" string when present, otherwise the first field error in document
// order rendered as "field: message".
func messageFromBody(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ""
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if _, err := dec.Token(); err != nil {
		return ""
	}
	var first string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return first
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return first
		}
		if key == "detail" {
			var detail string
			if json.Unmarshal(raw, &detail) == nil && strings.TrimSpace(detail) != "" {
				return strings.TrimSpace(detail)
			}
			continue
		}
		if first != "" {
			continue
		}
		if msg := fieldMessage(raw); msg != "" {
			if key == "non_field_errors" {
				first = msg
			} else {
				first = key + ": " + msg
			}
		}
	}
	return first
}

func fieldMessage(raw json.RawMessage) string {
	var list []string
	if json.Unmarshal(raw, &list) == nil {
		for _, item := range list {
			if s := strings.TrimSpace(item); s != "" {
				return s
			}
		}
		return ""
	}
	var single string
	if json.Unmarshal(raw, &single) == nil {
		return strings.TrimSpace(single)
	}
	return ""
}

func validatePayload(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}
	details := map[string]string{}
	for _, fieldErr := range errs {
		details[fieldErr.Field()] = validationMessage(fieldErr)
	}
	first := errs[0]
	return pkgerrors.New(pkgerrors.CodeValidation, first.Field()+" "+validationMessage(first)).WithDetails(details)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	}
	return "is invalid"
}
