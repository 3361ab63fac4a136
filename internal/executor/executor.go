package executor

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/studiowebux/restchat/internal/types"
)

const (
	// RequestIDHeader carries a per-request correlation id
	RequestIDHeader = "X-Request-ID"

	// ChatPath is the backend completion route
	ChatPath = "/chat"

	msgInvalidRequestBody  = "Invalid JSON in request body"
	msgInvalidResponseBody = "Invalid JSON in response body"
	msgRequestFailed       = "Request failed"
	msgChatFailed          = "Failed to get response from AI"
)

// Doer sends one HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TLSConfig holds optional TLS settings for the backend connection
type TLSConfig struct {
	CAFile             string
	CertFile           string
	KeyFile            string
	InsecureSkipVerify bool
}

// Executor issues requests against one backend base URL.
// It holds no per-request state and is safe for concurrent use.
type Executor struct {
	baseURL string
	headers map[string]string
	tls     *TLSConfig
	client  Doer
	logger  zerolog.Logger
	now     func() time.Time
}

// Option configures an Executor
type Option func(*Executor)

// WithHeaders adds static headers to every request
func WithHeaders(headers map[string]string) Option {
	return func(e *Executor) {
		for k, v := range headers {
			e.headers[k] = v
		}
	}
}

// WithTLS configures the default transport. Ignored when WithClient is used.
func WithTLS(cfg *TLSConfig) Option {
	return func(e *Executor) {
		e.tls = cfg
	}
}

// WithClient replaces the HTTP client
func WithClient(client Doer) Option {
	return func(e *Executor) {
		e.client = client
	}
}

// WithLogger sets the request logger
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) Option {
	return func(e *Executor) {
		e.now = now
	}
}

// New creates an executor for baseURL
func New(baseURL string, opts ...Option) (*Executor, error) {
	e := &Executor{
		baseURL: strings.TrimRight(baseURL, "/"),
		headers: make(map[string]string),
		logger:  zerolog.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.client == nil {
		client, err := buildHTTPClient(e.tls)
		if err != nil {
			return nil, fmt.Errorf("failed to configure HTTP client: %w", err)
		}
		e.client = client
	}

	return e, nil
}

// BaseURL returns the normalized backend base URL
func (e *Executor) BaseURL() string {
	return e.baseURL
}

// response is a completed round trip
type response struct {
	status int
	body   []byte
}

// Execute performs one request for endpoint and normalizes the outcome.
// Failures never escape as Go errors; they come back as error results.
func (e *Executor) Execute(ctx context.Context, endpoint types.Endpoint, body string) types.Result {
	payload, failure, ok := e.requestBody(endpoint, body)
	if !ok {
		return failure
	}

	resp, failure, ok := e.roundTrip(ctx, endpoint, payload)
	if !ok {
		return failure
	}

	if !IsSuccessStatus(resp.status) {
		msg := errorField(resp.body, "detail", "error")
		if msg == "" {
			msg = msgRequestFailed
		}
		return types.Failure(types.ErrorBackend, fmt.Sprintf("HTTP %d: %s", resp.status, msg), e.timestamp())
	}

	data, err := decodeBody(resp.body)
	if err != nil {
		return types.Failure(types.ErrorResponseParseFailure, msgInvalidResponseBody, e.timestamp())
	}

	return types.Success(resp.status, data, e.timestamp())
}

// Chat sends message with history to the completion route.
// On success the reply text is returned alongside the success result.
func (e *Executor) Chat(ctx context.Context, message string, history []types.HistoryEntry) (string, types.Result) {
	if history == nil {
		history = []types.HistoryEntry{}
	}

	payload, err := json.Marshal(types.ChatRequest{
		Message:             message,
		ConversationHistory: history,
	})
	if err != nil {
		return "", types.Failure(types.ErrorInvalidRequestBody, msgInvalidRequestBody, e.timestamp())
	}

	endpoint := types.Endpoint{Path: ChatPath, Method: types.MethodPost}
	resp, failure, ok := e.roundTrip(ctx, endpoint, payload)
	if !ok {
		return "", failure
	}

	if !IsSuccessStatus(resp.status) {
		msg := errorField(resp.body, "detail")
		if msg == "" {
			msg = msgChatFailed
		}
		return "", types.Failure(types.ErrorBackend, msg, e.timestamp())
	}

	data, err := decodeBody(resp.body)
	if err != nil {
		return "", types.Failure(types.ErrorResponseParseFailure, msgInvalidResponseBody, e.timestamp())
	}

	obj, _ := data.(map[string]any)
	reply, ok := obj["response"].(string)
	if !ok {
		return "", types.Failure(types.ErrorBackend, msgChatFailed, e.timestamp())
	}

	return reply, types.Success(resp.status, data, e.timestamp())
}

// requestBody validates the user supplied body. GET never looks at it.
func (e *Executor) requestBody(endpoint types.Endpoint, body string) ([]byte, types.Result, bool) {
	if endpoint.Method != types.MethodPost || body == "" {
		return nil, types.Result{}, true
	}
	if !json.Valid([]byte(body)) {
		return nil, types.Failure(types.ErrorInvalidRequestBody, msgInvalidRequestBody, e.timestamp()), false
	}
	return []byte(body), types.Result{}, true
}

// roundTrip sends one request and reads the whole response body
func (e *Executor) roundTrip(ctx context.Context, endpoint types.Endpoint, payload []byte) (response, types.Result, bool) {
	startTime := time.Now()
	requestID := uuid.NewString()

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, string(endpoint.Method), e.baseURL+endpoint.Path, bodyReader)
	if err != nil {
		return response{}, types.Failure(types.ErrorNetworkFailure, categorizeError(err), e.timestamp()), false
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range e.headers {
		req.Header.Set(key, value)
	}
	req.Header.Set(RequestIDHeader, requestID)

	log := e.logger.With().
		Str("method", string(endpoint.Method)).
		Str("path", endpoint.Path).
		Str("request_id", requestID).
		Logger()

	resp, err := e.client.Do(req)
	if err != nil {
		msg := categorizeError(err)
		log.Warn().Err(err).Dur("duration", time.Since(startTime)).Msg(msg)
		return response{}, types.Failure(types.ErrorNetworkFailure, msg, e.timestamp()), false
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		msg := categorizeError(err)
		log.Warn().Err(err).Int("status", resp.StatusCode).Msg("failed to read response body")
		return response{}, types.Failure(types.ErrorNetworkFailure, msg, e.timestamp()), false
	}

	event := log.Info()
	if !IsSuccessStatus(resp.StatusCode) {
		event = log.Warn()
	}
	event.Int("status", resp.StatusCode).
		Int("size", len(body)).
		Dur("duration", time.Since(startTime)).
		Msg("request completed")

	return response{status: resp.StatusCode, body: body}, types.Result{}, true
}

func (e *Executor) timestamp() time.Time {
	return e.now().UTC()
}

// decodeBody parses a JSON response body. An empty body is not JSON.
func decodeBody(body []byte) (any, error) {
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// errorField returns the first non-empty field of a JSON object body.
// Non-string values are returned as compact JSON.
func errorField(body []byte, fields ...string) string {
	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil {
		return ""
	}
	for _, field := range fields {
		value, ok := obj[field]
		if !ok || value == nil {
			continue
		}
		if s, ok := value.(string); ok {
			if s != "" {
				return s
			}
			continue
		}
		if b, err := json.Marshal(value); err == nil {
			return string(b)
		}
	}
	return ""
}

// buildHTTPClient creates an HTTP client with optional TLS/mTLS configuration.
// There is no client timeout; cancellation comes from the request context.
func buildHTTPClient(tlsConfig *TLSConfig) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if tlsConfig != nil {
		tlsCfg := &tls.Config{
			InsecureSkipVerify: tlsConfig.InsecureSkipVerify,
		}

		if tlsConfig.CertFile != "" && tlsConfig.KeyFile != "" {
			cert, err := tls.LoadX509KeyPair(tlsConfig.CertFile, tlsConfig.KeyFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load client certificate: %w", err)
			}
			tlsCfg.Certificates = []tls.Certificate{cert}
		}

		if tlsConfig.CAFile != "" {
			caCert, err := os.ReadFile(tlsConfig.CAFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read CA certificate: %w", err)
			}
			caCertPool := x509.NewCertPool()
			if !caCertPool.AppendCertsFromPEM(caCert) {
				return nil, fmt.Errorf("failed to parse CA certificate")
			}
			tlsCfg.RootCAs = caCertPool
		}

		transport.TLSClientConfig = tlsCfg
	}

	return &http.Client{Transport: transport}, nil
}

// IsSuccessStatus returns true if status code is 2xx
func IsSuccessStatus(status int) bool {
	return status >= 200 && status < 300
}
