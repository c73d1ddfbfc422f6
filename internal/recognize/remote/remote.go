// Package remote adapts an HTTP handwriting recognition service to the
// recognize.Recognizer interface.
//
// The request body is
//
//	{"language": "en", "strokes": [[{"x": 1, "y": 2}, ...], ...]}
//
// and the service answers either {"candidates": ["text", ...]} or
// {"results": [{"text": "..."}, ...]}, best candidate first.
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/inkwell/internal/ink"
	"github.com/dshills/inkwell/internal/logging"
)

// DefaultLanguage is the recognition language sent when none is set.
const DefaultLanguage = "en"

// maxResponseSize caps the response body read from the service.
const maxResponseSize = 1 << 20

// Errors returned by the remote recognizer.
var (
	// ErrNoURL is returned by New when the endpoint is empty.
	ErrNoURL = errors.New("remote recognizer: no URL")

	// ErrBadResponse is returned when the service answer is not
	// understood.
	ErrBadResponse = errors.New("remote recognizer: malformed response")
)

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
	Body string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("remote recognizer: HTTP %d", e.Code)
	}
	return fmt.Sprintf("remote recognizer: HTTP %d: %s", e.Code, e.Body)
}

// Option configures a Recognizer.
type Option func(*Recognizer)

// WithClient sets the HTTP client.
func WithClient(c *http.Client) Option {
	return func(r *Recognizer) { r.client = c }
}

// WithLanguage sets the recognition language.
func WithLanguage(lang string) Option {
	return func(r *Recognizer) { r.language = lang }
}

// WithHeader adds a request header, e.g. an API key.
func WithHeader(key, value string) Option {
	return func(r *Recognizer) { r.header.Set(key, value) }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Recognizer) { r.logger = l }
}

// Recognizer posts a group's strokes to a recognition endpoint.
type Recognizer struct {
	url      string
	language string
	client   *http.Client
	header   http.Header
	logger   *slog.Logger
}

// New creates a recognizer for the endpoint url. Timeouts come from the
// caller's context, so the default client has none of its own.
func New(url string, opts ...Option) (*Recognizer, error) {
	if strings.TrimSpace(url) == "" {
		return nil, ErrNoURL
	}
	r := &Recognizer{
		url:      url,
		language: DefaultLanguage,
		client:   http.DefaultClient,
		header:   make(http.Header),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.Logger()
	}
	r.logger = r.logger.With("component", "remote-recognizer")
	return r, nil
}

// Name identifies the recognizer.
func (r *Recognizer) Name() string { return "remote" }

// RecognizeInk implements recognize.Recognizer.
func (r *Recognizer) RecognizeInk(ctx context.Context, _ []ink.Point, strokes []*ink.Stroke) ([]string, error) {
	body, err := EncodeRequest(r.language, strokes)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range r.header {
		req.Header[k] = vs
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	cands, err := DecodeResponse(data)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("remote recognition", "strokes", len(strokes), "candidates", len(cands))
	return cands, nil
}

// EncodeRequest builds the request body for strokes.
func EncodeRequest(language string, strokes []*ink.Stroke) ([]byte, error) {
	body, err := sjson.SetBytes([]byte(`{}`), "language", language)
	if err != nil {
		return nil, err
	}
	body, err = sjson.SetRawBytes(body, "strokes", []byte(`[]`))
	if err != nil {
		return nil, err
	}
	for i, s := range strokes {
		body, err = sjson.SetRawBytes(body, "strokes.-1", []byte(`[]`))
		if err != nil {
			return nil, err
		}
		path := "strokes." + strconv.Itoa(i) + ".-1"
		for _, smp := range s.Samples() {
			body, err = sjson.SetBytes(body, path, map[string]float64{"x": smp.X, "y": smp.Y})
			if err != nil {
				return nil, err
			}
		}
	}
	return body, nil
}

// DecodeResponse extracts the candidates from a service answer. Empty
// strings are dropped.
func DecodeResponse(data []byte) ([]string, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrBadResponse
	}

	var path string
	switch {
	case gjson.GetBytes(data, "candidates").IsArray():
		path = "candidates"
	case gjson.GetBytes(data, "results").IsArray():
		path = "results.#.text"
	default:
		return nil, fmt.Errorf("%w: no candidates or results", ErrBadResponse)
	}

	var out []string
	for _, v := range gjson.GetBytes(data, path).Array() {
		if s := v.String(); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}
