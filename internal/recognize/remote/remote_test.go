package remote

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/dshills/inkwell/internal/ink"
	"github.com/dshills/inkwell/internal/recognize"
)

func strokes() []*ink.Stroke {
	return []*ink.Stroke{
		ink.StrokeFromXY(ink.DefaultStyle, 0, 0, 10, 20),
		ink.StrokeFromXY(ink.DefaultStyle, 5, 5),
	}
}

func TestEncodeRequest(t *testing.T) {
	body, err := EncodeRequest("de", strokes())
	require.NoError(t, err)

	assert.Equal(t, "de", gjson.GetBytes(body, "language").String())
	assert.Equal(t, int64(2), gjson.GetBytes(body, "strokes.#").Int())
	assert.Equal(t, int64(2), gjson.GetBytes(body, "strokes.0.#").Int())
	assert.Equal(t, 10.0, gjson.GetBytes(body, "strokes.0.1.x").Float())
	assert.Equal(t, 20.0, gjson.GetBytes(body, "strokes.0.1.y").Float())
	assert.Equal(t, 5.0, gjson.GetBytes(body, "strokes.1.0.x").Float())

	empty, err := EncodeRequest("en", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"language":"en","strokes":[]}`, string(empty))
}

func TestDecodeResponse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    []string
		wantErr bool
	}{
		{"candidates", `{"candidates":["destroy","distroy"]}`, []string{"destroy", "distroy"}, false},
		{"results", `{"results":[{"text":"move","score":0.9},{"text":""},{"text":"mouse"}]}`, []string{"move", "mouse"}, false},
		{"empty list", `{"candidates":[]}`, nil, false},
		{"missing", `{"other":1}`, nil, true},
		{"invalid", `{"candidates":[`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeResponse([]byte(tt.body))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecognizeInk(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"candidates":["clone"]}`))
	}))
	defer srv.Close()

	r, err := New(srv.URL, WithHeader("X-Api-Key", "secret"))
	require.NoError(t, err)

	got, err := r.RecognizeInk(t.Context(), nil, strokes())
	require.NoError(t, err)
	assert.Equal(t, []string{"clone"}, got)
	assert.Equal(t, "en", gjson.GetBytes(gotBody, "language").String())
}

func TestRecognizeInkStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	r, err := New(srv.URL)
	require.NoError(t, err)

	_, err = r.RecognizeInk(t.Context(), nil, strokes())
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.Code)
	assert.Equal(t, "overloaded", se.Body)
}

func TestRecognizeInkHonorsContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	r, err := New(srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()
	_, err = r.RecognizeInk(ctx, nil, strokes())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewRequiresURL(t *testing.T) {
	_, err := New(" ")
	assert.ErrorIs(t, err, ErrNoURL)
}

func TestCoordinatorWithRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"text":"destroy"}]}`))
	}))
	defer srv.Close()

	rr, err := New(srv.URL)
	require.NoError(t, err)

	captured := strokes()
	c := recognize.New(recognize.StrokesFunc(func() []*ink.Stroke { return captured }), nil,
		recognize.WithRecognizers(rr))
	pass, err := c.Recognize(t.Context())
	require.NoError(t, err)
	results, err := pass.Wait(t.Context())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, []string{"destroy"}, results[0].TextCandidates)
}
