package services

import (
	"context"
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDetectorServer(t *testing.T, faces []DetectedFace) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.WriteHeader(http.StatusOK)
		case "/detect":
			var req detectRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.NotEmpty(t, req.Image)
			require.NoError(t, json.NewEncoder(w).Encode(detectResponse{Faces: faces}))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestNewFERClientRequiresEndpoint(t *testing.T) {
	_, err := NewFERClient("", "")
	assert.Error(t, err)
}

func TestNewFERClientHealthCheckFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewFERClient(srv.URL, "")
	assert.Error(t, err)
}

func TestDetectEmotionsParsesFaces(t *testing.T) {
	faces := []DetectedFace{
		{Box: []int{10, 20, 100, 100}, Emotions: map[string]float64{"happy": 0.92, "sad": 0.08}},
	}
	srv := newDetectorServer(t, faces)
	defer srv.Close()

	client, err := NewFERClient(srv.URL, "")
	require.NoError(t, err)

	frame := image.NewRGBA(image.Rect(0, 0, 8, 8))
	got, err := client.DetectEmotions(context.Background(), frame)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 0.92, got[0].Emotions["happy"], 1e-9)
}

func TestDetectEmotionsNoFaces(t *testing.T) {
	srv := newDetectorServer(t, nil)
	defer srv.Close()

	client, err := NewFERClient(srv.URL, "")
	require.NoError(t, err)

	got, err := client.DetectEmotions(context.Background(), image.NewRGBA(image.Rect(0, 0, 8, 8)))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDetectEmotionsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewFERClient(srv.URL, "")
	require.NoError(t, err)

	_, err = client.DetectEmotions(context.Background(), image.NewRGBA(image.Rect(0, 0, 8, 8)))
	assert.Error(t, err)
}

func TestDominantScore(t *testing.T) {
	label, score := DominantScore(map[string]float64{"happy": 0.7, "sad": 0.2, "angry": 0.1})
	assert.Equal(t, "happy", label)
	assert.InDelta(t, 0.7, score, 1e-9)
}

func TestDominantScoreTieBreakIsLexical(t *testing.T) {
	label, score := DominantScore(map[string]float64{"surprise": 0.5, "angry": 0.5})
	assert.Equal(t, "angry", label)
	assert.InDelta(t, 0.5, score, 1e-9)
}
