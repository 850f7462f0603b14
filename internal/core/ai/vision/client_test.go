package vision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"snap-pantry/internal/core/ai/cache"
	"snap-pantry/internal/infrastructure/config"
	"snap-pantry/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `{"responses":[{
	"labelAnnotations":[{"description":"Apple","score":0.95}],
	"webDetection":{"bestGuessLabels":[{"label":"red apple"}]}
}]}`

func newVisionServer(t *testing.T, calls *int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		assert.Equal(t, "/images:annotate", r.URL.Path)
		assert.Equal(t, "vision-key", r.URL.Query().Get("key"))

		var req AnnotateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Requests, 1)
		assert.Equal(t, "aGVsbG8=", req.Requests[0].Image.Content)
		require.Len(t, req.Requests[0].Features, 3)
		assert.Equal(t, FeatureLabelDetection, req.Requests[0].Features[0].Type)
		assert.Equal(t, FeatureObjectLocalization, req.Requests[0].Features[1].Type)
		assert.Equal(t, FeatureWebDetection, req.Requests[0].Features[2].Type)
		assert.Equal(t, 10, req.Requests[0].Features[2].MaxResults)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleResponse))
	}))
}

func testConfig(url string) config.VisionConfig {
	return config.VisionConfig{
		APIKey:     "vision-key",
		BaseURL:    url,
		MaxResults: 10,
		Timeout:    5 * time.Second,
	}
}

func TestAnnotate(t *testing.T) {
	var calls int32
	srv := newVisionServer(t, &calls)
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), nil)
	resp, err := c.Annotate(context.Background(), "aGVsbG8=")
	require.NoError(t, err)
	require.Len(t, resp.Responses, 1)
	assert.Equal(t, "Apple", resp.Responses[0].LabelAnnotations[0].Description)
	require.NotNil(t, resp.Responses[0].WebDetection)
	assert.Equal(t, "red apple", resp.Responses[0].WebDetection.BestGuessLabels[0].Label)
}

func TestAnnotateUsesCache(t *testing.T) {
	var calls int32
	srv := newVisionServer(t, &calls)
	defer srv.Close()

	cm := cache.NewManager(config.CacheConfig{Enabled: true, MaxSize: 10, TTL: time.Minute, CleanupInterval: time.Hour})
	defer cm.Close()

	c := NewClient(testConfig(srv.URL), cm)
	first, err := c.Annotate(context.Background(), "aGVsbG8=")
	require.NoError(t, err)
	second, err := c.Annotate(context.Background(), "aGVsbG8=")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestAnnotateNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL), nil).Annotate(context.Background(), "aGVsbG8=")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrVisionServiceError)
	assert.Contains(t, err.Error(), "403")
}

func TestAnnotateEmptyImage(t *testing.T) {
	_, err := NewClient(testConfig("http://unused"), nil).Annotate(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrInvalidImageFormat)
}
