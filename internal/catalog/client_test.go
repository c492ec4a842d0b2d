package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/i474232898/class-weather/internal/course"
	"github.com/i474232898/class-weather/internal/observability"
	"github.com/i474232898/class-weather/internal/upstream"
)

var (
	fall2024 = course.Term{Year: 2024, Season: course.Fall}
	cs225    = course.Key{Subject: "CS", Number: 225}
)

func testClient(baseURL string) *Client {
	c := NewClient(&http.Client{Timeout: 2 * time.Second}, baseURL, "class-weather-test",
		observability.NewMetricsForTesting(), zap.NewNop())
	c.httpCfg.Backoff = upstream.BackoffConfig{MaxRetries: 1, InitialInterval: time.Millisecond}
	return c
}

func TestClient_Fetch_Success(t *testing.T) {
	body, err := os.ReadFile("testdata/cs225.xml")
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2024/fall/CS/225.xml", r.URL.Path)
		assert.Equal(t, "cascade", r.URL.Query().Get("mode"))
		w.Header().Set("Content-Type", "application/xml")
		w.Write(body)
	}))
	defer srv.Close()

	res, err := testClient(srv.URL+"/").Fetch(context.Background(), fall2024, cs225)
	require.NoError(t, err)
	assert.False(t, res.Failed())
	assert.Len(t, res.Sections, 2)
	assert.Equal(t, "11:00 AM", res.Sections["AL1-LEC"].Start)
}

func TestClient_Fetch_NotFoundIsAResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	}))
	defer srv.Close()

	res, err := testClient(srv.URL).Fetch(context.Background(), fall2024, course.Key{Subject: "CS", Number: 999})
	require.NoError(t, err)
	assert.Equal(t, "CS 999 not found in schedule", res.Error)
}

func TestClient_Fetch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := testClient(url).Fetch(context.Background(), fall2024, cs225)
	assert.ErrorIs(t, err, ErrUpstreamUnreachable)
}

func TestClient_Fetch_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<course><detailedSection>"))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Fetch(context.Background(), fall2024, cs225)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestClient_WithRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	}))
	defer srv.Close()

	c := testClient(srv.URL).WithRateLimit(0.001, 1)
	require.NotNil(t, c.httpCfg.Limiter)

	_, err := c.Fetch(context.Background(), fall2024, cs225)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Fetch(ctx, fall2024, cs225)
	assert.ErrorIs(t, err, ErrUpstreamUnreachable, "a throttled lookup must not be cached as not found")

	assert.Nil(t, testClient(srv.URL).WithRateLimit(0, 5).httpCfg.Limiter)
}
