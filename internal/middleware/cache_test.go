package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SensibleN00B/theatre-api/internal/config"
)

// Two detail requests on the same parameterized route must never share a
// cache key, or one entity's body would be replayed for the other.
func TestCacheKeyDistinguishesPathParams(t *testing.T) {
	e := echo.New()
	cfg := config.LoadCacheConfig()

	keyFor := func(target string) string {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/v1/plays/:id")
		c.SetParamNames("id")
		c.SetParamValues(target[len("/v1/plays/"):])
		return cacheKey(cfg, c)
	}

	assert.NotEqual(t, keyFor("/v1/plays/1"), keyFor("/v1/plays/2"))
	assert.Equal(t, keyFor("/v1/plays/1"), keyFor("/v1/plays/1"))
}

func TestCacheKeyIncludesQuery(t *testing.T) {
	e := echo.New()
	cfg := config.LoadCacheConfig()

	keyFor := func(target string) string {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/v1/plays")
		return cacheKey(cfg, c)
	}

	assert.NotEqual(t, keyFor("/v1/plays?title=ham"), keyFor("/v1/plays?title=lear"))
}

func TestCachedPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	body := []byte(`[{"id":1}]`)

	payload, err := encodeCached(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodeCached(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)
}

func TestDecodeCachedRejectsTruncated(t *testing.T) {
	_, _, _, ok := decodeCached([]byte{0, 0})
	assert.False(t, ok)
	_, _, _, ok = decodeCached(nil)
	assert.False(t, ok)
}

func TestRedisCacheDisabledPassThrough(t *testing.T) {
	e := echo.New()
	calls := 0
	e.GET("/v1/plays", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"n": calls})
	}, NewRedisCache(config.CacheConfig{Enabled: false}, nil))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/plays", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 2, calls)
}

func TestTokenBucketDisabledPassThrough(t *testing.T) {
	e := echo.New()
	e.GET("/v1/plays", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil))

	req := httptest.NewRequest(http.MethodGet, "/v1/plays", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}
