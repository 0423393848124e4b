package router

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akeren/choosepure-waitlist/internal/log"
	apperrors "github.com/akeren/choosepure-waitlist/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	IP      string `json:"ip"`
}

func mountTestController(rs *RouterService) {
	ctrl := NewRESTController("TestController", "/", func(rs *RouterService, c *RESTController) {
		rs.AddGetHandler(c, nil, "ip", func(ctx *RequestContext) *ServiceResult {
			return OKResult("ok", Fields{"ip": ctx.ClientIP()})
		})

		rs.AddPostHandler(c, nil, "echo", func(ctx *RequestContext) *ServiceResult {
			var payload map[string]any
			if err := ctx.ShouldBindJSON(&payload); err != nil {
				return BadRequestResult("bad", nil)
			}
			return OKResult("ok", Fields{"payload": payload})
		})

		rs.AddPostHandler(c, rs.NewRateLimiter("once", 1, time.Minute), "once", func(ctx *RequestContext) *ServiceResult {
			return CreatedResult("created", nil)
		})

		rs.AddGetHandler(c, nil, "items/:id", func(ctx *RequestContext) *ServiceResult {
			id, result := ParseIDParam(ctx, "id")
			if result != nil {
				return result
			}
			return OKResult("ok", Fields{"id": id})
		})
	})

	rs.MountController(ctrl)
}

func newTestRouterService(t *testing.T) *RouterService {
	t.Helper()

	return CreateRouterService(log.NewDiscardLogger(), nil, &RouterConfig{
		RateLimitRequests: 1000,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    5 * time.Second,
	})
}

func serve(rs *RouterService, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()

	var resp envelope
	require.NoError(t, json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&resp))
	return resp
}

func TestTrustedProxies_DisabledByDefault(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "")

	rs := newTestRouterService(t)
	mountTestController(rs)

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	req.Header.Set("X-Forwarded-For", "1.1.1.1")

	w := serve(rs, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeEnvelope(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "ok", resp.Message)
	assert.Equal(t, "10.0.0.2", resp.IP)
}

func TestTrustedProxies_StarTrustsForwardedFor(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "*")

	rs := newTestRouterService(t)
	mountTestController(rs)

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	req.Header.Set("X-Forwarded-For", "1.1.1.1")

	w := serve(rs, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "1.1.1.1", decodeEnvelope(t, w).IP)
}

func TestMaxBodySize_Returns413(t *testing.T) {
	t.Setenv("MAX_REQUEST_BODY_BYTES", "10")

	rs := newTestRouterService(t)
	mountTestController(rs)

	body := bytes.Repeat([]byte{'a'}, 50)
	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := serve(rs, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.False(t, decodeEnvelope(t, w).Success)
}

func TestHandlerRateLimiter_Returns429WithEnvelope(t *testing.T) {
	rs := newTestRouterService(t)
	mountTestController(rs)

	first := serve(rs, httptest.NewRequest(http.MethodPost, "/once", nil))
	require.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

	second := serve(rs, httptest.NewRequest(http.MethodPost, "/once", nil))
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "60", second.Header().Get("Retry-After"))

	resp := decodeEnvelope(t, second)
	assert.False(t, resp.Success)
	assert.Equal(t, "Too many requests. Please try again later.", resp.Message)

	// Other routes keep the default budget.
	assert.Equal(t, http.StatusOK, serve(rs, httptest.NewRequest(http.MethodGet, "/ip", nil)).Code)
}

func TestNoRoute_Returns404Envelope(t *testing.T) {
	rs := newTestRouterService(t)
	mountTestController(rs)

	w := serve(rs, httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	resp := decodeEnvelope(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "Route not found", resp.Message)
}

func TestParseIDParam_RejectsInvalidIDs(t *testing.T) {
	rs := newTestRouterService(t)
	mountTestController(rs)

	for _, id := range []string{"0", "abc", "-1"} {
		w := serve(rs, httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, "id %q", id)
		assert.Equal(t, "Invalid ID parameter", decodeEnvelope(t, w).Message)
	}

	assert.Equal(t, http.StatusOK, serve(rs, httptest.NewRequest(http.MethodGet, "/items/7", nil)).Code)
}

func TestSecurityHeaders_AreSet(t *testing.T) {
	rs := newTestRouterService(t)
	mountTestController(rs)

	w := serve(rs, httptest.NewRequest(http.MethodGet, "/ip", nil))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, w.Header().Get("X-Correlation-ID"))
}

func TestCORS_EchoesAllowedOrigin(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGIN", "https://choosepure.in, https://admin.choosepure.in")

	rs := newTestRouterService(t)
	mountTestController(rs)

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("Origin", "https://admin.choosepure.in")

	w := serve(rs, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://admin.choosepure.in", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestServiceResult_FieldsCannotOverrideEnvelope(t *testing.T) {
	body := OKResult("joined", Fields{"success": false, "message": "x", "whatsappLink": "https://chat"}).ToJSON()

	assert.Equal(t, true, body["success"])
	assert.Equal(t, "joined", body["message"])
	assert.Equal(t, "https://chat", body["whatsappLink"])
}

func TestFromError_UsesClientSafeMessage(t *testing.T) {
	result := FromError(apperrors.NewServiceUnavailableError("Service temporarily unavailable", errors.New("dial tcp: refused")))

	assert.Equal(t, http.StatusInternalServerError, result.StatusCode)
	assert.Equal(t, "Service temporarily unavailable", result.Message)
	assert.False(t, result.IsSuccess())
}

func TestParseIDParam_AcceptsIDsBeyond32Bits(t *testing.T) {
	rs := newTestRouterService(t)
	mountTestController(rs)

	w := serve(rs, httptest.NewRequest(http.MethodGet, "/items/4294967296", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":4294967296`)
}
