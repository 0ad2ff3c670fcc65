package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/quietfoundry/rolodex/internal/service/knowledge"
	"github.com/quietfoundry/rolodex/server"
	"github.com/quietfoundry/rolodex/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct {
	vec []float32
	err error
}

func (e *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.vec, e.err
}

func newTestHandler(e *stubEmbedder, opts ...server.Option) http.Handler {
	svc := knowledge.New(e, nil, memory.NewStore())
	return NewHandler(svc, opts...)
}

func doAsk(t *testing.T, h http.Handler, headers map[string]string, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAskMissingUserHeader(t *testing.T) {
	h := newTestHandler(&stubEmbedder{vec: []float32{1, 0}})

	rec := doAsk(t, h, nil, `{"query": "history"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "X-User-Id")
}

func TestAskMissingQuery(t *testing.T) {
	h := newTestHandler(&stubEmbedder{vec: []float32{1, 0}})

	rec := doAsk(t, h, map[string]string{"X-User-Id": "u1"}, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doAsk(t, h, map[string]string{"X-User-Id": "u1"}, `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAskStoreRoundTrip(t *testing.T) {
	h := newTestHandler(&stubEmbedder{vec: []float32{1, 0}})
	headers := map[string]string{"X-User-Id": "u1"}

	rec := doAsk(t, h, headers, `{"query": "store name=Jo; email=jo@x.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var stored knowledge.StoreResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stored))
	assert.Equal(t, "stored", stored.Status)
	assert.NotZero(t, stored.Id)

	rec = doAsk(t, h, headers, `{"query": "history"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var history knowledge.HistoryResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history.History, 1)
	assert.Equal(t, "jo@x.com", *history.History[0].Email)
}

func TestAskDomainRejectionIsOK(t *testing.T) {
	h := newTestHandler(&stubEmbedder{vec: []float32{1, 0}})

	rec := doAsk(t, h, map[string]string{"X-User-Id": "u1"}, `{"query": "emailed jo@x.com successfully"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var status knowledge.StatusResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "not_found", status.Status)
}

func TestAskInfrastructureFailureIs500(t *testing.T) {
	h := newTestHandler(&stubEmbedder{err: errors.New("provider down")})

	rec := doAsk(t, h, map[string]string{"X-User-Id": "u1"}, `{"query": "search anything"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "provider down")
}

func TestAskConversationDefault(t *testing.T) {
	h := newTestHandler(&stubEmbedder{vec: []float32{1, 0}})

	rec := doAsk(t, h, map[string]string{"X-User-Id": "u1"}, `{"query": "store note for later"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// Stored under "default", so an explicit conversation sees nothing.
	rec = doAsk(t, h, map[string]string{
		"X-User-Id":         "u1",
		"X-Conversation-Id": "work",
	}, `{"query": "history"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var history knowledge.HistoryResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Empty(t, history.History)

	rec = doAsk(t, h, map[string]string{"X-User-Id": "u1"}, `{"query": "history"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Len(t, history.History, 1)
}

func TestAskConfigurableUserHeader(t *testing.T) {
	h := newTestHandler(
		&stubEmbedder{vec: []float32{1, 0}},
		server.WithUserHeader("X-Member-Id"),
	)

	rec := doAsk(t, h, map[string]string{"X-User-Id": "u1"}, `{"query": "history"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doAsk(t, h, map[string]string{"X-Member-Id": "u1"}, `{"query": "history"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWithMiddlewareInjection(t *testing.T) {
	var sawRequestId bool

	tag := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, sawRequestId = RequestIdFrom(r.Context())
			w.Header().Set("X-Edge", "on")
			next.ServeHTTP(w, r)
		})
	}

	h := newTestHandler(
		&stubEmbedder{vec: []float32{1, 0}},
		WithMiddleware(tag),
	)

	rec := doAsk(t, h, map[string]string{"X-User-Id": "u1"}, `{"query": "history"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "on", rec.Header().Get("X-Edge"))
	// Injected middleware runs inside the built-in chain.
	assert.True(t, sawRequestId)
}

func TestRecoverMiddleware(t *testing.T) {
	h := newTestHandler(
		&stubEmbedder{vec: []float32{1, 0}},
		WithMiddleware(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic("boom")
			})
		}),
	)

	rec := doAsk(t, h, map[string]string{"X-User-Id": "u1"}, `{"query": "history"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal error", body["error"])
}

func TestRequestIdHeader(t *testing.T) {
	h := newTestHandler(&stubEmbedder{vec: []float32{1, 0}})

	rec := doAsk(t, h, map[string]string{"X-User-Id": "u1"}, `{"query": "history"}`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = doAsk(t, h, map[string]string{
		"X-User-Id":    "u1",
		"X-Request-Id": "fixed-id",
	}, `{"query": "history"}`)
	assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-Id"))
}
