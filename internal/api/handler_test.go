package api

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"seller-assistant/internal/common/errors"
	"seller-assistant/internal/common/logger"
	"seller-assistant/internal/credentials"
	"seller-assistant/internal/reply"
	"seller-assistant/internal/sale"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeReplier struct {
	gotMessage string
	gotKey     string
	err        error
}

func (f *fakeReplier) GenerateResponse(_ context.Context, message, apiKey string) (reply.ResultSet, error) {
	f.gotMessage = message
	f.gotKey = apiKey
	if f.err != nil {
		return nil, f.err
	}
	return reply.ResultSet{
		{Text: "Yes, we ship to the UK!", IsExactMatch: true, Source: reply.SourceExact},
		{Text: "Happy to send it your way.", Source: reply.SourceGenerated},
		{Text: "Thanks for reaching out!", Source: reply.SourceTemplate},
	}, nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time                       { return c.now }
func (c fixedClock) After(time.Duration) <-chan time.Time { return make(chan time.Time) }

type testEnv struct {
	router    *gin.Engine
	replier   *fakeReplier
	store     credentials.Store
	scheduler *sale.Scheduler
}

func newTestEnv(t *testing.T, store credentials.Store, ready ReadyCheck) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewTestLogger(t)
	replier := &fakeReplier{}
	now := time.Date(2025, time.March, 4, 10, 0, 0, 0, time.UTC)
	scheduler := sale.NewScheduler(sale.NewPlanner(50, "", rand.New(rand.NewSource(1))), fixedClock{now: now}, nil, log, nil)

	h := NewHandler(replier, store, scheduler, ready, log)
	return &testEnv{router: NewRouter(h, log), replier: replier, store: store, scheduler: scheduler}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// ==========================
// Reply Endpoint Tests
// ==========================

func TestGenerateReply_UsesStoredKey(t *testing.T) {
	env := newTestEnv(t, credentials.NewMemoryStore("sk-stored-1234"), nil)

	w := env.do(t, http.MethodPost, "/api/v1/replies", ReplyRequest{Message: "Do you ship to the UK?"})

	require.Equal(t, http.StatusOK, w.Code)
	var resp ReplyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Replies, 3)
	assert.Equal(t, "Yes, we ship to the UK!", resp.Replies[0])
	assert.True(t, resp.Candidates[0].IsExactMatch)
	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, resp.RequestID, w.Header().Get(requestIDHeader))

	assert.Equal(t, "Do you ship to the UK?", env.replier.gotMessage)
	assert.Equal(t, "sk-stored-1234", env.replier.gotKey)
}

func TestGenerateReply_ExplicitKeyAndRequestID(t *testing.T) {
	env := newTestEnv(t, credentials.NewMemoryStore(""), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/replies",
		bytes.NewBufferString(`{"message":"hi","apiKey":"sk-explicit"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(requestIDHeader, "req-42")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sk-explicit", env.replier.gotKey)
	assert.Equal(t, "req-42", w.Header().Get(requestIDHeader))
}

func TestGenerateReply_Errors(t *testing.T) {
	tests := []struct {
		name       string
		storedKey  string
		body       interface{}
		replierErr error
		wantStatus int
		wantCode   errors.ErrorCode
	}{
		{
			name:       "malformed body",
			storedKey:  "sk-1",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeInvalidInput,
		},
		{
			name:       "missing message",
			storedKey:  "sk-1",
			body:       map[string]string{"apiKey": "sk-1"},
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeInvalidInput,
		},
		{
			name:       "no key anywhere",
			body:       ReplyRequest{Message: "hello"},
			wantStatus: http.StatusUnauthorized,
			wantCode:   errors.ErrCodeCredentialInvalid,
		},
		{
			name:       "stored key rejected by provider",
			storedKey:  "sk-revoked",
			body:       ReplyRequest{Message: "hello"},
			replierErr: errors.NewCredentialError("invalid_api_key"),
			wantStatus: http.StatusUnauthorized,
			wantCode:   errors.ErrCodeCredentialInvalid,
		},
		{
			name:       "blank message rejected by pipeline",
			storedKey:  "sk-1",
			body:       ReplyRequest{Message: "   "},
			replierErr: errors.NewInvalidInputError("message must not be empty"),
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeInvalidInput,
		},
		{
			name:       "unexpected failure",
			storedKey:  "sk-1",
			body:       ReplyRequest{Message: "hello"},
			replierErr: stderrors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, credentials.NewMemoryStore(tt.storedKey), nil)
			env.replier.err = tt.replierErr

			w := env.do(t, http.MethodPost, "/api/v1/replies", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, string(tt.wantCode), decodeError(t, w).Error.Code)
		})
	}
}

// ==========================
// Credential Endpoint Tests
// ==========================

func TestCredentials_Lifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	store := credentials.NewRedisStore(rdb, "test:credentials")
	env := newTestEnv(t, store, nil)

	w := env.do(t, http.MethodGet, "/api/v1/credentials/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"configured":false}`, w.Body.String())

	w = env.do(t, http.MethodPut, "/api/v1/credentials", CredentialRequest{APIKey: "sk-proj-1234567890"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"configured":true,"masked":"sk-***********7890"}`, w.Body.String())

	stored, err := mr.Get("test:credentials")
	require.NoError(t, err)
	assert.Equal(t, "sk-proj-1234567890", stored)

	w = env.do(t, http.MethodDelete, "/api/v1/credentials", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.False(t, mr.Exists("test:credentials"))
}

func TestCredentials_SaveRejectsBlank(t *testing.T) {
	env := newTestEnv(t, credentials.NewMemoryStore(""), nil)

	w := env.do(t, http.MethodPost, "/api/v1/credentials", map[string]string{"apiKey": "   "})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, string(errors.ErrCodeInvalidInput), decodeError(t, w).Error.Code)
}

// ==========================
// Sale Endpoint Tests
// ==========================

func TestSales_TriggerAndLatest(t *testing.T) {
	env := newTestEnv(t, credentials.NewMemoryStore(""), nil)

	w := env.do(t, http.MethodGet, "/api/v1/sales/latest", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{}`, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/v1/sales/trigger", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var created SaleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotNil(t, created.Plan)
	assert.Equal(t, sale.TriggerManual, created.Plan.Trigger)
	assert.Equal(t, "2025-03-04", created.Plan.StartDate)
	assert.Equal(t, 50, created.Plan.Percentage)

	w = env.do(t, http.MethodGet, "/api/v1/sales/latest", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var latest SaleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &latest))
	require.NotNil(t, latest.Plan)
	assert.Equal(t, created.Plan.ID, latest.Plan.ID)
	assert.Equal(t, created.Plan.CouponCode, latest.Plan.CouponCode)
}

// ==========================
// Health Endpoint Tests
// ==========================

func TestHealthAndReady(t *testing.T) {
	env := newTestEnv(t, credentials.NewMemoryStore(""), func(context.Context) error { return nil })

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/ready", nil).Code)

	w := env.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestReady_DependencyDown(t *testing.T) {
	env := newTestEnv(t, credentials.NewMemoryStore(""), func(context.Context) error {
		return stderrors.New("redis: connection refused")
	})

	w := env.do(t, http.MethodGet, "/ready", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}
