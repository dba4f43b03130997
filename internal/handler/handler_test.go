package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"clearview/internal/auth"
	"clearview/internal/cache"
	"clearview/internal/config"
	"clearview/internal/domain"
	"clearview/internal/domain/models"
	"clearview/internal/handler"
	"clearview/internal/middleware"
	"clearview/internal/permissions"
	"clearview/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *domain.Failure `json:"error"`
}

type apiItem struct {
	ID        string `json:"id"`
	Order     int    `json:"order"`
	Question  string `json:"question"`
	IsActive  bool   `json:"is_active"`
	IsDeleted bool   `json:"is_deleted"`
}

type server struct {
	t        *testing.T
	handler  http.Handler
	cache    *cache.CollectionCache
	verifier *auth.SecretVerifier
}

func newServer(t *testing.T) *server {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	collectionCache := cache.New(4, time.Minute)
	st, err := store.Open(ctx, store.Options{
		Driver:      config.StoreDriverSQLite,
		SQLitePath:  filepath.Join(t.TempDir(), "handler.db"),
		TablePrefix: "test_",
		Revalidator: collectionCache,
		Logger:      logger,
	})
	require.NoError(t, err)
	t.Cleanup(st.Close)
	require.NoError(t, st.Migrate(ctx))

	perms, err := permissions.NewRegistry()
	require.NoError(t, err)
	verifier, err := auth.NewSecretVerifier(testSecret, logger)
	require.NoError(t, err)

	h := handler.NewRouter(handler.RouterConfig{
		Collections: st.Collections,
		Records:     st.Records,
		Permissions: perms,
		Cache:       collectionCache,
		Verifier:    verifier,
		Limiter:     middleware.NewRateLimiter(1000, 1000),
		Health:      st,
		CSRFEnabled: true,
		Logger:      logger,
	})
	return &server{t: t, handler: h, cache: collectionCache, verifier: verifier}
}

func (s *server) token(role string) string {
	s.t.Helper()
	token, err := s.verifier.SignDevToken(&models.AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin-" + role,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role:        "authenticated",
		AppMetadata: map[string]any{"admin_role": role},
	})
	require.NoError(s.t, err)
	return token
}

// do sends a request as role ("" for anonymous) with a valid CSRF pair
func (s *server) do(role, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+s.token(role))
	}
	req.AddCookie(&http.Cookie{Name: middleware.CSRFCookieName, Value: "csrf-1"})
	req.Header.Set(middleware.CSRFHeaderName, "csrf-1")

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func (s *server) appendFAQ(question string) apiItem {
	s.t.Helper()
	rec, env := s.do("editor", http.MethodPost, "/api/admin/content/faqs",
		map[string]string{"question": question, "answer": "Yes."})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[apiItem](s.t, env.Data)
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	rec, _ := s.do("", http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	s := newServer(t)
	rec, env := s.do("", http.MethodGet, "/api/admin/content/faqs", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, domain.KindUnauthorized, env.Error.Kind)
}

func TestMutationsRequireCSRF(t *testing.T) {
	s := newServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/content/faqs",
		bytes.NewReader([]byte(`{"question":"q","answer":"a"}`)))
	req.Header.Set("Authorization", "Bearer "+s.token("editor"))

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAppendAssignsNextOrder(t *testing.T) {
	s := newServer(t)
	first := s.appendFAQ("Do you take walk-ins?")
	second := s.appendFAQ("Do you bill insurance?")

	assert.Equal(t, 0, first.Order)
	assert.Equal(t, 1, second.Order)
	assert.NotEmpty(t, second.ID)
}

func TestAppendValidationError(t *testing.T) {
	s := newServer(t)
	rec, env := s.do("editor", http.MethodPost, "/api/admin/content/faqs",
		map[string]string{"question": "   ", "answer": "a"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, domain.KindValidation, env.Error.Kind)
}

func TestUnknownCollection(t *testing.T) {
	s := newServer(t)
	rec, env := s.do("owner", http.MethodGet, "/api/admin/content/blog-posts", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, domain.KindNotFound, env.Error.Kind)
}

func TestPublicListIsRevalidatedAfterMutation(t *testing.T) {
	s := newServer(t)
	s.appendFAQ("Q1")

	rec, env := s.do("", http.MethodGet, "/api/content/faqs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]apiItem](t, env.Data), 1)
	_, cached := s.cache.Get("faqs")
	assert.True(t, cached, "public list should be cached")

	s.appendFAQ("Q2")
	_, cached = s.cache.Get("faqs")
	assert.False(t, cached, "append should revalidate the cached list")

	_, env = s.do("", http.MethodGet, "/api/content/faqs", nil)
	assert.Len(t, decode[[]apiItem](t, env.Data), 2)
}

func TestReorderEndpoint(t *testing.T) {
	s := newServer(t)
	a, b, c := s.appendFAQ("A"), s.appendFAQ("B"), s.appendFAQ("C")

	rec, env := s.do("editor", http.MethodPut, "/api/admin/content/faqs/order",
		map[string]any{"ids": []string{c.ID, a.ID, b.ID}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	items := decode[[]apiItem](t, env.Data)
	require.Len(t, items, 3)
	assert.Equal(t, []string{c.ID, a.ID, b.ID}, []string{items[0].ID, items[1].ID, items[2].ID})
	for i, item := range items {
		assert.Equal(t, i, item.Order)
	}
	assert.NotEmpty(t, rec.Header().Get("ETag"))

	t.Run("partial list", func(t *testing.T) {
		rec, env := s.do("editor", http.MethodPut, "/api/admin/content/faqs/order",
			map[string]any{"ids": []string{a.ID, b.ID}})
		assert.Equal(t, http.StatusConflict, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, domain.KindInvariantViolation, env.Error.Kind)
	})

	t.Run("stale etag", func(t *testing.T) {
		rec, env := s.do("editor", http.MethodPut, "/api/admin/content/faqs/order",
			map[string]any{"ids": []string{a.ID, b.ID, c.ID}, "etag": "0000000000000000"})
		assert.Equal(t, http.StatusConflict, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, domain.KindConflict, env.Error.Kind)
	})
}

func TestRemoveEndpointRenumbers(t *testing.T) {
	s := newServer(t)
	a := s.appendFAQ("A")
	b := s.appendFAQ("B")
	s.appendFAQ("C")

	rec, env := s.do("editor", http.MethodDelete, "/api/admin/content/faqs/"+b.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	items := decode[[]apiItem](t, env.Data)
	require.Len(t, items, 2)
	assert.Equal(t, a.ID, items[0].ID)
	assert.Equal(t, 1, items[1].Order)
}

func TestViewerCannotMutate(t *testing.T) {
	s := newServer(t)
	rec, env := s.do("viewer", http.MethodPost, "/api/admin/content/faqs",
		map[string]string{"question": "q", "answer": "a"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, domain.KindForbidden, env.Error.Kind)

	rec, _ = s.do("viewer", http.MethodGet, "/api/admin/content/faqs", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTestimonialLifecycleEndpoints(t *testing.T) {
	s := newServer(t)

	rec, env := s.do("editor", http.MethodPost, "/api/admin/records/testimonials",
		map[string]any{"author_name": "Dana", "content": "Great frames", "rating": 5})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[apiItem](t, env.Data)
	base := "/api/admin/records/testimonials/" + created.ID

	_, env = s.do("", http.MethodGet, "/api/testimonials", nil)
	assert.Len(t, decode[[]apiItem](t, env.Data), 1)

	rec, env = s.do("editor", http.MethodDelete, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	deleted := decode[apiItem](t, env.Data)
	assert.True(t, deleted.IsDeleted)
	assert.False(t, deleted.IsActive)

	_, env = s.do("", http.MethodGet, "/api/testimonials", nil)
	assert.Empty(t, decode[[]apiItem](t, env.Data))

	rec, env = s.do("editor", http.MethodPut, base+"/active", map[string]bool{"active": true})
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, domain.KindInvariantViolation, env.Error.Kind)

	rec, env = s.do("editor", http.MethodPost, base+"/restore", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	restored := decode[apiItem](t, env.Data)
	assert.False(t, restored.IsDeleted)
	assert.False(t, restored.IsActive, "restore must not reactivate")

	rec, _ = s.do("editor", http.MethodPut, base+"/active", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = s.do("editor", http.MethodPut, base+"/active", map[string]bool{"active": true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[apiItem](t, env.Data).IsActive)

	_, env = s.do("", http.MethodGet, "/api/testimonials", nil)
	assert.Len(t, decode[[]apiItem](t, env.Data), 1)
}

func TestPermanentDeleteNeedsPurgeGrant(t *testing.T) {
	s := newServer(t)
	rec, env := s.do("front-desk", http.MethodPost, "/api/admin/records/customers",
		map[string]any{"name": "Ari Lens", "email": "ari@example.com"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	path := "/api/admin/records/customers/" + decode[apiItem](t, env.Data).ID

	rec, _ = s.do("front-desk", http.MethodDelete, path+"/permanent", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do("owner", http.MethodDelete, path+"/permanent", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do("owner", http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, domain.KindNotFound, env.Error.Kind)
}

func TestListRecordsRejectsUnknownState(t *testing.T) {
	s := newServer(t)
	rec, _ := s.do("owner", http.MethodGet, "/api/admin/records/customers?state=archived", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWarmCacheLoadsPublicLists(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := cache.New(4, time.Minute)

	st, err := store.Open(ctx, store.Options{
		Driver:      config.StoreDriverSQLite,
		SQLitePath:  filepath.Join(t.TempDir(), "warm.db"),
		TablePrefix: "test_",
		Revalidator: c,
		Logger:      logger,
	})
	require.NoError(t, err)
	defer st.Close()
	require.NoError(t, st.Migrate(ctx))

	require.NoError(t, handler.WarmCache(ctx, c, st.Collections, st.Records))
	assert.Equal(t, 5, c.Len())
	for _, key := range []string{"faqs", "about-sections", "home-values", "services", "testimonials"} {
		_, ok := c.Get(key)
		assert.True(t, ok, key)
	}
}
