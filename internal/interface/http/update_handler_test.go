package handlers

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/aurangzeb-bilal/update-username/internal/application"
	"github.com/aurangzeb-bilal/update-username/internal/domain/entity"
	repo "github.com/aurangzeb-bilal/update-username/internal/domain/repository"
	"github.com/aurangzeb-bilal/update-username/internal/infrastructure/introspection"
	"github.com/aurangzeb-bilal/update-username/internal/interface/middleware"
	"github.com/aurangzeb-bilal/update-username/pkg/validation"
)

type stubRepo struct {
	users map[string]*entity.User
}

func (s *stubRepo) FindByAttribute(ctx context.Context, attr, value string) (*entity.User, error) {
	switch attr {
	case repo.AttrID:
		return s.GetByID(ctx, value)
	case repo.AttrUsername:
		return s.GetByUsername(ctx, value)
	case repo.AttrEmail:
		return s.GetByEmail(ctx, value)
	}
	return nil, repo.ErrNotFound
}

func (s *stubRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repo.ErrNotFound
}

func (s *stubRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (s *stubRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (s *stubRepo) Create(_ context.Context, u *entity.User) error {
	s.users[u.ID] = u
	return nil
}

func (s *stubRepo) Update(_ context.Context, u *entity.User) error {
	if _, ok := s.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

type stubIntrospector struct {
	res *introspection.Result
}

func (s *stubIntrospector) Introspect(_ context.Context, _ string) (*introspection.Result, error) {
	return s.res, nil
}

func newTestRouter(t *testing.T, users ...*entity.User) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	r := &stubRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		cp := *u
		r.users[u.ID] = &cp
	}

	auth := application.NewAuthorizer(&stubIntrospector{res: &introspection.Result{
		Active: true,
		Scope:  "profile",
	}}, nil, application.ScopeAny, nil)

	svc := application.NewService(r, auth, nil, nil, nil, nil, "")
	h := NewUpdateHandler(svc)

	engine := gin.New()
	api := engine.Group("/api")
	api.Use(middleware.BearerToken())
	api.POST("/username", h.UpdateUsername)
	api.GET("/users/:id", h.GetUser)
	return engine
}

func doJSON(engine *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func carol() *entity.User {
	return &entity.User{
		ID:                "id-carol",
		Username:          "carol",
		Email:             "carol@example.com",
		PreferredLanguage: "pt",
	}
}

func TestUpdateUsernameEndpoint(t *testing.T) {
	engine := newTestRouter(t, carol())

	w := doJSON(engine, nethttp.MethodPost, "/api/username", "tok",
		`{"target_id":"id-carol","username":"caroline"}`)
	require.Equal(t, nethttp.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "id-carol", resp.Data.ID)
	require.Equal(t, "caroline", resp.Data.Username)
}

func TestUpdateUsernameEndpointMissingToken(t *testing.T) {
	engine := newTestRouter(t, carol())

	w := doJSON(engine, nethttp.MethodPost, "/api/username", "",
		`{"target_id":"id-carol","username":"caroline"}`)
	require.Equal(t, nethttp.StatusUnauthorized, w.Code)
}

func TestUpdateUsernameEndpointBadPayload(t *testing.T) {
	engine := newTestRouter(t, carol())

	// Digits are rejected at binding time.
	w := doJSON(engine, nethttp.MethodPost, "/api/username", "tok",
		`{"target_id":"id-carol","username":"caroline7"}`)
	require.Equal(t, nethttp.StatusBadRequest, w.Code)

	w = doJSON(engine, nethttp.MethodPost, "/api/username", "tok", `{"username":"caroline"}`)
	require.Equal(t, nethttp.StatusBadRequest, w.Code)

	w = doJSON(engine, nethttp.MethodPost, "/api/username", "tok", `not json`)
	require.Equal(t, nethttp.StatusBadRequest, w.Code)
}

func TestUpdateUsernameEndpointNotFound(t *testing.T) {
	engine := newTestRouter(t, carol())

	w := doJSON(engine, nethttp.MethodPost, "/api/username", "tok",
		`{"target_id":"missing","username":"caroline"}`)
	require.Equal(t, nethttp.StatusNotFound, w.Code)
}

func TestUpdateUsernameEndpointConflict(t *testing.T) {
	dave := &entity.User{ID: "id-dave", Username: "dave"}
	engine := newTestRouter(t, carol(), dave)

	w := doJSON(engine, nethttp.MethodPost, "/api/username", "tok",
		`{"target_id":"id-carol","username":"dave"}`)
	require.Equal(t, nethttp.StatusConflict, w.Code)
}

func TestUpdateUsernameEndpointIgnoresProtectedFields(t *testing.T) {
	engine := newTestRouter(t, carol())

	w := doJSON(engine, nethttp.MethodPost, "/api/username", "tok",
		`{"target_id":"id-carol","username":"caroline","email":"evil@example.com","preferred_language":"xx"}`)
	require.Equal(t, nethttp.StatusOK, w.Code)

	w = doJSON(engine, nethttp.MethodGet, "/api/users/id-carol", "tok", "")
	require.Equal(t, nethttp.StatusOK, w.Code)

	var resp struct {
		Data userProfileResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "caroline", resp.Data.Username)
	require.Equal(t, "carol@example.com", resp.Data.Email)
	require.Equal(t, "pt", resp.Data.PreferredLanguage)
}

func TestGetUserEndpointNotFound(t *testing.T) {
	engine := newTestRouter(t)

	w := doJSON(engine, nethttp.MethodGet, "/api/users/ghost", "tok", "")
	require.Equal(t, nethttp.StatusNotFound, w.Code)
}

func TestGetUserEndpointMissingToken(t *testing.T) {
	engine := newTestRouter(t, carol())

	w := doJSON(engine, nethttp.MethodGet, "/api/users/id-carol", "", "")
	require.Equal(t, nethttp.StatusUnauthorized, w.Code)
	require.NotContains(t, w.Body.String(), "carol@example.com")
}
