package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cookbook-service/internal/audit"
	"cookbook-service/internal/auth"
	"cookbook-service/internal/config"
	"cookbook-service/internal/domain/recipe"
	"cookbook-service/internal/domain/user"
	"cookbook-service/pkg/password"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCookieName = "cookbook_session"
	testSecret     = "k3J9x!vQ2m@Lp7Zr#T5wYc8Nd1Fh4Bs6"
	testPassword   = "correct-horse-battery"
)

type testEnv struct {
	srv     *Server
	users   *memUsers
	recipes *memRecipes
	lists   *memLists
	assets  *memAssets
	audit   *memAudit
}

type envOption func(*config.Config, *ServerDependencies)

// withPhotos backs photo uploads with a presigning S3 client whose deletes
// are recorded instead of sent.
func withPhotos(photos *memPhotos) envOption {
	return func(_ *config.Config, deps *ServerDependencies) {
		deps.Photos = photos
	}
}

func withBearerTransport() envOption {
	return func(cfg *config.Config, _ *ServerDependencies) {
		cfg.Session.Transport = config.TransportBearer
	}
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Server:  config.ServerConfig{Environment: config.EnvTest},
		Session: config.SessionConfig{CookieName: testCookieName, Transport: config.TransportCookie},
	}

	codec, err := auth.NewTokenCodec(testSecret, auth.SessionLifetime)
	require.NoError(t, err)

	hasher, err := password.NewHasher(password.MinCost)
	require.NoError(t, err)

	recipes := newMemRecipes()
	users := newMemUsers(recipes)
	lists := newMemLists()
	assets := &memAssets{}
	events := &memAudit{events: make(chan audit.Event, 64)}

	deps := &ServerDependencies{
		Config:        cfg,
		Logger:        zerolog.Nop(),
		Users:         users,
		Recipes:       recipes,
		ShoppingLists: lists,
		Assets:        assets,
		Hasher:        hasher,
		Authenticator: auth.NewAuthenticator(codec, users, testCookieName),
		Sessions:      auth.NewSessionIssuer(codec, testCookieName, auth.CookiePolicyFor(cfg.Server.Environment)),
		Audit:         audit.NewRecorder(events, zerolog.Nop()),
	}
	for _, opt := range opts {
		opt(cfg, deps)
	}
	srv := NewServer(deps)

	return &testEnv{srv: srv, users: users, recipes: recipes, lists: lists, assets: assets, audit: events}
}

type call struct {
	method string
	path   string
	body   any
	cookie *http.Cookie
	header map[string]string
}

func (e *testEnv) do(t *testing.T, c call) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if c.body != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(c.body))
	}

	req := httptest.NewRequest(c.method, c.path, &body)
	if c.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	for k, v := range c.header {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookieName {
			return c
		}
	}
	return nil
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// register creates an account through the API and returns its id and
// session cookie.
func (e *testEnv) register(t *testing.T, email string) (uuid.UUID, *http.Cookie) {
	t.Helper()

	rec := e.do(t, call{method: http.MethodPost, path: "/api/v2/auth/register", body: map[string]string{
		"name": "Cook", "email": email, "password": testPassword,
	}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	msg := decode(t, rec)["message"].(string)
	require.True(t, strings.HasPrefix(msg, "New user inserted: "))
	id, err := uuid.Parse(strings.TrimPrefix(msg, "New user inserted: "))
	require.NoError(t, err)

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	return id, cookie
}

func (e *testEnv) createRecipe(t *testing.T, cookie *http.Cookie, title string) uuid.UUID {
	t.Helper()

	rec := e.do(t, call{method: http.MethodPost, path: "/api/v2/recipes", cookie: cookie, body: map[string]any{
		"title": title, "mainIngredient": "eggs", "servings": 2,
	}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	id, err := uuid.Parse(decode(t, rec)["doc"].(string))
	require.NoError(t, err)
	return id
}

func TestRegisterLoginAndResolveSession(t *testing.T) {
	env := newTestEnv(t)
	id, _ := env.register(t, "Ana@Example.com")

	before := time.Now()
	rec := env.do(t, call{method: http.MethodPost, path: "/api/v2/auth/login", body: map[string]string{
		"email": "ana@example.com", "password": testPassword,
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Success", decode(t, rec)["message"])
	assert.Nil(t, decode(t, rec)["token"], "cookie transport keeps the token out of the body")

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, int(auth.SessionLifetime.Seconds()), cookie.MaxAge)
	assert.WithinDuration(t, before.Add(7*24*time.Hour), cookie.Expires, 5*time.Second)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	rec = env.do(t, call{method: http.MethodGet, path: "/api/v2/users/me", cookie: cookie})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, id.String(), data["_id"])
	assert.Equal(t, "ana@example.com", data["email"])

	rec = env.do(t, call{method: http.MethodGet, path: "/api/v2/auth/session", cookie: cookie})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["authenticated"])
	assert.Equal(t, id.String(), body["user"].(map[string]any)["_id"])
}

func TestRegister_DuplicateEmailIsBadRequest(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "dup@example.com")

	rec := env.do(t, call{method: http.MethodPost, path: "/api/v2/auth/register", body: map[string]string{
		"email": "DUP@example.com", "password": testPassword,
	}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "This email is already associated with an account.", decode(t, rec)["message"])
}

func TestRegister_MissingCredentials(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, call{method: http.MethodPost, path: "/api/v2/auth/register", body: map[string]string{"email": "x@example.com"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please provide an email address and/or password.", decode(t, rec)["message"])
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "bo@example.com")

	wrong := env.do(t, call{method: http.MethodPost, path: "/api/v2/auth/login", body: map[string]string{
		"email": "bo@example.com", "password": "not-the-password",
	}})
	unknown := env.do(t, call{method: http.MethodPost, path: "/api/v2/auth/login", body: map[string]string{
		"email": "nobody@example.com", "password": "not-the-password",
	}})

	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, decode(t, wrong)["message"], decode(t, unknown)["message"])
	assert.Nil(t, sessionCookie(wrong))
}

func TestAuthEventsAreAudited(t *testing.T) {
	env := newTestEnv(t)
	id, _ := env.register(t, "cy@example.com")

	registered := env.audit.find(t, audit.ActionRegister, audit.StatusSuccess, "")
	require.NotNil(t, registered.ActorID)
	assert.Equal(t, id, *registered.ActorID)
	assert.NotEmpty(t, registered.RequestID)

	env.do(t, call{method: http.MethodPost, path: "/api/v2/auth/login", body: map[string]string{
		"email": "cy@example.com", "password": "not-the-password",
	}})
	failed := env.audit.find(t, audit.ActionLogin, audit.StatusFailure, "wrong_password")
	require.NotNil(t, failed.ActorID)
	assert.Equal(t, id, *failed.ActorID)

	env.do(t, call{method: http.MethodPost, path: "/api/v2/auth/login", body: map[string]string{
		"email": "nobody@example.com", "password": "not-the-password",
	}})
	unknown := env.audit.find(t, audit.ActionLogin, audit.StatusFailure, "unknown_email")
	assert.Nil(t, unknown.ActorID)
}

func TestLogout_ClearsCookie(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, call{method: http.MethodGet, path: "/api/v2/auth/logout"})
	require.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.True(t, cookie.MaxAge < 0)
}

func TestProtectedRoute_RejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		c    call
	}{
		{"no credential", call{}},
		{"basic scheme", call{header: map[string]string{"Authorization": "Basic xyz"}}},
		{"garbage cookie", call{cookie: &http.Cookie{Name: testCookieName, Value: "garbage"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.c.method = http.MethodGet
			tt.c.path = "/api/v2/users/me"
			rec := env.do(t, tt.c)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, "Unauthorized", body["message"])
			assert.NotEmpty(t, body["request_id"])
		})
	}
}

func TestBearerTransport_ProtectedRoute(t *testing.T) {
	env := newTestEnv(t, withBearerTransport())

	rec := env.do(t, call{method: http.MethodPost, path: "/api/v2/auth/register", body: map[string]string{
		"name": "Cook", "email": "dee@example.com", "password": testPassword,
	}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	token, _ := decode(t, rec)["token"].(string)
	require.NotEmpty(t, token)
	cookie := sessionCookie(rec)

	rec = env.do(t, call{method: http.MethodGet, path: "/api/v2/users/me", header: map[string]string{"Authorization": "Bearer " + token}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "dee@example.com", decode(t, rec)["data"].(map[string]any)["email"])

	tests := []struct {
		name string
		c    call
	}{
		{"basic scheme", call{header: map[string]string{"Authorization": "Basic xyz"}}},
		{"lowercase scheme", call{header: map[string]string{"Authorization": "bearer " + token}}},
		{"extra field", call{header: map[string]string{"Authorization": "Bearer " + token + " extra"}}},
		{"tampered token", call{header: map[string]string{"Authorization": "Bearer " + token + "x"}}},
		{"cookie only", call{cookie: cookie}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.c.method = http.MethodGet
			tt.c.path = "/api/v2/users/me"
			rec := env.do(t, tt.c)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Unauthorized", decode(t, rec)["message"])
		})
	}
}

func TestDeletedUser_TokenStopsResolving(t *testing.T) {
	env := newTestEnv(t)
	id, cookie := env.register(t, "gone@example.com")

	require.NoError(t, env.users.Delete(context.Background(), id))

	rec := env.do(t, call{method: http.MethodGet, path: "/api/v2/users/me", cookie: cookie})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeleteMe(t *testing.T) {
	env := newTestEnv(t)
	_, cookie := env.register(t, "leaving@example.com")

	rec := env.do(t, call{method: http.MethodDelete, path: "/api/v2/users/me", cookie: cookie})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, sessionCookie(rec).Value)

	rec = env.do(t, call{method: http.MethodGet, path: "/api/v2/users/me", cookie: cookie})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPatchOthersRecipe_ForbiddenAndUnchanged(t *testing.T) {
	env := newTestEnv(t)
	_, alice := env.register(t, "alice@example.com")
	_, bob := env.register(t, "bob@example.com")

	recipeID := env.createRecipe(t, bob, "Bob's Bread")

	rec := env.do(t, call{method: http.MethodPatch, path: "/api/v2/recipes/" + recipeID.String(), cookie: alice,
		body: map[string]string{"title": "Stolen"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Forbidden", decode(t, rec)["message"])

	stored, err := env.recipes.GetByID(context.Background(), recipeID)
	require.NoError(t, err)
	assert.Equal(t, "Bob's Bread", stored.Title)

	for _, c := range []call{
		{method: http.MethodPatch, path: "/api/v2/recipes/publish/" + recipeID.String(), cookie: alice},
		{method: http.MethodDelete, path: "/api/v2/recipes/" + recipeID.String(), cookie: alice},
	} {
		assert.Equal(t, http.StatusForbidden, env.do(t, c).Code, c.path)
	}

	_, err = env.recipes.GetByID(context.Background(), recipeID)
	assert.NoError(t, err)
}

func TestOwnerCanEditPublishAndDelete(t *testing.T) {
	env := newTestEnv(t)
	_, alice := env.register(t, "alice@example.com")
	recipeID := env.createRecipe(t, alice, "Shakshuka")
	path := "/api/v2/recipes/" + recipeID.String()

	rec := env.do(t, call{method: http.MethodPatch, path: path, cookie: alice, body: map[string]string{"title": "Green Shakshuka"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, recipeID.String(), decode(t, rec)["doc"])

	rec = env.do(t, call{method: http.MethodPatch, path: "/api/v2/recipes/publish/" + recipeID.String(), cookie: alice})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["public"])

	rec = env.do(t, call{method: http.MethodDelete, path: path, cookie: alice})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Success", decode(t, rec)["message"])
}

func TestMissingRecipe_NotFoundBeforeOwnership(t *testing.T) {
	env := newTestEnv(t)
	_, alice := env.register(t, "alice@example.com")

	missing := uuid.New().String()
	rec := env.do(t, call{method: http.MethodPatch, path: "/api/v2/recipes/" + missing, cookie: alice,
		body: map[string]string{"title": "x"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode(t, rec)["message"], missing)

	rec = env.do(t, call{method: http.MethodGet, path: "/api/v2/recipes/not-a-uuid"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetRecipe_PrivateOnlyForOwner(t *testing.T) {
	env := newTestEnv(t)
	_, alice := env.register(t, "alice@example.com")
	_, bob := env.register(t, "bob@example.com")
	recipeID := env.createRecipe(t, alice, "Secret Sauce")
	path := "/api/v2/recipes/" + recipeID.String()

	assert.Equal(t, http.StatusOK, env.do(t, call{method: http.MethodGet, path: path, cookie: alice}).Code)
	assert.Equal(t, http.StatusForbidden, env.do(t, call{method: http.MethodGet, path: path, cookie: bob}).Code)
	assert.Equal(t, http.StatusForbidden, env.do(t, call{method: http.MethodGet, path: path}).Code)

	require.NoError(t, env.recipes.SetPublic(context.Background(), recipeID, true))
	assert.Equal(t, http.StatusOK, env.do(t, call{method: http.MethodGet, path: path}).Code)
}

func TestOptionalAuth_NeverRejects(t *testing.T) {
	env := newTestEnv(t)
	_, alice := env.register(t, "alice@example.com")
	_, bob := env.register(t, "bob@example.com")

	mine := env.createRecipe(t, alice, "Mine")
	theirs := env.createRecipe(t, bob, "Theirs")
	require.NoError(t, env.recipes.SetPublic(context.Background(), mine, true))
	require.NoError(t, env.recipes.SetPublic(context.Background(), theirs, true))

	for _, c := range []call{
		{},
		{cookie: &http.Cookie{Name: testCookieName, Value: "garbage"}},
		{header: map[string]string{"Authorization": "Basic xyz"}},
	} {
		c.method = http.MethodGet
		c.path = "/api/v2/recipes/latest"
		rec := env.do(t, c)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode(t, rec)["docs"], 2)
	}

	rec := env.do(t, call{method: http.MethodGet, path: "/api/v2/recipes/latest", cookie: alice})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, float64(1), body["page"])
	assert.Equal(t, float64(1), body["pages"])
	docs := body["docs"].([]any)
	require.Len(t, docs, 1)
	assert.Equal(t, theirs.String(), docs[0].(map[string]any)["_id"])
}

func TestListRecipes_AdminSeesAll(t *testing.T) {
	env := newTestEnv(t)
	adminID, admin := env.register(t, "admin@example.com")
	_, alice := env.register(t, "alice@example.com")
	env.users.setRole(adminID, user.RoleAdmin)

	env.createRecipe(t, alice, "Private")
	public := env.createRecipe(t, alice, "Public")
	require.NoError(t, env.recipes.SetPublic(context.Background(), public, true))

	rec := env.do(t, call{method: http.MethodGet, path: "/api/v2/recipes"})
	assert.Equal(t, float64(1), decode(t, rec)["count"])

	rec = env.do(t, call{method: http.MethodGet, path: "/api/v2/recipes", cookie: admin})
	assert.Equal(t, float64(2), decode(t, rec)["count"])
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t)
	_, alice := env.register(t, "alice@example.com")
	id := env.createRecipe(t, alice, "Pasta Puttanesca")
	env.createRecipe(t, alice, "Private Pasta")
	require.NoError(t, env.recipes.SetPublic(context.Background(), id, true))

	rec := env.do(t, call{method: http.MethodGet, path: "/api/v2/recipes/search?q=PASTA"})
	require.Equal(t, http.StatusOK, rec.Code)
	var docs []recipe.Recipe
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, id, docs[0].ID)

	rec = env.do(t, call{method: http.MethodGet, path: "/api/v2/recipes/search"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRecipe_Validation(t *testing.T) {
	env := newTestEnv(t)
	_, alice := env.register(t, "alice@example.com")

	rec := env.do(t, call{method: http.MethodPost, path: "/api/v2/recipes", cookie: alice, body: map[string]any{"servings": 2}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["message"], "title")

	rec = env.do(t, call{method: http.MethodPost, path: "/api/v2/recipes", cookie: alice, body: map[string]any{
		"title": "x", "mainIngredient": "y", "unknown": true,
	}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPhotoUpload_UnavailableWithoutBucket(t *testing.T) {
	env := newTestEnv(t)
	_, alice := env.register(t, "alice@example.com")
	id := env.createRecipe(t, alice, "Pie")

	rec := env.do(t, call{method: http.MethodPost, path: "/api/v2/recipes/" + id.String() + "/photo", cookie: alice,
		body: map[string]string{"contentType": "image/png"}})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func (e *testEnv) uploadPhoto(t *testing.T, cookie *http.Cookie, id uuid.UUID) map[string]any {
	t.Helper()

	rec := e.do(t, call{method: http.MethodPost, path: "/api/v2/recipes/" + id.String() + "/photo", cookie: cookie,
		body: map[string]string{"contentType": "image/png"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode(t, rec)
}

func TestPhotoUpload_PresignsAndStoresURL(t *testing.T) {
	photos := newMemPhotos(t)
	env := newTestEnv(t, withPhotos(photos))
	_, alice := env.register(t, "alice@example.com")
	id := env.createRecipe(t, alice, "Pie")

	upload := env.uploadPhoto(t, alice, id)
	assert.Contains(t, upload["uploadUrl"], "X-Amz-Signature")
	assert.True(t, strings.HasPrefix(upload["key"].(string), "recipes/"+id.String()+"/"))

	stored, err := env.recipes.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, upload["photo"], stored.Photo)
	assert.Empty(t, photos.deletedKeys(), "first upload has nothing to replace")

	rec := env.do(t, call{method: http.MethodPost, path: "/api/v2/recipes/" + id.String() + "/photo", cookie: alice,
		body: map[string]string{"contentType": "text/html"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPhotoUpload_ReplacingAndDeletingRemovesOldObject(t *testing.T) {
	photos := newMemPhotos(t)
	env := newTestEnv(t, withPhotos(photos))
	_, alice := env.register(t, "alice@example.com")
	id := env.createRecipe(t, alice, "Pie")

	first := env.uploadPhoto(t, alice, id)
	second := env.uploadPhoto(t, alice, id)
	assert.Equal(t, []string{first["key"].(string)}, photos.deletedKeys())

	rec := env.do(t, call{method: http.MethodDelete, path: "/api/v2/recipes/" + id.String(), cookie: alice})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{first["key"].(string), second["key"].(string)}, photos.deletedKeys())
}

func TestPhotoUpload_OnlyOwnerMayUpload(t *testing.T) {
	photos := newMemPhotos(t)
	env := newTestEnv(t, withPhotos(photos))
	_, alice := env.register(t, "alice@example.com")
	_, bob := env.register(t, "bob@example.com")
	id := env.createRecipe(t, alice, "Pie")

	rec := env.do(t, call{method: http.MethodPost, path: "/api/v2/recipes/" + id.String() + "/photo", cookie: bob,
		body: map[string]string{"contentType": "image/png"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRecipePhotoField_NotWritableByClients(t *testing.T) {
	photos := newMemPhotos(t)
	env := newTestEnv(t, withPhotos(photos))
	_, bob := env.register(t, "bob@example.com")
	_, mallory := env.register(t, "mallory@example.com")

	bobRecipe := env.createRecipe(t, bob, "Bob's bread")
	bobPhoto := env.uploadPhoto(t, bob, bobRecipe)["photo"].(string)

	rec := env.do(t, call{method: http.MethodPost, path: "/api/v2/recipes", cookie: mallory, body: map[string]any{
		"title": "Copycat", "mainIngredient": "flour", "photo": bobPhoto,
	}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	own := env.createRecipe(t, mallory, "Mallory's bread")
	rec = env.do(t, call{method: http.MethodPatch, path: "/api/v2/recipes/" + own.String(), cookie: mallory,
		body: map[string]any{"photo": bobPhoto}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	stored, err := env.recipes.GetByID(context.Background(), own)
	require.NoError(t, err)
	assert.Empty(t, stored.Photo)
}

func TestDeleteRecipe_NeverRemovesAnotherRecipesPhoto(t *testing.T) {
	photos := newMemPhotos(t)
	env := newTestEnv(t, withPhotos(photos))
	_, bob := env.register(t, "bob@example.com")
	_, mallory := env.register(t, "mallory@example.com")

	bobRecipe := env.createRecipe(t, bob, "Bob's bread")
	bobPhoto := env.uploadPhoto(t, bob, bobRecipe)["photo"].(string)

	// A row pointing at a photo of a different recipe, however it got there.
	own := env.createRecipe(t, mallory, "Mallory's bread")
	_, err := env.recipes.Update(context.Background(), own, recipe.UpdateRecipeInput{Photo: &bobPhoto})
	require.NoError(t, err)

	rec := env.do(t, call{method: http.MethodDelete, path: "/api/v2/recipes/" + own.String(), cookie: mallory})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, photos.deletedKeys())
}

func TestDeleteMe_RemovesRecipePhotos(t *testing.T) {
	photos := newMemPhotos(t)
	env := newTestEnv(t, withPhotos(photos))
	_, alice := env.register(t, "alice@example.com")
	_, bob := env.register(t, "bob@example.com")

	pie := env.createRecipe(t, alice, "Pie")
	env.createRecipe(t, alice, "Soup")
	pieKey := env.uploadPhoto(t, alice, pie)["key"].(string)

	bread := env.createRecipe(t, bob, "Bread")
	env.uploadPhoto(t, bob, bread)

	rec := env.do(t, call{method: http.MethodDelete, path: "/api/v2/users/me", cookie: alice})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{pieKey}, photos.deletedKeys())
}

func TestPhotoUpload_ThrottledPerUser(t *testing.T) {
	photos := newMemPhotos(t)
	env := newTestEnv(t, withPhotos(photos))
	_, alice := env.register(t, "alice@example.com")
	_, bob := env.register(t, "bob@example.com")
	pie := env.createRecipe(t, alice, "Pie")
	bread := env.createRecipe(t, bob, "Bread")

	throttled := false
	for i := 0; i < 10 && !throttled; i++ {
		rec := env.do(t, call{method: http.MethodPost, path: "/api/v2/recipes/" + pie.String() + "/photo", cookie: alice,
			body: map[string]string{"contentType": "image/png"}})
		throttled = rec.Code == http.StatusTooManyRequests
	}
	require.True(t, throttled, "alice was never throttled")

	// Same client address, different user.
	env.uploadPhoto(t, bob, bread)
}

func TestFavorites_Toggle(t *testing.T) {
	env := newTestEnv(t)
	_, alice := env.register(t, "alice@example.com")
	_, bob := env.register(t, "bob@example.com")

	private := env.createRecipe(t, bob, "Private")
	public := env.createRecipe(t, bob, "Public")
	require.NoError(t, env.recipes.SetPublic(context.Background(), public, true))

	toggle := func(id string) *httptest.ResponseRecorder {
		return env.do(t, call{method: http.MethodPost, path: "/api/v2/users/me/favorites", cookie: alice,
			body: map[string]string{"recipe": id}})
	}

	rec := toggle(public.String())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, decode(t, rec)["data"].(map[string]any)["favorite"])

	rec = env.do(t, call{method: http.MethodGet, path: "/api/v2/users/me/favorites", cookie: alice})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["data"].(map[string]any)["docs"], 1)

	rec = toggle(public.String())
	assert.Equal(t, false, decode(t, rec)["data"].(map[string]any)["favorite"])

	assert.Equal(t, http.StatusForbidden, toggle(private.String()).Code)
	assert.Equal(t, http.StatusNotFound, toggle(uuid.NewString()).Code)
}

func TestShoppingLists_Ownership(t *testing.T) {
	env := newTestEnv(t)
	_, alice := env.register(t, "alice@example.com")
	_, bob := env.register(t, "bob@example.com")

	rec := env.do(t, call{method: http.MethodPost, path: "/api/v2/users/me/shopping-lists", cookie: alice,
		body: map[string]any{"items": []map[string]any{{"name": "flour"}, {"name": "  "}}}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	doc := decode(t, rec)["doc"].(map[string]any)
	assert.Len(t, doc["items"], 1)
	path := "/api/v2/users/me/shopping-lists/" + doc["_id"].(string)

	update := map[string]any{"items": []map[string]any{{"name": "sugar", "checked": true}}}
	assert.Equal(t, http.StatusForbidden, env.do(t, call{method: http.MethodPatch, path: path, cookie: bob, body: update}).Code)
	assert.Equal(t, http.StatusOK, env.do(t, call{method: http.MethodPatch, path: path, cookie: alice, body: update}).Code)

	rec = env.do(t, call{method: http.MethodGet, path: "/api/v2/users/me/shopping-lists", cookie: bob})
	assert.Empty(t, decode(t, rec)["data"].(map[string]any)["docs"])

	assert.Equal(t, http.StatusForbidden, env.do(t, call{method: http.MethodDelete, path: path, cookie: bob}).Code)
	assert.Equal(t, http.StatusOK, env.do(t, call{method: http.MethodDelete, path: path, cookie: alice}).Code)
}

func TestProfileAndLookupEmail(t *testing.T) {
	env := newTestEnv(t)
	id, alice := env.register(t, "alice@example.com")
	public := env.createRecipe(t, alice, "Public")
	env.createRecipe(t, alice, "Private")
	require.NoError(t, env.recipes.SetPublic(context.Background(), public, true))

	rec := env.do(t, call{method: http.MethodGet, path: "/api/v2/users/" + id.String() + "/profile"})
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, "Cook", data["name"])
	assert.Len(t, data["recipes"], 1)

	rec = env.do(t, call{method: http.MethodPost, path: "/api/v2/users/lookup-email", body: map[string]string{"email": "ALICE@example.com"}})
	body := decode(t, rec)
	assert.Equal(t, "Success", body["message"])
	assert.Equal(t, true, body["emailExist"])

	rec = env.do(t, call{method: http.MethodPost, path: "/api/v2/users/lookup-email", body: map[string]string{"email": "nobody@example.com"}})
	body = decode(t, rec)
	assert.Equal(t, "Failure", body["message"])
	assert.Equal(t, false, body["emailExist"])

	rec = env.do(t, call{method: http.MethodPost, path: "/api/v2/users/lookup-email", body: map[string]string{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssets_AdminOnlyMutations(t *testing.T) {
	env := newTestEnv(t)
	adminID, admin := env.register(t, "admin@example.com")
	_, alice := env.register(t, "alice@example.com")
	env.users.setRole(adminID, user.RoleAdmin)

	body := map[string]any{"label": "korean"}

	assert.Equal(t, http.StatusUnauthorized, env.do(t, call{method: http.MethodPost, path: "/api/v2/assets/cuisine", body: body}).Code)
	assert.Equal(t, http.StatusForbidden, env.do(t, call{method: http.MethodPost, path: "/api/v2/assets/cuisine", cookie: alice, body: body}).Code)

	rec := env.do(t, call{method: http.MethodPost, path: "/api/v2/assets/cuisine", cookie: admin, body: body})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)
	assert.Equal(t, "cuisine", created["field"])
	assetID := created["doc"].(map[string]any)["_id"].(string)

	rec = env.do(t, call{method: http.MethodPost, path: "/api/v2/assets/fraction", cookie: admin, body: map[string]any{"label": "⅝"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Decimal value is missing and should be a number", decode(t, rec)["message"])

	rec = env.do(t, call{method: http.MethodPost, path: "/api/v2/assets/planet", cookie: admin, body: body})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, call{method: http.MethodGet, path: "/api/v2/assets"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["cuisine_options"], 1)

	rec = env.do(t, call{method: http.MethodDelete, path: "/api/v2/assets/cuisine/" + assetID, cookie: admin})
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, http.StatusOK, env.do(t, call{method: http.MethodGet, path: "/health"}).Code)

	env.srv.deps.Health = failingPing{err: errors.New("down")}
	srv := NewServer(env.srv.deps)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, call{method: http.MethodGet, path: "/api/v2/nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["request_id"])
}
