package controller_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mili4400/FinanzApp-Cloud/internal/data"
	"github.com/mili4400/FinanzApp-Cloud/internal/middleware"
	"github.com/mili4400/FinanzApp-Cloud/internal/models"
	"github.com/mili4400/FinanzApp-Cloud/internal/route"
	"github.com/mili4400/FinanzApp-Cloud/internal/service"
)

const testSecret = "test-secret"

func setupAuthRouter(t *testing.T) (*gin.Engine, *service.UserService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("ACCESS_TOKEN_SECRET", testSecret)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	store := data.NewUserFile(filepath.Join(t.TempDir(), "users.json"))
	require.NoError(t, store.Save(&models.UserStore{Usuarios: []*models.UserRecord{
		{Username: "admin", Password: string(hash), Language: "en"},
		{Username: "legacy", Password: "plaintext"},
	}}))
	users := service.NewUserService(store)

	r := gin.New()
	route.AuthRoutes(r, users)
	r.Use(middleware.RequireAuth(users))
	route.UserRoutes(r, users)
	return r, users
}

func postJSON(r *gin.Engine, url, body, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()
	w := postJSON(r, "/auth/login", `{"username":"`+username+`","password":"`+password+`"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		AccessToken string `json:"accessToken"`
		ExpiresIn   int    `json:"expiresIn"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.AccessToken)
	require.Equal(t, 900, body.ExpiresIn)
	return body.AccessToken
}

func TestSignInIssuesToken(t *testing.T) {
	r, _ := setupAuthRouter(t)

	token := login(t, r, "admin", "secret")

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "admin", claims["username"])
}

func TestSignInLegacyPlaintextUser(t *testing.T) {
	r, _ := setupAuthRouter(t)
	login(t, r, "legacy", "plaintext")
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	r, _ := setupAuthRouter(t)

	// Wrong password and unknown user collapse to the same response.
	wrong := postJSON(r, "/auth/login", `{"username":"admin","password":"nope"}`, "")
	unknown := postJSON(r, "/auth/login", `{"username":"ghost","password":"nope"}`, "")

	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
}

func TestSignInRejectsMissingFields(t *testing.T) {
	r, _ := setupAuthRouter(t)
	w := postJSON(r, "/auth/login", `{"username":"admin"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileRequiresToken(t *testing.T) {
	r, _ := setupAuthRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileWithToken(t *testing.T) {
	r, _ := setupAuthRouter(t)
	token := login(t, r, "admin", "secret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/user/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		User middleware.UserContext `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "admin", body.User.Username)
	assert.Equal(t, "en", body.User.Language)
}

func TestRegisterAdminOnly(t *testing.T) {
	r, users := setupAuthRouter(t)

	adminToken := login(t, r, "admin", "secret")
	legacyToken := login(t, r, "legacy", "plaintext")

	forbidden := postJSON(r, "/auth/register", `{"username":"new","password":"pw"}`, legacyToken)
	assert.Equal(t, http.StatusForbidden, forbidden.Code)

	created := postJSON(r, "/auth/register", `{"username":"new","password":"pw","language":"en"}`, adminToken)
	assert.Equal(t, http.StatusNoContent, created.Code)
	assert.True(t, users.Authenticate("new", "pw"))

	dup := postJSON(r, "/auth/register", `{"username":"new","password":"pw"}`, adminToken)
	assert.Equal(t, http.StatusConflict, dup.Code)
}

func TestSignOut(t *testing.T) {
	r, _ := setupAuthRouter(t)
	w := postJSON(r, "/auth/logout", "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}
