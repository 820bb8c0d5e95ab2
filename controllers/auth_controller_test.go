package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"EmoTrackGo/middleware"
	"EmoTrackGo/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter() *testRouterFixture {
	r := newRouter()
	r.LoadHTMLGlob("../templates/*.html")

	ac := AuthController{}
	pc := PageController{}
	r.GET("/register", ac.ShowRegister)
	r.POST("/register", ac.Register)
	r.GET("/login", ac.ShowLogin)
	r.POST("/login", ac.Login)
	r.GET("/logout", ac.Logout)
	r.GET("/logout_popup", pc.LogoutPopup)
	r.GET("/dashboard", middleware.LoginRequired(), pc.Dashboard)

	return &testRouterFixture{r: r}
}

type testRouterFixture struct {
	r http.Handler
}

func (f *testRouterFixture) do(method, target, body, contentType, cookies string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if cookies != "" {
		req.Header.Set("Cookie", cookies)
	}
	w := httptest.NewRecorder()
	f.r.ServeHTTP(w, req)
	return w
}

const formContentType = "application/x-www-form-urlencoded"

func userRow(hash string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at"}).
		AddRow("user-1", "alice", "alice@example.com", hash, time.Now().UTC())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	mock := setupMockDB(t)
	f := newAuthRouter()

	// 邮箱已存在，不应有INSERT
	mock.ExpectQuery("SELECT (.+) FROM `users`").WillReturnRows(userRow("x"))

	w := f.do("POST", "/register",
		"username=bob&email=alice@example.com&password=pw123456", formContentType, "")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/register", w.Header().Get("Location"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterSuccessRedirectsToLogin(t *testing.T) {
	mock := setupMockDB(t)
	f := newAuthRouter()

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	w := f.do("POST", "/register",
		"username=bob&email=bob@example.com&password=pw123456", formContentType, "")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginInvalidCredentials(t *testing.T) {
	mock := setupMockDB(t)
	f := newAuthRouter()

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := f.do("POST", "/login", "username=ghost&password=nope", formContentType, "")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestLoginWrongPassword(t *testing.T) {
	mock := setupMockDB(t)
	f := newAuthRouter()

	hash, err := utils.HashPassword("correct-password")
	require.NoError(t, err)
	mock.ExpectQuery("SELECT (.+) FROM `users`").WillReturnRows(userRow(hash))

	w := f.do("POST", "/login", "username=alice&password=wrong", formContentType, "")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestLoginDashboardLogoutFlow(t *testing.T) {
	mock := setupMockDB(t)
	f := newAuthRouter()

	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)

	// 登录
	mock.ExpectQuery("SELECT (.+) FROM `users`").WillReturnRows(userRow(hash))
	w := f.do("POST", "/login", "username=alice&password=secret123", formContentType, "")
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/dashboard", w.Header().Get("Location"))
	session := cookieHeader(w)
	require.NotEmpty(t, session)

	// 已登录访问仪表盘
	mock.ExpectQuery("SELECT (.+) FROM `users`").WillReturnRows(userRow(hash))
	mock.ExpectQuery("SELECT (.+) FROM `weekly_goals`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	w2 := f.do("GET", "/dashboard", "", "", session)
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Contains(t, w2.Body.String(), "alice")

	// 登出
	w3 := f.do("GET", "/logout", "", "", session)
	assert.Equal(t, http.StatusFound, w3.Code)
	assert.Equal(t, "/logout_popup", w3.Header().Get("Location"))

	// 登出后的会话不能再访问仪表盘
	w4 := f.do("GET", "/dashboard", "", "", cookieHeader(w3))
	assert.Equal(t, http.StatusFound, w4.Code)
	assert.Equal(t, "/login", w4.Header().Get("Location"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardRequiresLogin(t *testing.T) {
	setupMockDB(t)
	f := newAuthRouter()

	w := f.do("GET", "/dashboard", "", "", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}
