package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studentperf/internal/config"
	"github.com/yigit/studentperf/internal/db"
	"github.com/yigit/studentperf/internal/middleware"
	"github.com/yigit/studentperf/internal/testutil"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code  string `json:"code"`
		Field string `json:"field"`
	} `json:"error"`
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Mode = "production"
	cfg.Session.Secret = "test-secret"
	cfg.Session.TTL = "1h"
	cfg.Session.Issuer = "test"
	cfg.Session.Store = config.SessionStoreMemory
	cfg.Auth.PasswordMode = config.PasswordModePlaintext
	cfg.Prediction.ModelPath = "../../assets/model.json"
	cfg.Prediction.MinScore = 60
	cfg.Prediction.MinAttendance = 75
	cfg.Prediction.FastPathRule = "semester_score >= min_score && attendance >= min_attendance"
	cfg.Seed.TeacherUsername = "teacher"
	cfg.Seed.TeacherPassword = "teacher123"
	return cfg
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	router, _ := newTestRouterWithDB(t)
	return router
}

func newTestRouterWithDB(t *testing.T) (*gin.Engine, *db.DB) {
	t.Helper()
	cfg := testConfig()
	database := testutil.NewSQLiteDB(t)

	deps, err := BuildDependencies(cfg, database, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Close() })

	router := SetupRouter(cfg, deps, zerolog.Nop())
	gin.SetMode(gin.TestMode)
	return router, database
}

func do(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp apiResponse
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func login(t *testing.T, router *gin.Engine, username, password string) string {
	t.Helper()
	w, resp := do(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Token struct {
			AccessToken string `json:"accessToken"`
		} `json:"token"`
		Session struct {
			Menu []string `json:"menu"`
		} `json:"session"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.NotEmpty(t, data.Token.AccessToken)
	return data.Token.AccessToken
}

func TestPing(t *testing.T) {
	router := newTestRouter(t)
	w, _ := do(t, router, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginFailures(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		body interface{}
		code int
	}{
		{name: "wrong password", body: gin.H{"username": "teacher", "password": "nope"}, code: http.StatusUnauthorized},
		{name: "unknown user", body: gin.H{"username": "ghost", "password": "teacher123"}, code: http.StatusUnauthorized},
		{name: "blank fields", body: gin.H{"username": "", "password": ""}, code: http.StatusUnauthorized},
		{name: "malformed body", body: "not an object", code: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := do(t, router, http.MethodPost, "/api/v1/auth/login", "", tt.body)
			assert.Equal(t, tt.code, w.Code)
			assert.False(t, resp.Success)
			if tt.code == http.StatusUnauthorized {
				assert.Equal(t, middleware.MessageInvalidCredentials, resp.Message)
			}
		})
	}
}

func TestAuthenticationRequired(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/api/v1/session", "/api/v1/dashboard", "/api/v1/records"} {
		w, resp := do(t, router, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "AUTH_008", resp.Error.Code)
	}

	w, resp := do(t, router, http.MethodGet, "/api/v1/session", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTH_005", resp.Error.Code)
}

func TestTeacherAndStudentFlow(t *testing.T) {
	router := newTestRouter(t)
	teacher := login(t, router, "teacher", "teacher123")

	// teacher creates a student account
	w, _ := do(t, router, http.MethodPost, "/api/v1/users", teacher, gin.H{"username": "amina", "password": "pw", "role": "student"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, resp := do(t, router, http.MethodPost, "/api/v1/users", teacher, gin.H{"username": "amina", "password": "x", "role": "student"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, middleware.MessageDuplicateUsername, resp.Message)

	// record creation: fast path and validation
	w, resp = do(t, router, http.MethodPost, "/api/v1/records", teacher, gin.H{
		"studentId": "amina", "fullName": "Amina Diallo", "gender": "Female",
		"semesterScore": 70, "studyHours": 5, "attendance": 80,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Record saved successfully ✔ Prediction: Pass", resp.Message)

	w, resp = do(t, router, http.MethodPost, "/api/v1/records", teacher, gin.H{
		"studentId": "amina", "fullName": "Amina Diallo", "gender": "Female",
		"semesterScore": 101, "studyHours": 5, "attendance": 80,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VAL_001", resp.Error.Code)

	// student sees a menu without management entries and cannot use teacher routes
	student := login(t, router, "amina", "pw")

	w, resp = do(t, router, http.MethodGet, "/api/v1/session", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var sess struct {
		LoggedIn bool     `json:"loggedIn"`
		Menu     []string `json:"menu"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &sess))
	assert.True(t, sess.LoggedIn)
	assert.Equal(t, []string{"Dashboard", "Logout"}, sess.Menu)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/v1/records"},
		{http.MethodPost, "/api/v1/users"},
		{http.MethodGet, "/api/v1/records/export"},
		{http.MethodDelete, "/api/v1/students/amina"},
	} {
		w, _ = do(t, router, tc.method, tc.path, student, gin.H{})
		assert.Equal(t, http.StatusForbidden, w.Code, tc.path)
	}

	w, _ = do(t, router, http.MethodGet, "/api/v1/records?studentId=someone-else", student, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, resp = do(t, router, http.MethodGet, "/api/v1/dashboard", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var board struct {
		Role    string `json:"role"`
		Student struct {
			CurrentScore *float64 `json:"currentScore"`
		} `json:"student"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &board))
	assert.Equal(t, "student", board.Role)
	require.NotNil(t, board.Student.CurrentScore)
	assert.Equal(t, 70.0, *board.Student.CurrentScore)

	// export
	w, _ = do(t, router, http.MethodGet, "/api/v1/records/export", teacher, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	assert.NotZero(t, w.Body.Len())

	// delete the student with their records
	w, resp = do(t, router, http.MethodDelete, "/api/v1/students/amina", teacher, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var deleted struct {
		UserDeleted    bool  `json:"userDeleted"`
		RecordsDeleted int64 `json:"recordsDeleted"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &deleted))
	assert.True(t, deleted.UserDeleted)
	assert.Equal(t, int64(1), deleted.RecordsDeleted)

	w, _ = do(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "amina", "password": "pw"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateRecordRequiresEveryFigure(t *testing.T) {
	router := newTestRouter(t)
	teacher := login(t, router, "teacher", "teacher123")

	tests := []struct {
		name    string
		missing string
	}{
		{name: "no score", missing: "semesterScore"},
		{name: "no study hours", missing: "studyHours"},
		{name: "no attendance", missing: "attendance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := gin.H{
				"studentId": "amina", "fullName": "Amina Diallo", "gender": "Female",
				"semesterScore": 70, "studyHours": 5, "attendance": 80,
			}
			delete(body, tt.missing)

			w, resp := do(t, router, http.MethodPost, "/api/v1/records", teacher, body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			require.NotNil(t, resp.Error)
			assert.Equal(t, "VAL_001", resp.Error.Code)
		})
	}

	w, resp := do(t, router, http.MethodGet, "/api/v1/records", teacher, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	assert.Zero(t, list.Total)
}

func TestStoreFailureHidesDetails(t *testing.T) {
	router, database := newTestRouterWithDB(t)
	teacher := login(t, router, "teacher", "teacher123")

	_, err := database.ExecContext(context.Background(), "DROP TABLE academic_data")
	require.NoError(t, err)

	for _, path := range []string{"/api/v1/records", "/api/v1/dashboard"} {
		w, resp := do(t, router, http.MethodGet, path, teacher, nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code, path)
		assert.Equal(t, middleware.MessageStoreFailure, resp.Message, path)
		require.NotNil(t, resp.Error, path)
		assert.Equal(t, "SRV_002", resp.Error.Code, path)
		assert.NotContains(t, w.Body.String(), "academic_data", path)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, "teacher", "teacher123")

	w, _ := do(t, router, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, resp := do(t, router, http.MethodGet, "/api/v1/session", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTH_007", resp.Error.Code)
}

func TestBuildDependenciesFailsWithoutArtifact(t *testing.T) {
	cfg := testConfig()
	cfg.Prediction.ModelPath = "does-not-exist.json"

	_, err := BuildDependencies(cfg, testutil.NewSQLiteDB(t), zerolog.Nop())
	require.Error(t, err)
}
