package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/appdotbuilder/sekolah-absenku/config"
	"github.com/appdotbuilder/sekolah-absenku/database"
	"github.com/appdotbuilder/sekolah-absenku/handlers"
	"github.com/appdotbuilder/sekolah-absenku/models"
	"github.com/appdotbuilder/sekolah-absenku/routes"

	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	e := echo.New()
	e.Validator = handlers.NewValidator()
	cfg := &config.Config{JWTSecret: testSecret, AppTimezone: "UTC"}
	routes.Register(e, db, cfg, time.UTC)
	return e, db
}

func signToken(t *testing.T, uid uint, role string) string {
	t.Helper()
	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  uid,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	s, err := tk.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func doJSON(e *echo.Echo, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

// seedUser creates a user with a bcrypt-hashed password.
func seedUser(t *testing.T, db *gorm.DB, username, password, role string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := models.User{Username: username, Password: string(hash), Role: role}
	require.NoError(t, db.Create(&u).Error)
	return u
}

type schoolFixture struct {
	class        models.Class
	studentUser  models.User
	student      models.Student
	teacherUser  models.User
	teacher      models.Teacher
	studentToken string
	teacherToken string
	adminToken   string
}

func seedSchool(t *testing.T, db *gorm.DB) *schoolFixture {
	t.Helper()
	f := &schoolFixture{}

	f.class = models.Class{Name: "X IPA 1"}
	require.NoError(t, db.Create(&f.class).Error)

	f.studentUser = seedUser(t, db, "siswa1", "rahasia123", models.RoleStudent)
	f.student = models.Student{UserID: f.studentUser.ID, ClassID: f.class.ID, NIS: "1001", FullName: "Budi Santoso"}
	require.NoError(t, db.Create(&f.student).Error)

	f.teacherUser = seedUser(t, db, "guru1", "rahasia123", models.RoleTeacher)
	f.teacher = models.Teacher{UserID: f.teacherUser.ID, NIP: "2001", FullName: "Siti Aminah"}
	require.NoError(t, db.Create(&f.teacher).Error)

	admin := seedUser(t, db, "admin", "rahasia123", models.RoleAdmin)

	f.studentToken = signToken(t, f.studentUser.ID, models.RoleStudent)
	f.teacherToken = signToken(t, f.teacherUser.ID, models.RoleTeacher)
	f.adminToken = signToken(t, admin.ID, models.RoleAdmin)
	return f
}

/* ====================== Session ====================== */

func TestLogin(t *testing.T) {
	e, db := newTestServer(t)
	seedUser(t, db, "siswa1", "rahasia123", models.RoleStudent)

	rec := doJSON(e, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "siswa1", "password": "rahasia123", "role": "student",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decode(t, rec, &resp)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "siswa1", resp.User.Username)
}

func TestLoginFailureLeaksNothing(t *testing.T) {
	e, db := newTestServer(t)
	seedUser(t, db, "siswa1", "rahasia123", models.RoleStudent)

	cases := []map[string]string{
		{"username": "siswa1", "password": "salah", "role": "student"},  // wrong password
		{"username": "nobody", "password": "rahasia123", "role": "student"}, // unknown user
		{"username": "siswa1", "password": "rahasia123", "role": "teacher"}, // wrong role
	}
	for _, payload := range cases {
		rec := doJSON(e, http.MethodPost, "/auth/login", "", payload)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"INVALID_CREDENTIALS"}`, rec.Body.String(),
			"every failure mode must answer identically")
	}
}

func TestMeReturnsRoleProfile(t *testing.T) {
	e, db := newTestServer(t)
	f := seedSchool(t, db)

	type meProfile struct {
		Role    string          `json:"role"`
		User    models.User     `json:"user"`
		Student *models.Student `json:"student"`
		Teacher *models.Teacher `json:"teacher"`
	}

	rec := doJSON(e, http.MethodGet, "/auth/me", f.studentToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp meProfile
	decode(t, rec, &resp)
	assert.Equal(t, models.RoleStudent, resp.Role)
	require.NotNil(t, resp.Student)
	assert.Equal(t, "1001", resp.Student.NIS)
	assert.Nil(t, resp.Teacher)

	rec = doJSON(e, http.MethodGet, "/auth/me", f.teacherToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = meProfile{}
	decode(t, rec, &resp)
	assert.Equal(t, models.RoleTeacher, resp.Role)
	assert.Nil(t, resp.Student)
	require.NotNil(t, resp.Teacher)
	assert.Equal(t, "2001", resp.Teacher.NIP)

	// a fresh struct per decode: omitted profile keys must read as nil,
	// not as leftovers from the previous response
	rec = doJSON(e, http.MethodGet, "/auth/me", f.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = meProfile{}
	decode(t, rec, &resp)
	assert.Equal(t, models.RoleAdmin, resp.Role)
	assert.Nil(t, resp.Student)
	assert.Nil(t, resp.Teacher)
	assert.NotContains(t, rec.Body.String(), `"student"`)
	assert.NotContains(t, rec.Body.String(), `"teacher"`)
}

func TestChangePassword(t *testing.T) {
	e, db := newTestServer(t)
	f := seedSchool(t, db)

	// wrong current password: success=false, not an error status
	rec := doJSON(e, http.MethodPut, "/auth/password", f.studentToken, map[string]string{
		"current_password": "salah", "new_password": "barubanget",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	decode(t, rec, &resp)
	assert.Equal(t, false, resp["success"])

	rec = doJSON(e, http.MethodPut, "/auth/password", f.studentToken, map[string]string{
		"current_password": "rahasia123", "new_password": "barubanget",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &resp)
	assert.Equal(t, true, resp["success"])

	// the new password works for login
	rec = doJSON(e, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "siswa1", "password": "barubanget", "role": "student",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

/* ====================== Access control ====================== */

func TestRoleGates(t *testing.T) {
	e, db := newTestServer(t)
	f := seedSchool(t, db)

	rec := doJSON(e, http.MethodGet, "/teacher/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodGet, "/teacher/dashboard", f.studentToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(e, http.MethodGet, "/admin/users", f.teacherToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(e, http.MethodGet, "/teacher/dashboard", f.adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code, "admins may use teacher routes")
}
