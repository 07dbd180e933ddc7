package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/appdotbuilder/sekolah-absenku/models"
)

type AuthHandler struct {
	db        *gorm.DB
	jwtSecret string
}

func NewAuthHandler(db *gorm.DB, jwtSecret string) *AuthHandler {
	return &AuthHandler{db: db, jwtSecret: jwtSecret}
}

func (h *AuthHandler) signJWT(sub uint, role string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}
	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tk.SignedString([]byte(h.jwtSecret))
}

/* ====================== DTOs ====================== */

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=student teacher admin"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// meResponse carries the current user plus the profile matching its
// role. Role is the discriminator; exactly one of Student/Teacher is
// set for those roles, neither for admin.
type meResponse struct {
	Role    string          `json:"role"`
	User    models.User     `json:"user"`
	Student *models.Student `json:"student,omitempty"`
	Teacher *models.Teacher `json:"teacher,omitempty"`
}

/* ====================== Handlers ====================== */

// POST /auth/login
// A wrong username, wrong password or wrong role all answer the same
// 401 so the response leaks nothing about which part failed.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var u models.User
	if err := h.db.Where("username = ? AND role = ?", req.Username, req.Role).First(&u).Error; err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "INVALID_CREDENTIALS"})
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)) != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "INVALID_CREDENTIALS"})
	}

	token, err := h.signJWT(u.ID, u.Role, 7*24*time.Hour)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "TOKEN_GEN_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{"token": token, "user": u})
}

// GET /auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	uid, _ := c.Get("user_id").(uint)

	var u models.User
	if err := h.db.First(&u, uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return storeError(c, err)
	}

	resp := meResponse{Role: u.Role, User: u}
	switch u.Role {
	case models.RoleStudent:
		var s models.Student
		if err := h.db.Where("user_id = ?", u.ID).First(&s).Error; err == nil {
			resp.Student = &s
		}
	case models.RoleTeacher:
		var t models.Teacher
		if err := h.db.Where("user_id = ?", u.ID).First(&t).Error; err == nil {
			resp.Teacher = &t
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// PUT /auth/password
// A wrong current password is an expected user mistake, not an error:
// the handler answers 200 with success=false.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	uid, _ := c.Get("user_id").(uint)

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var u models.User
	if err := h.db.First(&u, uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return storeError(c, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.CurrentPassword)) != nil {
		return c.JSON(http.StatusOK, map[string]any{"success": false})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "HASH_FAILED"})
	}
	if err := h.db.Model(&u).Update("password", string(hash)).Error; err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}
