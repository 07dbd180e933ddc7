package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/appdotbuilder/sekolah-absenku/models"
)

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler { return &UserHandler{db: db} }

type userCreatePayload struct {
	Username string `json:"username" validate:"required,min=3,max=60"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=student teacher admin"`
}

type userUpdatePayload struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=60"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Role     *string `json:"role" validate:"omitempty,oneof=student teacher admin"`
}

// GET /admin/users?q=&role=&page=&size=
func (h *UserHandler) List(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	role := strings.TrimSpace(c.QueryParam("role"))
	page := 1
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		page = v
	}
	size := 20
	if v, err := strconv.Atoi(c.QueryParam("size")); err == nil && v >= 1 && v <= 100 {
		size = v
	}

	tx := h.db.Model(&models.User{})
	if q != "" {
		tx = tx.Where("LOWER(username) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	if role != "" {
		tx = tx.Where("role = ?", role)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return storeError(c, err)
	}
	var items []models.User
	if err := tx.Order("id DESC").Limit(size).Offset((page - 1) * size).Find(&items).Error; err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"data": items, "page": page, "size": size, "total": total})
}

// GET /admin/users/:id
func (h *UserHandler) Get(c echo.Context) error {
	var u models.User
	if err := h.db.First(&u, parseID(c, "id")).Error; err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// POST /admin/users
func (h *UserHandler) Create(c echo.Context) error {
	var p userCreatePayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&p); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "HASH_FAILED"})
	}
	u := models.User{Username: p.Username, Password: string(hash), Role: p.Role}
	if err := h.db.Create(&u).Error; err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusCreated, u)
}

// PUT /admin/users/:id
func (h *UserHandler) Update(c echo.Context) error {
	var u models.User
	if err := h.db.First(&u, parseID(c, "id")).Error; err != nil {
		return storeError(c, err)
	}

	var p userUpdatePayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&p); err != nil {
		return err
	}

	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*p.Password), bcrypt.DefaultCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "HASH_FAILED"})
		}
		u.Password = string(hash)
	}
	if err := h.db.Save(&u).Error; err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// DELETE /admin/users/:id
// Deleting a user cascades to its student or teacher profile.
func (h *UserHandler) Delete(c echo.Context) error {
	var u models.User
	if err := h.db.First(&u, parseID(c, "id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return storeError(c, err)
	}
	if err := h.db.Delete(&u).Error; err != nil {
		return storeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
