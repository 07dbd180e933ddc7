package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/appdotbuilder/sekolah-absenku/models"
)

type TeacherHandler struct {
	db *gorm.DB
}

func NewTeacherHandler(db *gorm.DB) *TeacherHandler { return &TeacherHandler{db: db} }

type teacherPayload struct {
	UserID   uint    `json:"user_id" validate:"required"`
	NIP      string  `json:"nip" validate:"required,max=30"`
	FullName string  `json:"full_name" validate:"required,max=120"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	Address  *string `json:"address"`
	Photo    *string `json:"photo"`
}

// GET /admin/teachers?q=&page=&size=
func (h *TeacherHandler) List(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	page := 1
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		page = v
	}
	size := 20
	if v, err := strconv.Atoi(c.QueryParam("size")); err == nil && v >= 1 && v <= 100 {
		size = v
	}

	tx := h.db.Model(&models.Teacher{})
	if q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(nip) LIKE ? OR LOWER(full_name) LIKE ?", like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return storeError(c, err)
	}
	var items []models.Teacher
	if err := tx.Order("id DESC").Limit(size).Offset((page - 1) * size).Find(&items).Error; err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"data": items, "page": page, "size": size, "total": total})
}

// GET /admin/teachers/:id
func (h *TeacherHandler) Get(c echo.Context) error {
	var t models.Teacher
	if err := h.db.First(&t, parseID(c, "id")).Error; err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// POST /admin/teachers
func (h *TeacherHandler) Create(c echo.Context) error {
	var p teacherPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&p); err != nil {
		return err
	}
	if err := requireRole(h.db, p.UserID, models.RoleTeacher); err != nil {
		if errors.Is(err, errInvalidRole) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_ROLE"})
		}
		return storeError(c, err)
	}

	t := models.Teacher{
		UserID: p.UserID, NIP: p.NIP, FullName: p.FullName,
		Email: p.Email, Phone: p.Phone, Address: p.Address, Photo: p.Photo,
	}
	if err := h.db.Create(&t).Error; err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// PUT /admin/teachers/:id
func (h *TeacherHandler) Update(c echo.Context) error {
	var t models.Teacher
	if err := h.db.First(&t, parseID(c, "id")).Error; err != nil {
		return storeError(c, err)
	}
	var p teacherPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&p); err != nil {
		return err
	}
	if p.UserID != t.UserID {
		if err := requireRole(h.db, p.UserID, models.RoleTeacher); err != nil {
			if errors.Is(err, errInvalidRole) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_ROLE"})
			}
			return storeError(c, err)
		}
	}

	t.UserID = p.UserID
	t.NIP = p.NIP
	t.FullName = p.FullName
	t.Email = p.Email
	t.Phone = p.Phone
	t.Address = p.Address
	t.Photo = p.Photo
	if err := h.db.Save(&t).Error; err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// DELETE /admin/teachers/:id
// Assignments cascade away; attendance rows keep living with
// teacher_id set to null.
func (h *TeacherHandler) Delete(c echo.Context) error {
	var t models.Teacher
	if err := h.db.First(&t, parseID(c, "id")).Error; err != nil {
		return storeError(c, err)
	}
	if err := h.db.Delete(&t).Error; err != nil {
		return storeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
