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

type StudentHandler struct {
	db *gorm.DB
}

func NewStudentHandler(db *gorm.DB) *StudentHandler { return &StudentHandler{db: db} }

type studentPayload struct {
	UserID   uint    `json:"user_id" validate:"required"`
	ClassID  uint    `json:"class_id" validate:"required"`
	NIS      string  `json:"nis" validate:"required,max=30"`
	NISN     *string `json:"nisn" validate:"omitempty,max=30"`
	FullName string  `json:"full_name" validate:"required,max=120"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	Address  *string `json:"address"`
	Photo    *string `json:"photo"`
}

// requireRole loads the referenced user and checks its role, so a
// student profile cannot be attached to a teacher or admin account.
func requireRole(db *gorm.DB, userID uint, role string) error {
	var u models.User
	if err := db.First(&u, userID).Error; err != nil {
		return err
	}
	if u.Role != role {
		return errInvalidRole
	}
	return nil
}

var errInvalidRole = errors.New("user has the wrong role for this profile")

// GET /admin/students?q=&class_id=&page=&size=
func (h *StudentHandler) List(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	classID := strings.TrimSpace(c.QueryParam("class_id"))
	page := 1
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		page = v
	}
	size := 20
	if v, err := strconv.Atoi(c.QueryParam("size")); err == nil && v >= 1 && v <= 100 {
		size = v
	}

	tx := h.db.Model(&models.Student{})
	if q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(nis) LIKE ? OR LOWER(full_name) LIKE ?", like, like)
	}
	if classID != "" {
		tx = tx.Where("class_id = ?", classID)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return storeError(c, err)
	}
	var items []models.Student
	if err := tx.Order("id DESC").Limit(size).Offset((page - 1) * size).Find(&items).Error; err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"data": items, "page": page, "size": size, "total": total})
}

// GET /admin/students/:id
func (h *StudentHandler) Get(c echo.Context) error {
	var s models.Student
	if err := h.db.First(&s, parseID(c, "id")).Error; err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// POST /admin/students
func (h *StudentHandler) Create(c echo.Context) error {
	var p studentPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&p); err != nil {
		return err
	}
	if err := requireRole(h.db, p.UserID, models.RoleStudent); err != nil {
		if errors.Is(err, errInvalidRole) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_ROLE"})
		}
		return storeError(c, err)
	}

	s := models.Student{
		UserID: p.UserID, ClassID: p.ClassID,
		NIS: p.NIS, NISN: p.NISN, FullName: p.FullName,
		Email: p.Email, Phone: p.Phone, Address: p.Address, Photo: p.Photo,
	}
	if err := h.db.Create(&s).Error; err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusCreated, s)
}

// PUT /admin/students/:id
func (h *StudentHandler) Update(c echo.Context) error {
	var s models.Student
	if err := h.db.First(&s, parseID(c, "id")).Error; err != nil {
		return storeError(c, err)
	}
	var p studentPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&p); err != nil {
		return err
	}
	if p.UserID != s.UserID {
		if err := requireRole(h.db, p.UserID, models.RoleStudent); err != nil {
			if errors.Is(err, errInvalidRole) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_ROLE"})
			}
			return storeError(c, err)
		}
	}

	s.UserID = p.UserID
	s.ClassID = p.ClassID
	s.NIS = p.NIS
	s.NISN = p.NISN
	s.FullName = p.FullName
	s.Email = p.Email
	s.Phone = p.Phone
	s.Address = p.Address
	s.Photo = p.Photo
	if err := h.db.Save(&s).Error; err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// DELETE /admin/students/:id
func (h *StudentHandler) Delete(c echo.Context) error {
	var s models.Student
	if err := h.db.First(&s, parseID(c, "id")).Error; err != nil {
		return storeError(c, err)
	}
	if err := h.db.Delete(&s).Error; err != nil {
		return storeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
