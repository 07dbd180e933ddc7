package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/appdotbuilder/sekolah-absenku/models"
)

type ClassHandler struct {
	db *gorm.DB
}

func NewClassHandler(db *gorm.DB) *ClassHandler { return &ClassHandler{db: db} }

type classPayload struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description"`
}

// GET /admin/classes
func (h *ClassHandler) List(c echo.Context) error {
	var items []models.Class
	if err := h.db.Order("id ASC").Find(&items).Error; err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// GET /admin/classes/:id
func (h *ClassHandler) Get(c echo.Context) error {
	var cl models.Class
	if err := h.db.First(&cl, parseID(c, "id")).Error; err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, cl)
}

// POST /admin/classes
func (h *ClassHandler) Create(c echo.Context) error {
	var p classPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&p); err != nil {
		return err
	}
	cl := models.Class{Name: p.Name, Description: p.Description}
	if err := h.db.Create(&cl).Error; err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusCreated, cl)
}

// PUT /admin/classes/:id
func (h *ClassHandler) Update(c echo.Context) error {
	var cl models.Class
	if err := h.db.First(&cl, parseID(c, "id")).Error; err != nil {
		return storeError(c, err)
	}
	var p classPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&p); err != nil {
		return err
	}
	cl.Name = p.Name
	cl.Description = p.Description
	if err := h.db.Save(&cl).Error; err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, cl)
}

// DELETE /admin/classes/:id
// Cascades to the class's students, teacher assignments and
// attendance rows.
func (h *ClassHandler) Delete(c echo.Context) error {
	var cl models.Class
	if err := h.db.First(&cl, parseID(c, "id")).Error; err != nil {
		return storeError(c, err)
	}
	if err := h.db.Delete(&cl).Error; err != nil {
		return storeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GET /teacher/classes/:id/students lists the class roster.
func (h *ClassHandler) Students(c echo.Context) error {
	id := parseID(c, "id")
	var cl models.Class
	if err := h.db.First(&cl, id).Error; err != nil {
		return storeError(c, err)
	}
	students := []models.Student{}
	if err := h.db.Where("class_id = ?", id).Order("full_name ASC").Find(&students).Error; err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, students)
}
