package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/appdotbuilder/sekolah-absenku/models"
)

type TeacherClassHandler struct {
	db *gorm.DB
}

func NewTeacherClassHandler(db *gorm.DB) *TeacherClassHandler {
	return &TeacherClassHandler{db: db}
}

type assignPayload struct {
	TeacherID uint `json:"teacher_id" validate:"required"`
	ClassID   uint `json:"class_id" validate:"required"`
}

// POST /admin/teacher-classes
// A duplicate pair is a 409; a missing teacher or class a 400.
func (h *TeacherClassHandler) Assign(c echo.Context) error {
	var p assignPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&p); err != nil {
		return err
	}
	tc := models.TeacherClass{TeacherID: p.TeacherID, ClassID: p.ClassID}
	if err := h.db.Create(&tc).Error; err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusCreated, tc)
}

// DELETE /admin/teachers/:id/classes/:classId
func (h *TeacherClassHandler) Remove(c echo.Context) error {
	res := h.db.
		Where("teacher_id = ? AND class_id = ?", parseID(c, "id"), parseID(c, "classId")).
		Delete(&models.TeacherClass{})
	if res.Error != nil {
		return storeError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
	}
	return c.NoContent(http.StatusNoContent)
}

// GET /teacher/teachers/:id/classes lists the classes assigned to a teacher.
func (h *TeacherClassHandler) Classes(c echo.Context) error {
	id := parseID(c, "id")
	var t models.Teacher
	if err := h.db.First(&t, id).Error; err != nil {
		return storeError(c, err)
	}
	classes := []models.Class{}
	err := h.db.Model(&models.Class{}).
		Joins("JOIN teacher_classes tc ON tc.class_id = classes.id").
		Where("tc.teacher_id = ?", id).
		Order("classes.id ASC").
		Find(&classes).Error
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, classes)
}
