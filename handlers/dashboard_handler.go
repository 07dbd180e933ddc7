package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/appdotbuilder/sekolah-absenku/attendance"
	"github.com/appdotbuilder/sekolah-absenku/models"
)

type DashboardHandler struct {
	db     *gorm.DB
	engine *attendance.Engine
}

func NewDashboardHandler(db *gorm.DB, engine *attendance.Engine) *DashboardHandler {
	return &DashboardHandler{db: db, engine: engine}
}

// GET /teacher/dashboard
// Directory counts plus today's attendance statistics, school-wide.
func (h *DashboardHandler) Stats(c echo.Context) error {
	var (
		cntStudents int64
		cntTeachers int64
		cntClasses  int64
	)
	if err := h.db.Model(&models.Student{}).Count(&cntStudents).Error; err != nil {
		return storeError(c, err)
	}
	if err := h.db.Model(&models.Teacher{}).Count(&cntTeachers).Error; err != nil {
		return storeError(c, err)
	}
	if err := h.db.Model(&models.Class{}).Count(&cntClasses).Error; err != nil {
		return storeError(c, err)
	}

	today := h.engine.Today()
	stats, err := h.engine.Statistics(nil, today, today)
	if err != nil {
		return storeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"total_students": cntStudents,
		"total_teachers": cntTeachers,
		"total_classes":  cntClasses,
		"today":          stats,
	})
}
