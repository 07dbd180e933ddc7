package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/appdotbuilder/sekolah-absenku/attendance"
	"github.com/appdotbuilder/sekolah-absenku/models"
)

type AttendanceHandler struct {
	db     *gorm.DB
	engine *attendance.Engine
}

func NewAttendanceHandler(db *gorm.DB, engine *attendance.Engine) *AttendanceHandler {
	return &AttendanceHandler{db: db, engine: engine}
}

/* ====================== DTOs ====================== */

type attendancePayload struct {
	StudentID    uint       `json:"student_id" validate:"required"`
	ClassID      uint       `json:"class_id" validate:"required"`
	TeacherID    *uint      `json:"teacher_id"`
	Date         string     `json:"date" validate:"required,datetime=2006-01-02"`
	Status       string     `json:"status" validate:"required,oneof=present permission sick absent"`
	CheckInTime  *time.Time `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time"`
	Notes        *string    `json:"notes"`
}

func (p attendancePayload) input() attendance.CreateInput {
	return attendance.CreateInput{
		StudentID:    p.StudentID,
		ClassID:      p.ClassID,
		TeacherID:    p.TeacherID,
		Date:         p.Date,
		Status:       p.Status,
		CheckInTime:  p.CheckInTime,
		CheckOutTime: p.CheckOutTime,
		Notes:        p.Notes,
	}
}

type attendanceUpdatePayload struct {
	Status       *string    `json:"status" validate:"omitempty,oneof=present permission sick absent"`
	CheckInTime  *time.Time `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time"`
	Notes        *string    `json:"notes"`
}

type checkPayload struct {
	Type string `json:"type" validate:"required,oneof=check_in check_out"`
}

/* ====================== Helpers ====================== */

// studentForUser resolves the authenticated user's student profile.
func (h *AttendanceHandler) studentForUser(c echo.Context) (*models.Student, error) {
	uid, _ := c.Get("user_id").(uint)
	var s models.Student
	if err := h.db.Where("user_id = ?", uid).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// queryDate reads an optional YYYY-MM-DD query parameter. A present but
// malformed value is rejected so it can never reach the store, where a
// string like "2025-3-1" would compare lexically and match nothing.
func queryDate(c echo.Context, name string) (string, bool) {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return "", true
	}
	if _, err := time.Parse(attendance.DateLayout, v); err != nil {
		return "", false
	}
	return v, true
}

func queryUint(c echo.Context, name string) *uint {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return nil
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return nil
	}
	u := uint(n)
	return &u
}

/* ====================== Teacher-authored entry ====================== */

// POST /teacher/attendance
func (h *AttendanceHandler) Create(c echo.Context) error {
	var p attendancePayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&p); err != nil {
		return err
	}
	rec, err := h.engine.Create(p.input())
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusCreated, rec)
}

// POST /teacher/attendance/bulk
// All rows land in one transaction; one bad reference rolls back the
// whole batch. An empty batch answers an empty list.
func (h *AttendanceHandler) Bulk(c echo.Context) error {
	var ps []attendancePayload
	if err := c.Bind(&ps); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	ins := make([]attendance.CreateInput, 0, len(ps))
	for i := range ps {
		if err := c.Validate(&ps[i]); err != nil {
			return err
		}
		ins = append(ins, ps[i].input())
	}
	recs, err := h.engine.BulkCreate(ins)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusCreated, recs)
}

// PUT /teacher/attendance/:id
func (h *AttendanceHandler) Update(c echo.Context) error {
	var p attendanceUpdatePayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&p); err != nil {
		return err
	}
	rec, err := h.engine.Update(parseID(c, "id"), attendance.UpdateInput{
		Status:       p.Status,
		CheckInTime:  p.CheckInTime,
		CheckOutTime: p.CheckOutTime,
		Notes:        p.Notes,
	})
	if err != nil {
		return storeError(c, err)
	}
	if rec == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
	}
	return c.JSON(http.StatusOK, rec)
}

/* ====================== Reporting ====================== */

// GET /teacher/attendance/report?start_date=&end_date=&class_id=&student_id=&status=
func (h *AttendanceHandler) Report(c echo.Context) error {
	start, ok := queryDate(c, "start_date")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_DATE"})
	}
	end, ok := queryDate(c, "end_date")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_DATE"})
	}
	f := attendance.ReportFilter{
		StartDate: start,
		EndDate:   end,
		ClassID:   queryUint(c, "class_id"),
		StudentID: queryUint(c, "student_id"),
	}
	if s := strings.TrimSpace(c.QueryParam("status")); s != "" {
		if !models.ValidStatus(s) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_STATUS"})
		}
		f.Status = &s
	}
	rows, err := h.engine.Report(f)
	if err != nil {
		if errors.Is(err, attendance.ErrMissingDateRange) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "MISSING_DATE_RANGE"})
		}
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /teacher/attendance/class/:classId?date=YYYY-MM-DD (date defaults to today)
func (h *AttendanceHandler) ClassOnDate(c echo.Context) error {
	date, ok := queryDate(c, "date")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_DATE"})
	}
	if date == "" {
		date = h.engine.Today()
	}
	rows, err := h.engine.ClassOnDate(parseID(c, "classId"), date)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /teacher/attendance/statistics?class_id=&start_date=&end_date=
func (h *AttendanceHandler) Statistics(c echo.Context) error {
	start, ok := queryDate(c, "start_date")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_DATE"})
	}
	end, ok := queryDate(c, "end_date")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_DATE"})
	}
	stats, err := h.engine.Statistics(queryUint(c, "class_id"), start, end)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// GET /teacher/attendance/students/:id/history?start_date=&end_date=
func (h *AttendanceHandler) StudentHistory(c echo.Context) error {
	start, ok := queryDate(c, "start_date")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_DATE"})
	}
	end, ok := queryDate(c, "end_date")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_DATE"})
	}
	rows, err := h.engine.StudentHistory(parseID(c, "id"), start, end)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

/* ====================== Self check-in/out ====================== */

// POST /student/attendance/check {type: check_in|check_out}
// Invalid transitions (already checked in, nothing to check out of)
// answer success=false with 200, never an error status, so the UI can
// render "already done" straight from the body.
func (h *AttendanceHandler) Check(c echo.Context) error {
	var p checkPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&p); err != nil {
		return err
	}

	s, err := h.studentForUser(c)
	if err != nil {
		return storeError(c, err)
	}
	if s == nil {
		return c.JSON(http.StatusOK, map[string]any{"success": false, "message": "no student profile"})
	}

	var rec *models.Attendance
	switch p.Type {
	case "check_in":
		rec, err = h.engine.CheckIn(s.ID)
	case "check_out":
		rec, err = h.engine.CheckOut(s.ID)
	}
	if err != nil {
		return storeError(c, err)
	}
	if rec == nil {
		return c.JSON(http.StatusOK, map[string]any{"success": false, "message": p.Type + " not applicable"})
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": rec})
}

// GET /student/attendance/today
func (h *AttendanceHandler) Today(c echo.Context) error {
	s, err := h.studentForUser(c)
	if err != nil {
		return storeError(c, err)
	}
	if s == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
	}
	rec, err := h.engine.StudentToday(s.ID)
	if err != nil {
		return storeError(c, err)
	}
	// null body when the student has no record yet today
	return c.JSON(http.StatusOK, rec)
}

// GET /student/attendance/history?start_date=&end_date=
func (h *AttendanceHandler) History(c echo.Context) error {
	s, err := h.studentForUser(c)
	if err != nil {
		return storeError(c, err)
	}
	if s == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
	}
	start, ok := queryDate(c, "start_date")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_DATE"})
	}
	end, ok := queryDate(c, "end_date")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_DATE"})
	}
	rows, err := h.engine.StudentHistory(s.ID, start, end)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}
