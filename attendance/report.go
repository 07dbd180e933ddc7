package attendance

import (
	"errors"

	"gorm.io/gorm"

	"github.com/appdotbuilder/sekolah-absenku/models"
)

// ReportFilter narrows a report query. StartDate and EndDate are
// mandatory and inclusive; the rest are optional equality filters
// combined with AND.
type ReportFilter struct {
	ClassID   *uint
	StudentID *uint
	StartDate string
	EndDate   string
	Status    *string
}

// Report returns every attendance row matching the filter. No
// pagination: callers get the full filtered set.
func (e *Engine) Report(f ReportFilter) ([]models.Attendance, error) {
	if f.StartDate == "" || f.EndDate == "" {
		return nil, ErrMissingDateRange
	}

	tx := e.db.Where("date >= ? AND date <= ?", f.StartDate, f.EndDate)
	if f.ClassID != nil {
		tx = tx.Where("class_id = ?", *f.ClassID)
	}
	if f.StudentID != nil {
		tx = tx.Where("student_id = ?", *f.StudentID)
	}
	if f.Status != nil {
		tx = tx.Where("status = ?", *f.Status)
	}

	rows := []models.Attendance{}
	if err := tx.Order("date ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ClassOnDate is the single-day convenience form of Report.
func (e *Engine) ClassOnDate(classID uint, date string) ([]models.Attendance, error) {
	return e.Report(ReportFilter{
		ClassID:   &classID,
		StartDate: date,
		EndDate:   date,
	})
}

// StudentHistory lists a student's rows newest first (ties broken by
// most recently created). With neither bound supplied it defaults to
// the 30 calendar days ending today in the reference timezone.
func (e *Engine) StudentHistory(studentID uint, start, end string) ([]models.Attendance, error) {
	if start == "" && end == "" {
		today := e.now().In(e.loc)
		end = today.Format(DateLayout)
		start = today.AddDate(0, 0, -29).Format(DateLayout)
	}

	tx := e.db.Where("student_id = ?", studentID)
	if start != "" {
		tx = tx.Where("date >= ?", start)
	}
	if end != "" {
		tx = tx.Where("date <= ?", end)
	}

	rows := []models.Attendance{}
	if err := tx.Order("date DESC, created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// StudentToday returns today's record for the student, or (nil, nil)
// when none exists.
func (e *Engine) StudentToday(studentID uint) (*models.Attendance, error) {
	var rec models.Attendance
	err := e.db.
		Where("student_id = ? AND date = ?", studentID, e.Today()).
		Order("id DESC").
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}
