// Package attendance implements the attendance engine: the self-service
// check-in/check-out state machine, teacher-authored entry, report
// filtering and statistics aggregation over attendance rows.
package attendance

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/appdotbuilder/sekolah-absenku/models"
)

// DateLayout is the wire and storage format for calendar days.
const DateLayout = "2006-01-02"

// ErrMissingDateRange is returned by Report when either bound is absent.
var ErrMissingDateRange = errors.New("start_date and end_date are required")

// Engine runs attendance operations against an injected store handle.
// loc is the school's reference timezone: every "today" comparison uses
// it, regardless of the server's local zone.
type Engine struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

func NewEngine(db *gorm.DB, loc *time.Location) *Engine {
	return &Engine{db: db, loc: loc, now: time.Now}
}

// WithClock overrides the engine's clock. Tests only.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Today is the current calendar day in the reference timezone.
func (e *Engine) Today() string {
	return e.now().In(e.loc).Format(DateLayout)
}

// CheckIn records today's arrival for a student. The no-op cases
// (unknown student, or any record already existing for today) return
// (nil, nil) so the caller can render "already done" without error
// handling. The insert runs ON CONFLICT DO NOTHING against the
// one-self-recorded-row-per-day index, so two racing check-ins cannot
// produce duplicate rows: the loser sees zero rows affected and gets
// the same no-op signal.
func (e *Engine) CheckIn(studentID uint) (*models.Attendance, error) {
	var student models.Student
	if err := e.db.First(&student, studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	today := e.Today()
	var count int64
	if err := e.db.Model(&models.Attendance{}).
		Where("student_id = ? AND date = ?", studentID, today).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, nil
	}

	now := e.now().In(e.loc)
	rec := models.Attendance{
		StudentID:   studentID,
		ClassID:     student.ClassID,
		Date:        today,
		Status:      models.StatusPresent,
		CheckInTime: &now,
	}
	res := e.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rec)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// lost the race to a concurrent check-in
		return nil, nil
	}
	return &rec, nil
}

// CheckOut closes today's record. No-op (nil, nil) when no record
// exists for today, the record has no check-in, or it is already
// checked out. The conditional update keeps concurrent check-outs
// idempotent: only one of them can flip check_out_time from NULL.
func (e *Engine) CheckOut(studentID uint) (*models.Attendance, error) {
	today := e.Today()

	var rec models.Attendance
	err := e.db.
		Where("student_id = ? AND date = ? AND check_in_time IS NOT NULL AND check_out_time IS NULL", studentID, today).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	now := e.now().In(e.loc)
	res := e.db.Model(&models.Attendance{}).
		Where("id = ? AND check_out_time IS NULL", rec.ID).
		Updates(map[string]any{"check_out_time": now, "updated_at": now})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	if err := e.db.First(&rec, rec.ID).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}
