package attendance

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/appdotbuilder/sekolah-absenku/models"
)

// CreateInput is one teacher-authored attendance row.
type CreateInput struct {
	StudentID    uint
	ClassID      uint
	TeacherID    *uint
	Date         string
	Status       string
	CheckInTime  *time.Time
	CheckOutTime *time.Time
	Notes        *string
}

func (in CreateInput) record() models.Attendance {
	return models.Attendance{
		StudentID:    in.StudentID,
		ClassID:      in.ClassID,
		TeacherID:    in.TeacherID,
		Date:         in.Date,
		Status:       in.Status,
		CheckInTime:  in.CheckInTime,
		CheckOutTime: in.CheckOutTime,
		Notes:        in.Notes,
	}
}

// Create inserts one row. Unlike CheckIn there is no same-day
// uniqueness check when a teacher is attributed: teachers may author
// corrections alongside an existing record. A missing student, class
// or teacher surfaces as gorm.ErrForeignKeyViolated.
func (e *Engine) Create(in CreateInput) (*models.Attendance, error) {
	rec := in.record()
	if err := e.db.Create(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// BulkCreate inserts all rows in one transaction, all-or-nothing.
// An empty input is a valid no-op.
func (e *Engine) BulkCreate(ins []CreateInput) ([]models.Attendance, error) {
	recs := make([]models.Attendance, 0, len(ins))
	if len(ins) == 0 {
		return recs, nil
	}
	for _, in := range ins {
		recs = append(recs, in.record())
	}
	err := e.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&recs).Error
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// UpdateInput carries the fields of a partial update; nil means
// "leave unchanged".
type UpdateInput struct {
	Status       *string
	CheckInTime  *time.Time
	CheckOutTime *time.Time
	Notes        *string
}

// Update applies a partial update. updated_at advances even when no
// field is supplied. Returns (nil, nil) when the id does not exist.
func (e *Engine) Update(id uint, in UpdateInput) (*models.Attendance, error) {
	var rec models.Attendance
	if err := e.db.First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	updates := map[string]any{"updated_at": e.now().In(e.loc)}
	if in.Status != nil {
		updates["status"] = *in.Status
	}
	if in.CheckInTime != nil {
		updates["check_in_time"] = *in.CheckInTime
	}
	if in.CheckOutTime != nil {
		updates["check_out_time"] = *in.CheckOutTime
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}
	if err := e.db.Model(&rec).Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := e.db.First(&rec, id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}
