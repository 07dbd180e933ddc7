package models

import "time"

const (
	StatusPresent    = "present"
	StatusPermission = "permission"
	StatusSick       = "sick"
	StatusAbsent     = "absent"
)

// Attendance is one student's record for one calendar day.
// A null TeacherID means the row was self-recorded via check-in;
// the partial unique index keeps self-recorded rows to one per
// student per day and lets concurrent check-ins race safely
// (the loser's insert becomes a no-op).
type Attendance struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	StudentID    uint       `json:"student_id" gorm:"not null;index;uniqueIndex:uq_attendance_self_day,where:teacher_id IS NULL"`
	ClassID      uint       `json:"class_id" gorm:"not null;index"`
	TeacherID    *uint      `json:"teacher_id"`
	Date         string     `json:"date" gorm:"size:10;not null;index;uniqueIndex:uq_attendance_self_day"` // YYYY-MM-DD
	Status       string     `json:"status" gorm:"size:20;not null"`                                        // present | permission | sick | absent
	CheckInTime  *time.Time `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time"`
	Notes        *string    `json:"notes" gorm:"type:text"`

	Student Student  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Class   Class    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Teacher *Teacher `json:"-" gorm:"constraint:OnDelete:SET NULL"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidStatus reports whether s is one of the four attendance statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPresent, StatusPermission, StatusSick, StatusAbsent:
		return true
	}
	return false
}
