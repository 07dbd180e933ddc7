package models

import "time"

// TeacherClass assigns a teacher to a class. One row per pair.
type TeacherClass struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	TeacherID uint `json:"teacher_id" gorm:"not null;uniqueIndex:uq_teacher_class"`
	ClassID   uint `json:"class_id" gorm:"not null;uniqueIndex:uq_teacher_class"`

	Teacher Teacher `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Class   Class   `json:"-" gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
}
