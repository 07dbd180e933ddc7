package models

import "time"

type Student struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	UserID   uint    `json:"user_id" gorm:"uniqueIndex;not null"`
	ClassID  uint    `json:"class_id" gorm:"index;not null"`
	NIS      string  `json:"nis" gorm:"size:30;uniqueIndex;not null"` // institution-issued student number
	NISN     *string `json:"nisn" gorm:"size:30"`                     // national student number (optional)
	FullName string  `json:"full_name" gorm:"size:120;not null"`
	Email    *string `json:"email" gorm:"size:120"`
	Phone    *string `json:"phone" gorm:"size:20"`
	Address  *string `json:"address" gorm:"type:text"`
	Photo    *string `json:"photo" gorm:"size:255"`

	User  User  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Class Class `json:"-" gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
