package models

import "time"

type Teacher struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	UserID   uint    `json:"user_id" gorm:"uniqueIndex;not null"`
	NIP      string  `json:"nip" gorm:"size:30;uniqueIndex;not null"` // staff number
	FullName string  `json:"full_name" gorm:"size:120;not null"`
	Email    *string `json:"email" gorm:"size:120"`
	Phone    *string `json:"phone" gorm:"size:20"`
	Address  *string `json:"address" gorm:"type:text"`
	Photo    *string `json:"photo" gorm:"size:255"`

	User User `json:"-" gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
