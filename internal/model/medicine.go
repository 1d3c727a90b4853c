package model

import "time"

// Medicine is a medicine entry owned by exactly one user.
type Medicine struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null;index"`
	Dosage    string    `json:"dosage" gorm:"size:100;not null"`
	Frequency string    `json:"frequency" gorm:"size:100;not null"`
	UserID    uint      `json:"-" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
