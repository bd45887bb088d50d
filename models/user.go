package models

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"column:username;unique;not null;size:50;index" json:"username"`
	Email        string    `gorm:"column:email;unique;not null;size:100;index" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null;size:100" json:"-"`
	Phone        string    `gorm:"column:phone;size:20" json:"phone,omitempty"`
	Address      string    `gorm:"column:address;size:255" json:"address,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updated_at;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate хук для валидации перед созданием
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if len(u.Username) < 3 || len(u.Username) > 50 {
		return errors.New("username must be between 3 and 50 characters")
	}
	if len(u.Email) < 3 || len(u.Email) > 100 || !strings.Contains(u.Email, "@") {
		return errors.New("email must be a valid address")
	}
	if u.PasswordHash == "" {
		return errors.New("password hash must not be empty")
	}
	return nil
}
