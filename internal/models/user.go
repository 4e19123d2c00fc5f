// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Username     string     `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	Role         UserRole   `json:"role" gorm:"type:varchar(20);default:'member'"`
	Status       UserStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	CompanyName  string     `json:"company_name" gorm:"size:255"`
	Phone        string     `json:"phone" gorm:"size:30"`
	ProfileData  JSONB      `json:"profile_data" gorm:"type:jsonb"`
	LastLoginAt  *time.Time `json:"last_login_at"`

	// Relationships
	Wishes        []Wish              `json:"wishes,omitempty" gorm:"foreignKey:UserID"`
	Offers        []Offer             `json:"offers,omitempty" gorm:"foreignKey:UserID"`
	Registrations []EventRegistration `json:"registrations,omitempty" gorm:"foreignKey:UserID"`
	JobPosts      []JobPost           `json:"job_posts,omitempty" gorm:"foreignKey:PosterID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// CanAuthenticate reports whether the account may sign in or refresh a
// session. Suspended and banned accounts may not.
func (u *User) CanAuthenticate() bool {
	return u.Status == UserStatusActive
}
