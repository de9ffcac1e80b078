// internal/domain/user/entity.go
package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents the user entity
type User struct {
	ID          string     `gorm:"type:uuid;primaryKey" json:"id"`
	Username    string     `gorm:"uniqueIndex;not null;size:100" json:"username"`
	Email       string     `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password    string     `gorm:"not null;size:255" json:"-"` // Don't return in JSON
	FirstName   string     `gorm:"size:100" json:"first_name"`
	LastName    string     `gorm:"size:100" json:"last_name"`
	Phone       string     `gorm:"size:20" json:"phone"`
	Address     string     `gorm:"size:500" json:"address"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	// IsAdmin is only ever set by trusted server-side code paths
	IsAdmin   bool      `gorm:"default:false" json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns the UUID and normalizes the email
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = strings.ToLower(u.Email)
	return nil
}

// GetFullName returns the user's full name
func (u *User) GetFullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// GetDisplayName returns display name (full name or username)
func (u *User) GetDisplayName() string {
	if fullName := u.GetFullName(); fullName != "" {
		return fullName
	}
	return u.Username
}
