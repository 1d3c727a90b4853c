package model

import "time"

// User represents an account that owns medicine records.
type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Username     string     `json:"username" gorm:"uniqueIndex;size:30;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	IsActive     bool       `json:"is_active" gorm:"default:true;not null"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relations
	Medicines []Medicine `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// RegisteredUser is the public view returned after registration.
type RegisteredUser struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// LoggedInUser is the public view returned after login.
type LoggedInUser struct {
	ID        uint       `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	LastLogin *time.Time `json:"last_login"`
}

// Profile is the full public profile of the current user.
type Profile struct {
	ID         uint       `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	IsActive   bool       `json:"is_active"`
	DateJoined time.Time  `json:"date_joined"`
	LastLogin  *time.Time `json:"last_login"`
}

// Registered returns the registration view of u.
func (u *User) Registered() RegisteredUser {
	return RegisteredUser{ID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}
}

// LoggedIn returns the login view of u.
func (u *User) LoggedIn() LoggedInUser {
	return LoggedInUser{ID: u.ID, Username: u.Username, Email: u.Email, LastLogin: u.LastLogin}
}

// Profile returns the full public profile of u.
func (u *User) Profile() Profile {
	return Profile{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		IsActive:   u.IsActive,
		DateJoined: u.CreatedAt,
		LastLogin:  u.LastLogin,
	}
}
