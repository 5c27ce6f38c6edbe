package models

import "time"

// User represents an account. Hard-deleted, so no gorm.Model embedding.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Username       string    `json:"username" gorm:"uniqueIndex:ix_users_username;type:varchar(50);not null"`
	Email          string    `json:"email" gorm:"uniqueIndex:ix_users_email;type:varchar(120);not null"`
	FullName       *string   `json:"full_name" gorm:"type:varchar(120)"`
	HashedPassword string    `json:"-" gorm:"type:varchar(255);not null"` // never serialised
	IsActive       bool      `json:"is_active" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName pins the table created by the 0001 migration.
func (User) TableName() string {
	return "users"
}

// UserResponse is the public view of a user returned by the API.
type UserResponse struct {
	ID       uint    `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
	IsActive bool    `json:"is_active"`
}

// ToResponse strips everything that must not leave the service.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
		IsActive: u.IsActive,
	}
}

// NewUserResponses converts a page of users.
func NewUserResponses(users []User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToResponse())
	}
	return out
}

// CreateUserRequest is the body of both self-registration and admin creation.
type CreateUserRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=50"`
	Email    string  `json:"email" validate:"required,email,max=120"`
	FullName *string `json:"full_name" validate:"omitempty,max=120"`
	Password string  `json:"password" validate:"required,min=6,max=72"`
	IsActive *bool   `json:"is_active"`
}

// UserUpdate carries a partial update. Absent or null fields stay unchanged.
type UserUpdate struct {
	Email    Optional[string] `json:"email" validate:"omitnil,email,max=120"`
	FullName Optional[string] `json:"full_name" validate:"omitempty,max=120"`
	Password Optional[string] `json:"password" validate:"omitnil,min=6,max=72"`
	IsActive Optional[bool]   `json:"is_active"`
}

// LoginRequest accepts both JSON and the OAuth2 password form.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// TokenResponse is returned by register and login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// NewTokenResponse wraps a bearer token.
func NewTokenResponse(token string) TokenResponse {
	return TokenResponse{AccessToken: token, TokenType: "bearer"}
}
