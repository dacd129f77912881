package stellar

import "time"

// Tokens is the token pair issued by the authentication endpoints.
// ExpiresIn is the access token lifetime in seconds; when the server omits
// it, expiry is inferred from the access token's exp claim.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int64  `json:"expiresIn,omitempty"`
}

// Profile holds the mutable, user-editable part of an account.
type Profile struct {
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Bio         string `json:"bio,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// User is an account as returned by the API.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role,omitempty"`
	Status    string    `json:"status,omitempty"`
	Verified  bool      `json:"verified,omitempty"`
	Profile   *Profile  `json:"profile,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// AuthResponse is returned by the register, login, and refresh endpoints.
type AuthResponse struct {
	Message string  `json:"message,omitempty"`
	User    *User   `json:"user,omitempty"`
	Tokens  *Tokens `json:"tokens,omitempty"`
}

// MessageResponse is the generic acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports server liveness.
type HealthResponse struct {
	Status  string  `json:"status"`
	Uptime  float64 `json:"uptime,omitempty"`
	Version string  `json:"version,omitempty"`
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Profile  *Profile `json:"profile,omitempty"`
}

// ProfileUpdate carries partial account changes. Zero-value fields are
// omitted from the request so the server leaves them untouched.
type ProfileUpdate struct {
	Username string   `json:"username,omitempty"`
	Email    string   `json:"email,omitempty"`
	Profile  *Profile `json:"profile,omitempty"`
}

// Pagination describes the page window of a list response.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
	TotalItems int `json:"totalItems"`
}

// UsersPage is one page of the user listing.
type UsersPage struct {
	Users      []User     `json:"users"`
	Pagination Pagination `json:"pagination"`
}

// ListUsersOptions filters and pages the user listing. Zero values are
// omitted and the server applies its defaults.
type ListUsersOptions struct {
	Page   int
	Limit  int
	Sort   string
	Status string
	Role   string
	Search string
}
