package dto

import (
	"time"

	"github.com/spec-kit/maintenance-desk/internal/domain"
)

// RequestCodeRequest asks for a passcode against an email or phone.
type RequestCodeRequest struct {
	Identifier string `json:"identifier"`
}

// RequestCodeResponse reports issuance. Code is present only in test mode.
type RequestCodeResponse struct {
	Issued bool   `json:"issued"`
	Code   string `json:"code,omitempty"`
}

// VerifyCodeRequest exchanges identifier + code for a session.
type VerifyCodeRequest struct {
	Identifier string `json:"identifier"`
	Code       string `json:"code"`
}

// PersonResponse is the external person representation.
type PersonResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Role      domain.Role `json:"role"`
	Phone     string      `json:"phone,omitempty"`
	Email     string      `json:"email,omitempty"`
	AvatarURL string      `json:"avatarUrl,omitempty"`
}

// NewPersonResponse maps a domain person to its external shape.
func NewPersonResponse(person domain.Person) PersonResponse {
	return PersonResponse{
		ID:        person.ID,
		Name:      person.Name,
		Role:      person.Role,
		Phone:     person.Phone,
		Email:     person.Email,
		AvatarURL: person.AvatarURL,
	}
}

// VerifyCodeResponse carries the person and their session token.
type VerifyCodeResponse struct {
	Person    PersonResponse `json:"person"`
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
}

// SavePersonRequest is the admin create/update payload.
type SavePersonRequest struct {
	Name      string      `json:"name"`
	Role      domain.Role `json:"role"`
	Phone     string      `json:"phone"`
	Email     string      `json:"email"`
	AvatarURL string      `json:"avatarUrl"`
}
