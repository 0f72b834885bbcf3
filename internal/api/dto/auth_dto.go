package dto

import (
	"math"
	"strconv"
	"strings"

	"github.com/spec-kit/fieldreport-auth/internal/domain"
)

// Validation messages returned to callers.
const (
	MsgPhoneRequired    = "Phone number is a required field"
	MsgPhoneInvalid     = "Phone number must be a valid phone number"
	MsgCodeInvalid      = "Code must be a valid OTP"
	MsgNameRequired     = "Name is a required field"
	MsgNameLength       = "Name must be between 1 and 100 characters"
	MsgEmailInvalid     = "Email must be a valid email"
	MsgGenderLength     = "Gender must be at most 32 characters"
	MsgAgeRange         = "Age must be between 0 and 150"
	MsgAgeType          = "Age must be a number"
	MsgAgeInteger       = "Age must be an integer"
	MsgOccupationLength = "Occupation must be at most 100 characters"
	MsgExpiresInType    = "Expires in must be a string or number"
	MsgRefreshRequired  = "Refresh token is a required field"
	MsgLogoutInvalid    = "Invalid access token"
	MsgInvalidPayload   = "Invalid request payload"
)

// SignInRequest payload. An empty Code starts a challenge.
type SignInRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Code        string `json:"code"`
}

func (r SignInRequest) Validate() error {
	return First(
		phoneRules(r.PhoneNumber),
		func() error {
			if r.Code != "" && !otpPattern.MatchString(r.Code) {
				return fieldError("code", MsgCodeInvalid)
			}
			return nil
		},
	)
}

// SignupRequest payload. ExpiresIn accepts a JSON string or number of
// minutes. Age accepts a JSON number or a numeric string.
type SignupRequest struct {
	Name        string  `json:"name"`
	PhoneNumber string  `json:"phoneNumber"`
	Email       *string `json:"email"`
	Gender      *string `json:"gender"`
	Age         any     `json:"age"`
	Occupation  *string `json:"occupation"`
	ExpiresIn   any     `json:"expiresIn"`
}

func (r SignupRequest) Validate() error {
	return First(
		func() error {
			if r.Name == "" {
				return fieldError("name", MsgNameRequired)
			}
			return MaxRunes("name", r.Name, 100, MsgNameLength)
		},
		phoneRules(r.PhoneNumber),
		func() error {
			if r.Email != nil && !ValidEmail(*r.Email) {
				return fieldError("email", MsgEmailInvalid)
			}
			return nil
		},
		func() error {
			if r.Gender == nil {
				return nil
			}
			return MaxRunes("gender", *r.Gender, 32, MsgGenderLength)
		},
		func() error {
			_, err := r.age()
			return err
		},
		func() error {
			if r.Occupation == nil {
				return nil
			}
			return MaxRunes("occupation", *r.Occupation, 100, MsgOccupationLength)
		},
		func() error {
			switch r.ExpiresIn.(type) {
			case nil, string, float64:
				return nil
			}
			return fieldError("expiresIn", MsgExpiresInType)
		},
	)
}

// Profile returns the profile fields of a validated request.
func (r SignupRequest) Profile() domain.Profile {
	age, _ := r.age()
	return domain.Profile{
		Name:       r.Name,
		Email:      r.Email,
		Gender:     r.Gender,
		Age:        age,
		Occupation: r.Occupation,
	}
}

func (r SignupRequest) age() (*int, error) {
	var value float64
	switch v := r.Age.(type) {
	case nil:
		return nil, nil
	case float64:
		value = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fieldError("age", MsgAgeType)
		}
		value = parsed
	default:
		return nil, fieldError("age", MsgAgeType)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, fieldError("age", MsgAgeType)
	}
	if value != math.Trunc(value) {
		return nil, fieldError("age", MsgAgeInteger)
	}
	if value < 0 || value > 150 {
		return nil, fieldError("age", MsgAgeRange)
	}
	age := int(value)
	return &age, nil
}

// ExpiresInString renders ExpiresIn for minute parsing. Absent values yield "".
func (r SignupRequest) ExpiresInString() string {
	switch v := r.ExpiresIn.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// ResendRequest payload.
type ResendRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

func (r ResendRequest) Validate() error {
	return First(phoneRules(r.PhoneNumber))
}

// RefreshTokenRequest payload shared by refresh and logout.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (r RefreshTokenRequest) Validate() error {
	return First(func() error {
		if r.RefreshToken == "" {
			return fieldError("refreshToken", MsgRefreshRequired)
		}
		return nil
	})
}

// SignInResponse is the result of a completed sign-in or sign-up.
type SignInResponse struct {
	AccessToken           string `json:"accessToken"`
	RefreshToken          string `json:"refreshToken"`
	ShowOnboardingModules bool   `json:"showOnboardingModules"`
}

// ActionResponse tells the client which step comes next.
type ActionResponse struct {
	Action domain.SignInAction `json:"action"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID          string            `json:"id"`
	PhoneNumber string            `json:"phoneNumber"`
	Name        *string           `json:"name"`
	Email       *string           `json:"email"`
	Gender      *string           `json:"gender"`
	Age         *int              `json:"age"`
	Occupation  *string           `json:"occupation"`
	Role        domain.UserRole   `json:"role"`
	Status      domain.UserStatus `json:"status"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		PhoneNumber: u.PhoneNumber,
		Name:        u.Name,
		Email:       u.Email,
		Gender:      u.Gender,
		Age:         u.Age,
		Occupation:  u.Occupation,
		Role:        u.Role,
		Status:      u.Status,
	}
}

// Envelope is the success body of every auth endpoint.
type Envelope struct {
	Message string `json:"message"`
	Result  any    `json:"result,omitempty"`
}
