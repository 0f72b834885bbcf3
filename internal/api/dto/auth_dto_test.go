package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/fieldreport-auth/pkg/util"
)

func strPtr(s string) *string { return &s }

func requireMessage(t *testing.T, err error, message string) {
	t.Helper()
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeValidation, de.Code)
	assert.Equal(t, message, de.Message)
}

func TestSignInRequestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  SignInRequest
		msg  string
	}{
		{"initiate", SignInRequest{PhoneNumber: "+910000000001"}, ""},
		{"verify", SignInRequest{PhoneNumber: "+910000000001", Code: "111111"}, ""},
		{"missing phone", SignInRequest{Code: "1234"}, MsgPhoneRequired},
		{"local format", SignInRequest{PhoneNumber: "09876543210"}, MsgPhoneInvalid},
		{"letters", SignInRequest{PhoneNumber: "+91abc"}, MsgPhoneInvalid},
		{"short code", SignInRequest{PhoneNumber: "+910000000001", Code: "12"}, MsgCodeInvalid},
		{"alpha code", SignInRequest{PhoneNumber: "+910000000001", Code: "12ab56"}, MsgCodeInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.msg == "" {
				assert.NoError(t, err)
				return
			}
			requireMessage(t, err, tt.msg)
		})
	}
}

func TestSignupRequestValidate(t *testing.T) {
	valid := func() SignupRequest {
		return SignupRequest{Name: "Asha", PhoneNumber: "+910000000001"}
	}
	long := make([]rune, 101)
	for i := range long {
		long[i] = 'a'
	}

	tests := []struct {
		name   string
		mutate func(*SignupRequest)
		msg    string
	}{
		{"minimal", func(*SignupRequest) {}, ""},
		{"full", func(r *SignupRequest) {
			r.Email = strPtr("asha@example.com")
			r.Gender = strPtr("female")
			r.Age = float64(31)
			r.Occupation = strPtr("Fisher")
			r.ExpiresIn = "30"
		}, ""},
		{"numeric expiry", func(r *SignupRequest) { r.ExpiresIn = float64(30) }, ""},
		{"name checked before phone", func(r *SignupRequest) { r.Name = ""; r.PhoneNumber = "" }, MsgNameRequired},
		{"long name", func(r *SignupRequest) { r.Name = string(long) }, MsgNameLength},
		{"bad phone", func(r *SignupRequest) { r.PhoneNumber = "123" }, MsgPhoneInvalid},
		{"bad email", func(r *SignupRequest) { r.Email = strPtr("asha@") }, MsgEmailInvalid},
		{"display name email", func(r *SignupRequest) { r.Email = strPtr("Asha <asha@example.com>") }, MsgEmailInvalid},
		{"long gender", func(r *SignupRequest) { r.Gender = strPtr(string(long[:33])) }, MsgGenderLength},
		{"numeric string age", func(r *SignupRequest) { r.Age = "25" }, ""},
		{"negative age", func(r *SignupRequest) { r.Age = float64(-1) }, MsgAgeRange},
		{"old age", func(r *SignupRequest) { r.Age = float64(151) }, MsgAgeRange},
		{"old age as string", func(r *SignupRequest) { r.Age = "200" }, MsgAgeRange},
		{"fractional age", func(r *SignupRequest) { r.Age = 25.5 }, MsgAgeInteger},
		{"word age", func(r *SignupRequest) { r.Age = "twenty" }, MsgAgeType},
		{"bool age", func(r *SignupRequest) { r.Age = true }, MsgAgeType},
		{"long occupation", func(r *SignupRequest) { r.Occupation = strPtr(string(long)) }, MsgOccupationLength},
		{"object expiry", func(r *SignupRequest) { r.ExpiresIn = map[string]any{} }, MsgExpiresInType},
		{"bool expiry", func(r *SignupRequest) { r.ExpiresIn = true }, MsgExpiresInType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)
			err := req.Validate()
			if tt.msg == "" {
				assert.NoError(t, err)
				return
			}
			requireMessage(t, err, tt.msg)
		})
	}
}

func TestSignupRequestExpiresInFromJSON(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"expiresIn":30}`, "30"},
		{`{"expiresIn":1.5}`, "1.5"},
		{`{"expiresIn":"45"}`, "45"},
		{`{}`, ""},
		{`{"expiresIn":null}`, ""},
	}
	for _, tt := range tests {
		var req SignupRequest
		require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
		assert.Equal(t, tt.want, req.ExpiresInString(), tt.body)
	}
}

func TestSignupRequestProfile(t *testing.T) {
	req := SignupRequest{Name: "Asha", Email: strPtr("asha@example.com"), Age: float64(31)}
	p := req.Profile()
	assert.Equal(t, "Asha", p.Name)
	assert.Equal(t, "asha@example.com", *p.Email)
	assert.Equal(t, 31, *p.Age)
	assert.Nil(t, p.Gender)
}

func TestSignupRequestAgeFromJSON(t *testing.T) {
	tests := []struct {
		body string
		want *int
		msg  string
	}{
		{`{"age":25}`, func() *int { v := 25; return &v }(), ""},
		{`{"age":"25"}`, func() *int { v := 25; return &v }(), ""},
		{`{"age":null}`, nil, ""},
		{`{"age":25.5}`, nil, MsgAgeInteger},
		{`{"age":"abc"}`, nil, MsgAgeType},
		{`{"age":[25]}`, nil, MsgAgeType},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			var req SignupRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			req.Name = "Asha"
			req.PhoneNumber = "+910000000001"

			err := req.Validate()
			if tt.msg != "" {
				requireMessage(t, err, tt.msg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.Profile().Age)
		})
	}
}

func TestRefreshTokenRequestValidate(t *testing.T) {
	requireMessage(t, RefreshTokenRequest{}.Validate(), MsgRefreshRequired)
	assert.NoError(t, RefreshTokenRequest{RefreshToken: "abc"}.Validate())
}

func TestResendRequestValidate(t *testing.T) {
	requireMessage(t, ResendRequest{}.Validate(), MsgPhoneRequired)
	assert.NoError(t, ResendRequest{PhoneNumber: "+14155550123"}.Validate())
}

func TestValidationErrorNamesField(t *testing.T) {
	de := apperrors.ToDomainError(ResendRequest{PhoneNumber: "x"}.Validate())
	assert.Equal(t, "phoneNumber", de.Details["field"])
}
