package domain

// SignInAction tells the client which step of the OTP flow comes next.
type SignInAction string

const (
	ActionProceedWithOTP    SignInAction = "proceed-with-otp"
	ActionProceedWithSignup SignInAction = "proceed-with-signup"
)

// TokenPair is the result of a successful sign-in or sign-up.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// SignInResult describes the outcome of an initiate or verify call.
type SignInResult struct {
	Created               bool
	Action                SignInAction
	Tokens                *TokenPair
	ShowOnboardingModules bool
}

// SignupResult describes a completed sign-up.
type SignupResult struct {
	Tokens                TokenPair
	Status                UserStatus
	ShowOnboardingModules bool
}
