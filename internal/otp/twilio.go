package otp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/twilio/twilio-go"
	"github.com/twilio/twilio-go/client"
	verify "github.com/twilio/twilio-go/rest/verify/v2"
)

// verifyAPI is the subset of the Twilio Verify v2 client in use.
type verifyAPI interface {
	CreateVerification(serviceSid string, params *verify.CreateVerificationParams) (*verify.VerifyV2Verification, error)
	CreateVerificationCheck(serviceSid string, params *verify.CreateVerificationCheckParams) (*verify.VerifyV2VerificationCheck, error)
}

// codeVerificationNotFound is returned by Verify when the verification has
// expired, was already approved or ran out of attempts.
const codeVerificationNotFound = 20404

// TwilioGateway delegates codes to a Twilio Verify service.
type TwilioGateway struct {
	api        verifyAPI
	serviceSID string
	channel    string
}

// NewTwilioGateway builds a gateway from account credentials.
func NewTwilioGateway(accountSID, authToken, serviceSID, channel string) *TwilioGateway {
	rest := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return newTwilioGateway(rest.VerifyV2, serviceSID, channel)
}

func newTwilioGateway(api verifyAPI, serviceSID, channel string) *TwilioGateway {
	if channel == "" {
		channel = "sms"
	}
	return &TwilioGateway{api: api, serviceSID: serviceSID, channel: channel}
}

// Send starts a verification. The Twilio client does not take a context, so
// cancellation is left to its HTTP timeouts.
func (g *TwilioGateway) Send(_ context.Context, phoneNumber string) (SendResult, error) {
	params := &verify.CreateVerificationParams{}
	params.SetTo(phoneNumber)
	params.SetChannel(g.channel)

	resp, err := g.api.CreateVerification(g.serviceSID, params)
	if err != nil {
		return SendResult{}, fmt.Errorf("twilio create verification: %w", err)
	}
	if resp == nil || resp.Status == nil {
		return SendResult{}, nil
	}
	return SendResult{Status: *resp.Status}, nil
}

// Verify checks code against the pending verification for phoneNumber. A
// missing verification counts as a wrong code.
func (g *TwilioGateway) Verify(_ context.Context, phoneNumber, code string) (bool, error) {
	params := &verify.CreateVerificationCheckParams{}
	params.SetTo(phoneNumber)
	params.SetCode(code)

	resp, err := g.api.CreateVerificationCheck(g.serviceSID, params)
	if isVerificationNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("twilio verification check: %w", err)
	}
	return resp != nil && resp.Status != nil && *resp.Status == StatusApproved, nil
}

func isVerificationNotFound(err error) bool {
	var restErr *client.TwilioRestError
	if !errors.As(err, &restErr) {
		return false
	}
	return restErr.Code == codeVerificationNotFound || restErr.Status == http.StatusNotFound
}
