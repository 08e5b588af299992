package api

import (
	"context"
	"fmt"
)

type otpRequest struct {
	Phone string `json:"phone"`
}

type verifyRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

// Verified is the server's answer to a successful OTP check.
type Verified struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Profile is the student profile completion payload.
type Profile struct {
	StudentID int    `json:"studentId"`
	FullName  string `json:"full_name"`
	Grade     string `json:"grade,omitempty"`
	Board     string `json:"board,omitempty"`
	City      string `json:"city,omitempty"`
}

// SendOTP asks the server to text a one-time code to the phone number.
func (c *Client) SendOTP(ctx context.Context, phone string) error {
	if err := c.post(ctx, "/student/auth/send-otp", otpRequest{Phone: phone}, nil); err != nil {
		return fmt.Errorf("send otp: %w", err)
	}
	return nil
}

// VerifyOTP exchanges the code for a bearer token and user identity.
func (c *Client) VerifyOTP(ctx context.Context, phone, otp string) (Verified, error) {
	var out Verified
	if err := c.post(ctx, "/student/auth/verify-otp", verifyRequest{Phone: phone, OTP: otp}, &out); err != nil {
		return Verified{}, fmt.Errorf("verify otp: %w", err)
	}
	if out.Token == "" {
		return Verified{}, fmt.Errorf("%w: verify response carried no token", ErrProtocol)
	}
	return out, nil
}

// CompleteProfile fills in the student profile after first login.
func (c *Client) CompleteProfile(ctx context.Context, p Profile) error {
	if err := c.post(ctx, "/student/profile", p, nil); err != nil {
		return fmt.Errorf("complete profile: %w", err)
	}
	return nil
}
