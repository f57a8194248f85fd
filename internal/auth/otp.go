package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/hongminglow/km-agri-be/internal/models"
)

// DefaultOTPTTL is how long a one-time code stays valid.
const DefaultOTPTTL = 5 * time.Minute

var (
	// ErrOTPMissing indicates no code is outstanding for the user.
	ErrOTPMissing = errors.New("no OTP found")
	// ErrOTPExpired indicates the outstanding code is past its expiry.
	ErrOTPExpired = errors.New("OTP has expired")
	// ErrOTPMismatch indicates the supplied code differs from the stored one.
	ErrOTPMismatch = errors.New("invalid OTP")
)

// OTPIssuer generates and checks the six digit codes stored on users.
type OTPIssuer struct {
	ttl time.Duration
	now func() time.Time
}

// NewOTPIssuer returns an issuer whose codes live for ttl. A nil clock
// means time.Now.
func NewOTPIssuer(ttl time.Duration, now func() time.Time) *OTPIssuer {
	if ttl <= 0 {
		ttl = DefaultOTPTTL
	}
	if now == nil {
		now = time.Now
	}
	return &OTPIssuer{ttl: ttl, now: now}
}

// Issue stores a fresh code on user, replacing any previous one, and
// returns it.
func (o *OTPIssuer) Issue(user *models.User) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64()+100000)
	expiry := o.now().Add(o.ttl)
	user.OTP = code
	user.OTPExpiry = &expiry
	return code, nil
}

// Verify checks code against the one stored on user. On success the code
// is cleared, the phone marked verified and the login time stamped. On
// failure user is left untouched.
func (o *OTPIssuer) Verify(user *models.User, code string) error {
	if user.OTP == "" || user.OTPExpiry == nil {
		return ErrOTPMissing
	}
	now := o.now()
	if now.After(*user.OTPExpiry) {
		return ErrOTPExpired
	}
	if subtle.ConstantTimeCompare([]byte(user.OTP), []byte(code)) != 1 {
		return ErrOTPMismatch
	}
	user.ClearOTP()
	user.PhoneVerified = true
	user.LastLogin = &now
	return nil
}

// TTL is how long issued codes stay valid.
func (o *OTPIssuer) TTL() time.Duration {
	return o.ttl
}
