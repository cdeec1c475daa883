// Package auth checks the admin credentials and issues the tokens that guard the
// analytics dashboard and the content editor.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"lensfolio/api/models"
	"lensfolio/api/utils"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Audiences keep tokens for one admin surface from opening the other.
const (
	AudienceAnalytics = "analytics"
	AudienceEditor    = "content-editor"
)

const TokenTTL = 24 * time.Hour

type Verifier struct {
	email        string
	passwordHash []byte
	secret       []byte
	now          func() time.Time
}

// NewVerifier builds a verifier for the single admin. When passwordHash is empty the
// plain password is hashed once here.
func NewVerifier(email, password, passwordHash, secret string) (*Verifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("token signing secret is required")
	}
	hash := []byte(passwordHash)
	if len(hash) == 0 {
		if password == "" {
			return nil, fmt.Errorf("admin password or password hash is required")
		}
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash admin password: %w", err)
		}
	}
	return &Verifier{
		email:        strings.ToLower(strings.TrimSpace(email)),
		passwordHash: hash,
		secret:       []byte(secret),
		now:          time.Now,
	}, nil
}

// VerifyPassword compares password against the stored hash.
func (v *Verifier) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(v.passwordHash, []byte(password)) == nil
}

// Authenticate checks both email and password. The hash comparison runs even when
// the email is wrong so the two failures take the same time.
func (v *Verifier) Authenticate(email, password string) (*models.Identity, error) {
	given := strings.ToLower(strings.TrimSpace(email))
	emailOK := subtle.ConstantTimeCompare([]byte(given), []byte(v.email)) == 1
	passwordOK := v.VerifyPassword(password)
	if !emailOK || !passwordOK {
		return nil, ErrInvalidCredentials
	}
	return &models.Identity{Email: v.email, Role: models.RoleAdmin}, nil
}

// IssueToken signs identity for audience with a 24h lifetime.
func (v *Verifier) IssueToken(identity *models.Identity, audience string) (string, error) {
	now := v.now()
	return utils.GenerateJWT(v.secret, identity.Email, identity.Role, audience, now, now.Add(TokenTTL))
}

// Validate returns the identity in token, or nil for any failure. Expired, forged and
// malformed tokens are indistinguishable to the caller.
func (v *Verifier) Validate(token, audience string) *models.Identity {
	if token == "" {
		return nil
	}
	claims, err := utils.ValidateJWT(v.secret, token, audience)
	if err != nil || claims.Role != models.RoleAdmin {
		return nil
	}
	return &models.Identity{Email: claims.Email, Role: claims.Role}
}
