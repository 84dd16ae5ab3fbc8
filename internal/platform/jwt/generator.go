// Package jwtmw issues and validates HS256 bearer tokens and provides the gin auth middleware.
package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultLifetime is the validity window of an issued token.
const DefaultLifetime = 24 * time.Hour

// ErrEmptyKey is returned when the signing key is not configured.
var ErrEmptyKey = errors.New("jwt signing key is empty")

// Registered claim names. They always take precedence over a user's custom claims.
const (
	ClaimSubject    = "sub"
	ClaimID         = "jti"
	ClaimGivenName  = "given_name"
	ClaimFamilyName = "family_name"
	ClaimEmail      = "email"
	ClaimIssuer     = "iss"
	ClaimAudience   = "aud"
	ClaimIssuedAt   = "iat"
	ClaimExpiresAt  = "exp"
	ClaimNotBefore  = "nbf"
)

// registered holds the claim names a stored user claim may never set.
var registered = map[string]struct{}{
	ClaimSubject: {}, ClaimID: {}, ClaimGivenName: {}, ClaimFamilyName: {}, ClaimEmail: {},
	ClaimIssuer: {}, ClaimAudience: {}, ClaimIssuedAt: {}, ClaimExpiresAt: {}, ClaimNotBefore: {},
}

type Config struct {
	Key      string
	Issuer   string
	Audience string
	Lifetime time.Duration
}

// Claim is a (type, value) pair stored against a user.
type Claim struct {
	Type  string
	Value string
}

// Subject is the identity a token is issued for.
type Subject struct {
	Username   string
	GivenName  string
	FamilyName string
	Email      string
	Claims     []Claim
}

// Token is a signed token and its expiry instant.
type Token struct {
	Value      string
	Expiration time.Time
}

// Claims is the validated content of a bearer token.
type Claims struct {
	Subject    string
	ID         string
	GivenName  string
	FamilyName string
	Email      string
	ExpiresAt  time.Time
	// Custom holds every non-registered claim as decoded from JSON.
	Custom map[string]any
}

// Issuer signs and validates tokens with a symmetric key.
type Issuer struct {
	cfg Config
	now func() time.Time
}

// NewIssuer creates an Issuer. now may be nil, in which case time.Now is used.
func NewIssuer(cfg Config, now func() time.Time) *Issuer {
	if cfg.Lifetime <= 0 {
		cfg.Lifetime = DefaultLifetime
	}
	if now == nil {
		now = time.Now
	}
	return &Issuer{cfg: cfg, now: now}
}

// Issue builds the claim set for s and signs it with HS256.
func (i *Issuer) Issue(s Subject) (Token, error) {
	if i.cfg.Key == "" {
		return Token{}, ErrEmptyKey
	}

	issuedAt := i.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(i.cfg.Lifetime)

	claims := jwt.MapClaims{}
	for typ, values := range groupClaims(s.Claims) {
		if len(values) == 1 {
			claims[typ] = values[0]
		} else {
			claims[typ] = values
		}
	}

	claims[ClaimSubject] = s.Username
	claims[ClaimID] = uuid.NewString()
	claims[ClaimGivenName] = s.GivenName
	claims[ClaimFamilyName] = s.FamilyName
	claims[ClaimEmail] = s.Email
	claims[ClaimIssuer] = i.cfg.Issuer
	claims[ClaimAudience] = i.cfg.Audience
	claims[ClaimIssuedAt] = issuedAt.Unix()
	claims[ClaimExpiresAt] = expiresAt.Unix()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(i.cfg.Key))
	if err != nil {
		return Token{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return Token{Value: signed, Expiration: expiresAt}, nil
}

// groupClaims drops empty and registered claim types and groups repeated types.
func groupClaims(in []Claim) map[string][]string {
	out := make(map[string][]string, len(in))
	for _, c := range in {
		if c.Type == "" {
			continue
		}
		if _, ok := registered[c.Type]; ok {
			continue
		}
		out[c.Type] = append(out[c.Type], c.Value)
	}
	return out
}

// Validate verifies signature, algorithm, issuer, audience and expiry.
func (i *Issuer) Validate(tokenStr string) (*Claims, error) {
	if i.cfg.Key == "" {
		return nil, ErrEmptyKey
	}

	mc := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, mc, func(t *jwt.Token) (any, error) {
		return []byte(i.cfg.Key), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.cfg.Issuer),
		jwt.WithAudience(i.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, err
	}

	out := &Claims{Custom: map[string]any{}}
	for k, v := range mc {
		switch k {
		case ClaimSubject:
			out.Subject, _ = v.(string)
		case ClaimID:
			out.ID, _ = v.(string)
		case ClaimGivenName:
			out.GivenName, _ = v.(string)
		case ClaimFamilyName:
			out.FamilyName, _ = v.(string)
		case ClaimEmail:
			out.Email, _ = v.(string)
		case ClaimIssuer, ClaimAudience, ClaimIssuedAt, ClaimNotBefore:
		case ClaimExpiresAt:
			if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
				out.ExpiresAt = exp.Time.UTC()
			}
		default:
			out.Custom[k] = v
		}
	}
	if out.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return out, nil
}
