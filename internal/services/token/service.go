package token

import (
	"encoding/base64"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bastiongames/bastion/internal/dependencies/clock"
	"github.com/bastiongames/bastion/internal/dependencies/random"
	"github.com/bastiongames/bastion/internal/model"
)

// refreshTokenBytes is the entropy of an opaque refresh token (256 bits).
// No uniqueness check against storage is needed at this size.
const refreshTokenBytes = 32

// Config holds configuration for the token service
type Config struct {
	// Secret is the symmetric HMAC-SHA256 signing secret; the same secret
	// validates every token this instance issues
	Secret string
	// Issuer and Audience are checked on every validation
	Issuer   string
	Audience string
	// AccessTokenTTL bounds the lifetime of issued access tokens
	AccessTokenTTL time.Duration
}

// DefaultConfig returns default token configuration
func DefaultConfig() Config {
	return Config{
		Issuer:         "bastion",
		Audience:       "bastion-client",
		AccessTokenTTL: time.Hour,
	}
}

// ClaimsSnapshot is the identity and progression state embedded into an
// access token at issuance. The snapshot is frozen into the token; later
// role or rating changes are not visible until the next login or refresh.
type ClaimsSnapshot struct {
	PlayerID    model.PlayerID
	Username    string
	Email       string
	Rating      int
	Level       int
	Roles       []string
	Permissions []string
}

// AccessClaims is the wire-format claim set of an access token
type AccessClaims struct {
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Rating      int      `json:"rating"`
	Level       int      `json:"level"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// PlayerID parses the subject claim back into a player id
func (c *AccessClaims) PlayerID() (model.PlayerID, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, model.ErrInvalidToken
	}
	return model.PlayerID(id), nil
}

// HasPermission reports whether the token's permission snapshot grants the
// named permission
func (c *AccessClaims) HasPermission(name string) bool {
	for _, p := range c.Permissions {
		if p == name {
			return true
		}
	}
	return false
}

// Service issues and validates access tokens and generates refresh tokens
type Service struct {
	cfg    Config
	clock  clock.Clock
	random random.Random
}

// New creates a new token service
func New(cfg Config, clk clock.Clock, rnd random.Random) *Service {
	if cfg.AccessTokenTTL == 0 {
		cfg.AccessTokenTTL = DefaultConfig().AccessTokenTTL
	}
	return &Service{
		cfg:    cfg,
		clock:  clk,
		random: rnd,
	}
}

// IssueAccessToken builds a signed, time-bounded access token embedding the
// claims snapshot. Returns the signed token and its expiry.
func (s *Service) IssueAccessToken(snapshot ClaimsSnapshot) (string, time.Time, error) {
	now := s.clock.Now()
	expiry := now.Add(s.cfg.AccessTokenTTL)

	claims := &AccessClaims{
		Username:    snapshot.Username,
		Email:       snapshot.Email,
		Rating:      snapshot.Rating,
		Level:       snapshot.Level,
		Roles:       snapshot.Roles,
		Permissions: snapshot.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   strconv.FormatInt(int64(snapshot.PlayerID), 10),
			Audience:  jwt.ClaimStrings{s.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiry, nil
}

// GenerateRefreshToken returns an opaque 256-bit random token encoded as
// URL-safe base64 without padding
func (s *Service) GenerateRefreshToken() (string, error) {
	b, err := s.random.Bytes(refreshTokenBytes)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// ValidateToken verifies the token's signature, issuer and audience, and —
// only when enforceExpiry is set — its expiry. enforceExpiry=false is used
// by the refresh flow to extract identity from an already-expired access
// token. Any verification failure returns model.ErrInvalidToken.
func (s *Service) ValidateToken(tokenString string, enforceExpiry bool) (*AccessClaims, error) {
	// Claims validation is done by hand below so the expired-token path can
	// still verify issuer and audience.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	parsed, err := parser.ParseWithClaims(tokenString, &AccessClaims{}, func(t *jwt.Token) (any, error) {
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, model.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok {
		return nil, model.ErrInvalidToken
	}

	if claims.Issuer != s.cfg.Issuer {
		return nil, model.ErrInvalidToken
	}
	if !containsAudience(claims.Audience, s.cfg.Audience) {
		return nil, model.ErrInvalidToken
	}

	if enforceExpiry {
		if claims.ExpiresAt == nil || !s.clock.Now().Before(claims.ExpiresAt.Time) {
			return nil, model.ErrInvalidToken
		}
	}

	return claims, nil
}

func containsAudience(aud jwt.ClaimStrings, want string) bool {
	for _, a := range aud {
		if a == want {
			return true
		}
	}
	return false
}
