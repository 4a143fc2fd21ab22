package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/bastiongames/bastion/internal/dependencies/clock"
	"github.com/bastiongames/bastion/internal/model"
	"github.com/bastiongames/bastion/internal/services/access"
	"github.com/bastiongames/bastion/internal/services/token"
	"github.com/bastiongames/bastion/internal/storage"
)

// Config holds configuration for the session lifecycle
type Config struct {
	// DefaultRoleName is assigned to every new player at registration
	DefaultRoleName string
	// RefreshTokenTTL is the lifetime of refresh tokens issued by register,
	// refresh and non-remembered logins
	RefreshTokenTTL time.Duration
	// RememberMeTTL is the refresh token lifetime for remembered logins
	RememberMeTTL time.Duration
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		DefaultRoleName: access.DefaultRoleName,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		RememberMeTTL:   30 * 24 * time.Hour,
	}
}

// RegisterParams is the input to Register
type RegisterParams struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// LoginParams is the input to Login. Identifier may be a username or an
// email address.
type LoginParams struct {
	Identifier string
	Password   string
	RememberMe bool
}

// AuthResult is returned by every successful session operation that mints
// credentials
type AuthResult struct {
	PlayerID     model.PlayerID
	Username     string
	Email        string
	Rating       int
	Level        int
	Roles        []string
	AccessToken  string
	RefreshToken string
	TokenExpiry  time.Time
}

// Service orchestrates register, login, refresh and logout
type Service struct {
	cfg      Config
	store    storage.Storage
	tokens   *token.Service
	resolver *access.Resolver
	clock    clock.Clock
}

// New creates a new session service
func New(cfg Config, store storage.Storage, tokens *token.Service, resolver *access.Resolver, clk clock.Clock) *Service {
	def := DefaultConfig()
	if cfg.DefaultRoleName == "" {
		cfg.DefaultRoleName = def.DefaultRoleName
	}
	if cfg.RefreshTokenTTL == 0 {
		cfg.RefreshTokenTTL = def.RefreshTokenTTL
	}
	if cfg.RememberMeTTL == 0 {
		cfg.RememberMeTTL = def.RememberMeTTL
	}
	return &Service{
		cfg:      cfg,
		store:    store,
		tokens:   tokens,
		resolver: resolver,
		clock:    clk,
	}
}

// Register creates a new player account. The player record, its profile,
// statistic and default role assignment are written as one atomic unit, so
// a uniqueness conflict leaves nothing behind.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	if violations := ValidateRegistration(params); len(violations) > 0 {
		return nil, &model.ValidationError{Violations: violations}
	}

	role, err := s.store.GetRoleByName(ctx, s.cfg.DefaultRoleName)
	if err != nil {
		return nil, fmt.Errorf("looking up default role: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generating refresh token: %w", err)
	}

	now := s.clock.Now()
	player := &model.Player{
		Username:           params.Username,
		Email:              params.Email,
		PasswordHash:       string(hash),
		RefreshToken:       refreshToken,
		RefreshTokenExpiry: now.Add(s.cfg.RefreshTokenTTL),
		LastLogin:          now,
		LoginCount:         1,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	err = s.store.CreatePlayer(ctx, player,
		model.NewPlayerProfile(),
		model.NewPlayerStatistic(),
		[]model.RoleID{role.ID})
	if err != nil {
		return nil, err
	}

	return s.issue(ctx, player)
}

// Login authenticates a player by username or email and rotates their
// refresh token
func (s *Service) Login(ctx context.Context, params LoginParams) (*AuthResult, error) {
	if violations := ValidateLogin(params); len(violations) > 0 {
		return nil, &model.ValidationError{Violations: violations}
	}

	player, err := s.lookupByIdentifier(ctx, params.Identifier)
	if err != nil {
		return nil, err
	}

	if player.Banned {
		return nil, fmt.Errorf("%w: %s", model.ErrAccountBanned, player.BanReason)
	}

	if bcrypt.CompareHashAndPassword([]byte(player.PasswordHash), []byte(params.Password)) != nil {
		return nil, model.ErrInvalidCredentials
	}

	refreshToken, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generating refresh token: %w", err)
	}

	ttl := s.cfg.RefreshTokenTTL
	if params.RememberMe {
		ttl = s.cfg.RememberMeTTL
	}

	now := s.clock.Now()
	player.RefreshToken = refreshToken
	player.RefreshTokenExpiry = now.Add(ttl)
	player.LastLogin = now
	player.LoginCount++
	player.UpdatedAt = now
	if err := s.store.UpdatePlayer(ctx, player); err != nil {
		return nil, err
	}

	return s.issue(ctx, player)
}

// Refresh exchanges a possibly-expired access token plus the current
// refresh token for fresh credentials. Rotation is a compare-and-swap in
// storage, so a concurrent refresh with the same stored token succeeds at
// most once; the loser sees ErrInvalidRefreshToken.
func (s *Service) Refresh(ctx context.Context, accessToken, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, model.NewValidationError("refreshToken", "is required")
	}

	claims, err := s.tokens.ValidateToken(accessToken, false)
	if err != nil {
		return nil, err
	}
	playerID, err := claims.PlayerID()
	if err != nil {
		return nil, err
	}

	player, err := s.store.GetPlayer(ctx, playerID)
	if errors.Is(err, model.ErrPlayerNotFound) {
		return nil, model.ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}

	if player.RefreshToken != refreshToken {
		return nil, model.ErrInvalidRefreshToken
	}
	if !s.clock.Now().Before(player.RefreshTokenExpiry) {
		return nil, model.ErrRefreshTokenExpired
	}

	next, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generating refresh token: %w", err)
	}

	expiry := s.clock.Now().Add(s.cfg.RefreshTokenTTL)
	err = s.store.RotateRefreshToken(ctx, playerID, refreshToken, next, expiry)
	if errors.Is(err, model.ErrRefreshTokenMismatch) {
		return nil, model.ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, err
	}

	player.RefreshToken = next
	player.RefreshTokenExpiry = expiry
	return s.issue(ctx, player)
}

// Logout revokes the player's refresh token by overwriting it with a fresh
// unusable value and backdating its expiry. Access tokens already in the
// wild stay valid until their own expiry.
func (s *Service) Logout(ctx context.Context, playerID model.PlayerID) error {
	player, err := s.store.GetPlayer(ctx, playerID)
	if err != nil {
		return err
	}

	replacement, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return fmt.Errorf("generating refresh token: %w", err)
	}

	now := s.clock.Now()
	player.RefreshToken = replacement
	player.RefreshTokenExpiry = now.Add(-24 * time.Hour)
	player.UpdatedAt = now
	return s.store.UpdatePlayer(ctx, player)
}

func (s *Service) lookupByIdentifier(ctx context.Context, identifier string) (*model.Player, error) {
	player, err := s.store.GetPlayerByUsername(ctx, identifier)
	if err == nil {
		return player, nil
	}
	if !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, err
	}
	player, err = s.store.GetPlayerByEmail(ctx, identifier)
	if errors.Is(err, model.ErrPlayerNotFound) {
		// Do not reveal whether the account exists
		return nil, model.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	return player, nil
}

// issue builds an access token from a freshly resolved permission snapshot
// and the player's current progression state
func (s *Service) issue(ctx context.Context, player *model.Player) (*AuthResult, error) {
	snapshot, err := s.resolver.ResolvePermissions(ctx, player.ID)
	if err != nil {
		return nil, fmt.Errorf("resolving permissions: %w", err)
	}
	stat, err := s.store.GetStatistic(ctx, player.ID)
	if err != nil {
		return nil, err
	}
	profile, err := s.store.GetProfile(ctx, player.ID)
	if err != nil {
		return nil, err
	}

	accessToken, expiry, err := s.tokens.IssueAccessToken(token.ClaimsSnapshot{
		PlayerID:    player.ID,
		Username:    player.Username,
		Email:       player.Email,
		Rating:      stat.Rating,
		Level:       profile.Level,
		Roles:       snapshot.Roles,
		Permissions: snapshot.Permissions,
	})
	if err != nil {
		return nil, fmt.Errorf("issuing access token: %w", err)
	}

	return &AuthResult{
		PlayerID:     player.ID,
		Username:     player.Username,
		Email:        player.Email,
		Rating:       stat.Rating,
		Level:        profile.Level,
		Roles:        snapshot.Roles,
		AccessToken:  accessToken,
		RefreshToken: player.RefreshToken,
		TokenExpiry:  expiry,
	}, nil
}
