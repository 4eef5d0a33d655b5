package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/roomkit/roombook/internal/models"
	"github.com/roomkit/roombook/internal/repository"
	"github.com/roomkit/roombook/internal/session"
	"github.com/roomkit/roombook/internal/utils"
	"github.com/roomkit/roombook/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmailAlreadyExists = errors.New("email already in use")
	// ErrInvalidCredentials covers unknown email, passwordless account
	// and wrong password alike; callers must not be able to enumerate
	// accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

type AuthService struct {
	userRepo      *repository.UserRepository
	revoker       *session.Revoker
	jwtSecret     string
	jwtExpiration time.Duration
	environment   string
}

func NewAuthService(userRepo *repository.UserRepository, revoker *session.Revoker, jwtSecret string, jwtExpiration time.Duration, environment string) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		revoker:       revoker,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		environment:   environment,
	}
}

// IsProduction returns true if running in production environment
func (s *AuthService) IsProduction() bool {
	return s.environment == "production"
}

// TokenTTL returns the configured session token lifetime.
func (s *AuthService) TokenTTL() time.Duration {
	return s.jwtExpiration
}

// Signup registers a new account. The created user is always
// status=PENDING and role=USER regardless of request body contents, and
// is not signed in; approval comes later from an admin.
func (s *AuthService) Signup(email, password, name string) (*models.User, error) {
	email = utils.NormalizeEmail(email)

	logger.Log.Debug("Processing signup", zap.String("email", email))

	if err := validateSignupInput(email, password); err != nil {
		logger.Log.Warn("Signup validation failed",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, err
	}

	existing, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		logger.Log.Error("Failed to check email existence",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, err
	}
	if existing != nil {
		logger.Log.Warn("Email already registered", zap.String("email", email))
		return nil, ErrEmailAlreadyExists
	}

	hashStart := time.Now()
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		logger.Log.Error("Failed to hash password", zap.Error(err))
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: &hashedPassword,
		Role:         models.RoleUser,
		Status:       models.StatusPending,
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		logger.Log.Error("Failed to create user",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("User signed up",
		zap.String("user_id", user.ID.String()),
		zap.String("email", email),
		zap.Duration("hash_duration", time.Since(hashStart)),
	)

	return user, nil
}

// Login authenticates by email and password and issues a session token.
// Pending users may log in; the event-creation gate is enforced
// separately.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	email = utils.NormalizeEmail(email)

	logger.Log.Debug("Processing login", zap.String("email", email))

	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		logger.Log.Error("Failed to get user by email",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, "", err
	}
	if user == nil || user.IsDeleted() || user.PasswordHash == nil {
		logger.Log.Warn("Login failed", zap.String("email", email))
		return nil, "", ErrInvalidCredentials
	}

	valid, err := utils.VerifyPassword(password, *user.PasswordHash)
	if err != nil || !valid {
		logger.Log.Warn("Login failed",
			zap.String("email", email),
			zap.String("user_id", user.ID.String()),
		)
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		logger.Log.Error("Failed to generate token",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return nil, "", err
	}

	logger.Log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)

	return user, token, nil
}

// OAuthLogin upserts an account from a verified provider profile and
// issues a session token. No password is involved: first login creates
// a pending passwordless account, later logins refresh the name.
func (s *AuthService) OAuthLogin(email, name string) (*models.User, string, error) {
	email = utils.NormalizeEmail(email)
	if email == "" {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		logger.Log.Error("Failed to get user by email",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, "", err
	}

	if user == nil {
		user = &models.User{
			ID:     uuid.New(),
			Email:  email,
			Name:   name,
			Role:   models.RoleUser,
			Status: models.StatusPending,
		}
		if err := s.userRepo.CreateUser(user); err != nil {
			logger.Log.Error("Failed to create OAuth user",
				zap.String("email", email),
				zap.Error(err),
			)
			return nil, "", err
		}
		logger.Log.Info("OAuth account created",
			zap.String("user_id", user.ID.String()),
			zap.String("email", email),
		)
	} else {
		if user.IsDeleted() {
			return nil, "", ErrInvalidCredentials
		}
		if name != "" && name != user.Name {
			if err := s.userRepo.UpdateName(user.ID, name); err != nil {
				logger.Log.Error("Failed to update OAuth name",
					zap.String("user_id", user.ID.String()),
					zap.Error(err),
				)
				return nil, "", err
			}
			user.Name = name
		}
	}

	token, err := utils.GenerateToken(user, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Logout revokes the token's jti for its remaining lifetime. An already
// invalid token is a no-op; logout never fails the caller over it.
func (s *AuthService) Logout(ctx context.Context, tokenString string) {
	if tokenString == "" {
		return
	}

	claims, err := utils.ValidateToken(tokenString, s.jwtSecret)
	if err != nil {
		return
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.revoker.Revoke(ctx, claims.RegisteredClaims.ID, ttl); err != nil {
		logger.Log.Error("Failed to revoke token",
			zap.String("user_id", claims.UserID.String()),
			zap.Error(err),
		)
		return
	}

	logger.Log.Info("User logged out", zap.String("user_id", claims.UserID.String()))
}

// CurrentUser resolves the caller from a session token. Every failure
// mode (missing token, bad signature, expiry, revoked jti, deleted or
// unknown account) yields nil without an error: anonymous, not broken.
func (s *AuthService) CurrentUser(ctx context.Context, tokenString string) *models.User {
	if tokenString == "" {
		return nil
	}

	claims, err := utils.ValidateToken(tokenString, s.jwtSecret)
	if err != nil {
		return nil
	}

	if s.revoker.IsRevoked(ctx, claims.RegisteredClaims.ID) {
		return nil
	}

	user, err := s.userRepo.GetUserByID(claims.UserID)
	if err != nil {
		logger.Log.Error("Failed to load current user",
			zap.String("user_id", claims.UserID.String()),
			zap.Error(err),
		)
		return nil
	}

	return user
}

func validateSignupInput(email, password string) error {
	if email == "" || password == "" {
		return NewValidationError("email and password are required")
	}
	if !emailRegex.MatchString(email) {
		return NewValidationError("invalid email format")
	}
	if len(email) > 100 {
		return NewValidationError("email too long")
	}
	if len(password) < 8 {
		return NewValidationError("password must be at least 8 characters")
	}
	if len(password) > 128 {
		return NewValidationError("password too long")
	}
	return nil
}
