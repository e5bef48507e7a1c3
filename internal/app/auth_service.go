package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/stockroom/internal/core/auth"
	"github.com/example/stockroom/internal/core/form"
	"github.com/example/stockroom/internal/ports/primary"
	"github.com/example/stockroom/internal/ports/secondary"
)

// AuthConfig holds the secrets and limits used for accounts and sessions.
type AuthConfig struct {
	SecretKey  []byte
	SessionTTL time.Duration
	BcryptCost int
}

// sessionClaims is the payload of the signed session cookie.
type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// AuthServiceImpl implements the AuthService interface.
type AuthServiceImpl struct {
	userRepo    secondary.UserRepository
	sessionRepo secondary.SessionRepository
	cfg         AuthConfig
	dummyHash   []byte
	now         func() time.Time
}

// NewAuthService creates a new AuthService with injected dependencies.
func NewAuthService(userRepo secondary.UserRepository, sessionRepo secondary.SessionRepository, cfg AuthConfig) (*AuthServiceImpl, error) {
	if len(cfg.SecretKey) == 0 {
		return nil, fmt.Errorf("auth service requires a secret key")
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 14 * 24 * time.Hour
	}

	// Compared against when the username is unknown so both failure paths cost the same.
	dummy, err := bcrypt.GenerateFromPassword([]byte("stockroom-timing-equaliser"), cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password hasher: %w", err)
	}

	return &AuthServiceImpl{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		cfg:         cfg,
		dummyHash:   dummy,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

// Register validates the registration form and creates the account.
func (s *AuthServiceImpl) Register(ctx context.Context, data form.Data) (*primary.LoginResult, error) {
	cleaned, errs := auth.RegistrationForm.Bind(data)
	if errs.Any() {
		return nil, primary.NewValidationError(errs)
	}

	username := cleaned.String("username")
	taken, err := s.usernameTaken(ctx, username)
	if err != nil {
		return nil, err
	}

	errs = auth.CheckRegistration(auth.RegistrationContext{
		Username:      username,
		Password1:     cleaned.String("password1"),
		Password2:     cleaned.String("password2"),
		UsernameTaken: taken,
	})
	if errs.Any() {
		return nil, primary.NewValidationError(errs)
	}

	record, err := s.createUser(ctx, primary.CreateUserRequest{
		Username: username,
		Password: cleaned.String("password2"),
	})
	if err != nil {
		return nil, err
	}

	return s.startSession(ctx, record)
}

// Login verifies credentials and starts a session.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (*primary.LoginResult, error) {
	record, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, secondary.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, primary.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(password)); err != nil {
		return nil, primary.ErrInvalidCredentials
	}
	if !record.IsActive {
		return nil, primary.ErrInvalidCredentials
	}

	now := s.now()
	if err := s.userRepo.UpdateLastLogin(ctx, record.ID, now); err != nil {
		return nil, err
	}
	record.LastLogin = &now

	return s.startSession(ctx, record)
}

// Authenticate resolves a session token to an active user.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, token string) (*primary.User, error) {
	claims, err := s.parseToken(token, true)
	if err != nil {
		return nil, primary.ErrUnauthenticated
	}

	session, err := s.sessionRepo.GetByID(ctx, claims.SessionID)
	if errors.Is(err, secondary.ErrNotFound) {
		return nil, primary.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}

	if !session.ExpiresAt.After(s.now()) {
		_ = s.sessionRepo.Delete(ctx, session.ID)
		return nil, primary.ErrUnauthenticated
	}
	if claims.Subject != strconv.FormatInt(session.UserID, 10) {
		return nil, primary.ErrUnauthenticated
	}

	record, err := s.userRepo.GetByID(ctx, session.UserID)
	if errors.Is(err, secondary.ErrNotFound) {
		return nil, primary.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	if !record.IsActive {
		return nil, primary.ErrUnauthenticated
	}

	return recordToUser(record), nil
}

// Logout deletes the session behind token. Expired tokens still log out.
func (s *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	claims, err := s.parseToken(token, false)
	if err != nil {
		return nil
	}
	return s.sessionRepo.Delete(ctx, claims.SessionID)
}

// CreateUser creates an account without the registration form.
func (s *AuthServiceImpl) CreateUser(ctx context.Context, req primary.CreateUserRequest) (*primary.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		return nil, primary.FieldError("username", form.MsgRequired)
	}

	taken, err := s.usernameTaken(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if r := auth.CheckUsername(req.Username, taken); !r.Allowed {
		return nil, primary.FieldError("username", r.Reason)
	}

	if problems := auth.PasswordProblems(req.Password, req.Username); len(problems) > 0 {
		return nil, &primary.ValidationError{Fields: map[string][]string{"password": problems}}
	}

	record, err := s.createUser(ctx, req)
	if err != nil {
		return nil, err
	}
	return recordToUser(record), nil
}

// ChangePassword sets a new password and ends every session of the user.
func (s *AuthServiceImpl) ChangePassword(ctx context.Context, username, password string) error {
	record, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	if problems := auth.PasswordProblems(password, username); len(problems) > 0 {
		return &primary.ValidationError{Fields: map[string][]string{"password": problems}}
	}

	hash, err := s.hash(password)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, record.ID, hash); err != nil {
		return err
	}
	return s.sessionRepo.DeleteByUser(ctx, record.ID)
}

// ListUsers returns every account.
func (s *AuthServiceImpl) ListUsers(ctx context.Context) ([]*primary.User, error) {
	records, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*primary.User, len(records))
	for i, r := range records {
		users[i] = recordToUser(r)
	}
	return users, nil
}

// PurgeExpiredSessions deletes sessions past their expiry.
func (s *AuthServiceImpl) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessionRepo.DeleteExpired(ctx, s.now())
}

// Helper methods

func (s *AuthServiceImpl) usernameTaken(ctx context.Context, username string) (bool, error) {
	_, err := s.userRepo.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, secondary.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("failed to check username: %w", err)
	}
}

func (s *AuthServiceImpl) createUser(ctx context.Context, req primary.CreateUserRequest) (*secondary.UserRecord, error) {
	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	record := &secondary.UserRecord{
		Username:     req.Username,
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
		IsStaff:      req.IsStaff || req.IsSuperuser,
		IsSuperuser:  req.IsSuperuser,
		IsActive:     true,
		DateJoined:   s.now(),
	}
	if err := s.userRepo.Create(ctx, record); err != nil {
		if errors.Is(err, secondary.ErrDuplicate) {
			return nil, primary.FieldError("username", auth.MsgUsernameTaken)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return record, nil
}

func (s *AuthServiceImpl) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", primary.FieldError("password", auth.MsgPasswordTooLong)
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (s *AuthServiceImpl) startSession(ctx context.Context, record *secondary.UserRecord) (*primary.LoginResult, error) {
	now := s.now()
	session := &secondary.SessionRecord{
		ID:        uuid.NewString(),
		UserID:    record.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		SessionID: session.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(record.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}).SignedString(s.cfg.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session: %w", err)
	}

	return &primary.LoginResult{
		User:      recordToUser(record),
		Token:     token,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *AuthServiceImpl) parseToken(token string, validateClaims bool) (*sessionClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if !validateClaims {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.cfg.SecretKey, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if claims.SessionID == "" {
		return nil, fmt.Errorf("session token has no session id")
	}
	return claims, nil
}

func recordToUser(r *secondary.UserRecord) *primary.User {
	return &primary.User{
		ID:          r.ID,
		Username:    r.Username,
		Email:       r.Email,
		IsStaff:     r.IsStaff,
		IsSuperuser: r.IsSuperuser,
		IsActive:    r.IsActive,
		DateJoined:  r.DateJoined,
		LastLogin:   r.LastLogin,
	}
}

// Ensure AuthServiceImpl implements the interface.
var _ primary.AuthService = (*AuthServiceImpl)(nil)
