package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/emali/estates-api/internal/domain/user"
	"github.com/emali/estates-api/internal/otp"
	"github.com/emali/estates-api/internal/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidOTP         = errors.New("invalid or expired otp")
	ErrOTPDispatch        = errors.New("failed to send otp, please try again later")
	ErrUserNotFound       = errors.New("user not found")
)

const usernameAttempts = 5

type UserRepository interface {
	Create(ctx context.Context, nu user.NewUser) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	FindByIdentifier(ctx context.Context, identifier string) (user.User, error)
	FindConflict(ctx context.Context, l user.Lookup) (user.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	MarkVerified(ctx context.Context, email string) error
}

type OTPStore interface {
	GenerateAndStore(ctx context.Context, to otp.Recipient) (string, error)
	Verify(ctx context.Context, email, code string) (bool, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}

type TokenIssuer interface {
	GenerateToken(u user.User) (string, error)
}

type Revoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
}

// Session is what signup and login hand back to the client.
type Session struct {
	AccessToken string      `json:"accessToken"`
	User        user.Public `json:"user"`
}

type Service struct {
	users   UserRepository
	otps    OTPStore
	hasher  PasswordHasher
	tokens  TokenIssuer
	revoker Revoker
	log     *slog.Logger
	now     func() time.Time
}

func NewService(
	users UserRepository,
	otps OTPStore,
	hasher PasswordHasher,
	tokens TokenIssuer,
	revoker Revoker,
	log *slog.Logger,
) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		users:   users,
		otps:    otps,
		hasher:  hasher,
		tokens:  tokens,
		revoker: revoker,
		log:     log,
		now:     time.Now,
	}
}

// SignUp sends the verification code before anything is written, so a user
// row only exists for addresses that could be reached.
func (s *Service) SignUp(ctx context.Context, req user.SignUpRequest) (Session, error) {
	email := user.Fold(req.Email)

	lang := ""
	if req.Language != nil {
		lang = *req.Language
	}

	_, err := s.otps.GenerateAndStore(ctx, otp.Recipient{
		Email:    email,
		Name:     req.Name,
		Phone:    req.Phone,
		Language: lang,
	})
	if err != nil {
		s.log.WarnContext(ctx, "auth.signup_otp_failed", "email", email, "err", err)
		return Session{}, fmt.Errorf("%w: %w", ErrOTPDispatch, err)
	}

	lookup := user.Lookup{Email: email, Phone: req.Phone}
	if req.Username != nil {
		lookup.Username = user.Fold(*req.Username)
	}
	if err := s.ensureUnique(ctx, lookup); err != nil {
		return Session{}, err
	}

	username := lookup.Username
	if username == "" {
		username, err = s.freeUsername(ctx, req.Name)
		if err != nil {
			return Session{}, err
		}
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	nu := user.NewUser{
		Email:        email,
		Phone:        req.Phone,
		Username:     username,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         user.RoleClient,
	}
	if req.Role != nil {
		nu.Role = *req.Role
	}
	if lang != "" {
		l := user.Language(lang)
		nu.Language = &l
	}

	u, err := s.users.Create(ctx, nu)
	if err != nil {
		return Session{}, err
	}

	s.log.InfoContext(ctx, "auth.signup", "user_id", u.ID, "role", u.Role)

	return s.session(u)
}

func (s *Service) Login(ctx context.Context, identifier, password string) (Session, error) {
	u, err := s.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		if errors.Is(err, security.ErrPasswordMismatch) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("compare password: %w", err)
	}

	if !u.IsActive || !u.IsVerified {
		s.log.InfoContext(ctx, "auth.login_rejected",
			"user_id", u.ID,
			"active", u.IsActive,
			"verified", u.IsVerified,
		)
		return Session{}, ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, u.ID, now); err != nil {
		return Session{}, err
	}
	u.LastLogin = &now

	return s.session(u)
}

// VerifyOTP marks the account verified when code matches. The code stays
// valid until it expires.
func (s *Service) VerifyOTP(ctx context.Context, email, code string) (bool, error) {
	ok, err := s.otps.Verify(ctx, email, code)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, ErrInvalidOTP
	}

	if err := s.users.MarkVerified(ctx, email); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return false, ErrInvalidOTP
		}
		return false, err
	}

	s.log.InfoContext(ctx, "auth.verified", "email", email)
	return true, nil
}

func (s *Service) RefreshOTP(ctx context.Context, email string) (bool, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return false, ErrUserNotFound
		}
		return false, err
	}

	to := otp.Recipient{Email: u.Email, Name: u.Name, Phone: u.Phone}
	if u.Language != nil {
		to.Language = string(*u.Language)
	}

	if _, err := s.otps.GenerateAndStore(ctx, to); err != nil {
		return false, fmt.Errorf("%w: %w", ErrOTPDispatch, err)
	}
	return true, nil
}

// Logout revokes the presented token for the rest of its lifetime.
func (s *Service) Logout(ctx context.Context, claims *Claims) (bool, error) {
	if claims == nil || claims.ExpiresAt == nil {
		return false, ErrInvalidToken
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return false, err
	}

	s.log.InfoContext(ctx, "auth.logout", "user_id", claims.UserID())
	return true, nil
}

func (s *Service) ensureUnique(ctx context.Context, l user.Lookup) error {
	existing, err := s.users.FindConflict(ctx, l)
	if errors.Is(err, user.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return &user.ConflictError{Fields: l.Conflicts(existing)}
}

func (s *Service) freeUsername(ctx context.Context, name string) (string, error) {
	for i := 0; i < usernameAttempts; i++ {
		candidate, err := user.GenerateUsername(name)
		if err != nil {
			return "", err
		}

		_, err = s.users.FindConflict(ctx, user.Lookup{Username: candidate})
		if errors.Is(err, user.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", &user.ConflictError{Fields: []string{"username"}}
}

func (s *Service) session(u user.User) (Session, error) {
	token, err := s.tokens.GenerateToken(u)
	if err != nil {
		return Session{}, fmt.Errorf("sign token: %w", err)
	}
	return Session{AccessToken: token, User: u.Public()}, nil
}
