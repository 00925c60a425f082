package service

import (
	"context"
	"errors"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"matchday/social-api/apperr"
	"matchday/social-api/model"
	"matchday/social-api/security"
	"matchday/social-api/store"
)

const idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// invalidCredentials is shared by the unknown-email and wrong-password paths
// so a caller can't tell accounts apart by message shape.
var invalidCredentials = apperr.Unauthorized("Invalid credentials")

// Auth orchestrates the account lifecycle: registration, OTP verification,
// login, token refresh and the onboarding profile steps.
type Auth struct {
	db     *gorm.DB
	users  *store.UserStore
	otps   *store.OtpStore
	hasher *security.Hasher
	tokens *security.TokenIssuer
	mailer OtpSender
	otpTTL time.Duration

	// Digest compared against when login hits an unknown email, so that
	// path costs the same as a real password check.
	decoyHash string
}

func NewAuth(db *gorm.DB, hasher *security.Hasher, tokens *security.TokenIssuer, mailer OtpSender, otpTTL time.Duration) (*Auth, error) {
	decoy, err := hasher.Hash(gonanoid.Must(24))
	if err != nil {
		return nil, err
	}

	return &Auth{
		db:        db,
		users:     store.NewUserStore(db),
		otps:      store.NewOtpStore(db),
		hasher:    hasher,
		tokens:    tokens,
		mailer:    mailer,
		otpTTL:    otpTTL,
		decoyHash: decoy,
	}, nil
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type RegisterResult struct {
	UserID  string
	Email   string
	Message string
}

// Register creates an unverified account and dispatches a 6 digit code to
// the given address. The code never appears in the result.
func (s *Auth) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	taken, err := s.users.Exists(ctx, in.Email, nil)
	if err != nil {
		return nil, err
	}

	if taken {
		return nil, apperr.Conflict("User already exists")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	userID, err := gonanoid.Generate(idCharset, 16)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           userID,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         model.RoleUser,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict("User already exists")
		}

		return nil, err
	}

	code, err := security.GenerateOtp()
	if err != nil {
		return nil, err
	}

	if err := s.otps.Replace(ctx, userID, code, time.Now().Add(s.otpTTL)); err != nil {
		return nil, err
	}

	// Mail failures don't roll the registration back, the user can ask for
	// the code again by re-verifying later.
	go func() {
		if err := s.mailer.SendOtp(in.Email, code); err != nil {
			zap.L().Warn("Failed to send verification mail",
				zap.Error(err), zap.String("userID", userID))
		}
	}()

	return &RegisterResult{
		UserID:  userID,
		Email:   in.Email,
		Message: "Please check your email for the verification code.",
	}, nil
}

// VerifyEmail consumes a code and activates the account. The flag flip and
// the code deletion happen in one transaction so a verified account can
// never keep a live code.
func (s *Auth) VerifyEmail(ctx context.Context, email, code string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", apperr.NotFound("User not found")
		}

		return "", err
	}

	if user.IsVerified {
		return "", apperr.BadRequest("User is already verified")
	}

	if _, err := s.otps.FindValid(ctx, user.ID, code, time.Now()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", apperr.BadRequest("Invalid or expired OTP")
		}

		return "", err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.users.WithTx(tx).MarkVerified(ctx, user.ID); err != nil {
			return err
		}

		return s.otps.WithTx(tx).DeleteForUser(ctx, user.ID)
	})
	if err != nil {
		return "", err
	}

	return "Email verified successfully.", nil
}

type LoginResult struct {
	UserID          string
	Email           string
	Role            model.Role
	AccessToken     string
	RefreshToken    string
	HasUsername     bool
	HasSelectedClub bool
}

// Login checks credentials, mints both tokens and stores a digest of the
// refresh token on the user, invalidating any earlier refresh session.
func (s *Auth) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn a hash comparison anyway so unknown emails take as
			// long as wrong passwords.
			s.hasher.Verify(password, s.decoyHash)
			return nil, invalidCredentials
		}

		return nil, err
	}

	if !user.IsVerified {
		return nil, apperr.Unauthorized("Please verify your email first")
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, invalidCredentials
	}

	access, err := s.tokens.IssueAccess(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	refresh, err := s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return nil, err
	}

	refreshHash, err := s.hasher.Hash(refresh)
	if err != nil {
		return nil, err
	}

	if err := s.users.SetRefreshTokenHash(ctx, user.ID, refreshHash); err != nil {
		return nil, err
	}

	return &LoginResult{
		UserID:          user.ID,
		Email:           user.Email,
		Role:            user.Role,
		AccessToken:     access,
		RefreshToken:    refresh,
		HasUsername:     user.Username != nil,
		HasSelectedClub: user.Club != nil,
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The token
// must pass both the signature check and the comparison against the digest
// stored at login, a mismatch means the token was superseded or stolen.
func (s *Auth) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", apperr.Forbidden("Invalid refresh token")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", apperr.Forbidden("Invalid refresh token")
		}

		return "", err
	}

	if user.RefreshTokenHash == nil {
		return "", apperr.Forbidden("Invalid refresh token")
	}

	ok, err := s.hasher.Verify(refreshToken, *user.RefreshTokenHash)
	if err != nil || !ok {
		return "", apperr.Forbidden("Invalid refresh token")
	}

	return s.tokens.IssueAccess(user.ID, user.Role)
}

type ProfileResult struct {
	Username string
	Bio      *string
}

func (s *Auth) SetProfile(ctx context.Context, userID, username string, bio *string) (*ProfileResult, error) {
	if username == "" {
		return nil, apperr.BadRequest("Username can't be empty")
	}

	if err := s.users.SetProfile(ctx, userID, username, bio); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict("This username is already taken")
		}

		return nil, err
	}

	return &ProfileResult{Username: username, Bio: bio}, nil
}

func (s *Auth) SelectClub(ctx context.Context, userID, club string) (string, error) {
	if club == "" {
		return "", apperr.BadRequest("Club can't be empty")
	}

	if err := s.users.SetClub(ctx, userID, club); err != nil {
		return "", err
	}

	return club, nil
}

func (s *Auth) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}
