package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"matchday/social-api/apperr"
	"matchday/social-api/model"
	"matchday/social-api/security"
)

type stubMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *stubMailer) SendOtp(to, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%v?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(model.User{}, model.Otp{}, model.Post{}))

	return db
}

func newTestAuth(t *testing.T) (*Auth, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)

	hasher := &security.Hasher{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}

	tokens, err := security.NewTokenIssuer("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	auth, err := NewAuth(db, hasher, tokens, &stubMailer{}, 10*time.Minute)
	require.NoError(t, err)

	return auth, db
}

// issuedCode digs the live OTP out of the store, standing in for reading the
// user's inbox.
func issuedCode(t *testing.T, db *gorm.DB, userID string) string {
	t.Helper()

	var otp model.Otp
	require.NoError(t, db.Where("user_id = ?", userID).First(&otp).Error)

	return otp.Code
}

func register(t *testing.T, auth *Auth, email string) string {
	t.Helper()

	result, err := auth.Register(context.Background(), RegisterInput{
		Email:     email,
		Password:  "password123",
		FirstName: "Jude",
		LastName:  "Bellingham",
	})
	require.NoError(t, err)

	return result.UserID
}

func registerVerified(t *testing.T, auth *Auth, db *gorm.DB, email string) string {
	t.Helper()

	userID := register(t, auth, email)

	_, err := auth.VerifyEmail(context.Background(), email, issuedCode(t, db, userID))
	require.NoError(t, err)

	return userID
}

func assertOperational(t *testing.T, err error, status int) *apperr.Error {
	t.Helper()

	var op *apperr.Error
	require.ErrorAs(t, err, &op)
	assert.Equal(t, status, op.Status)

	return op
}

func TestRegisterIssuesCodeAndNeverEchoesIt(t *testing.T) {
	auth, db := newTestAuth(t)

	result, err := auth.Register(context.Background(), RegisterInput{
		Email:    "a@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	assert.Equal(t, "a@example.com", result.Email)
	assert.Contains(t, result.Message, "verification code")

	code := issuedCode(t, db, result.UserID)
	assert.Len(t, code, 6)
	assert.NotContains(t, result.Message, code)

	var user model.User
	require.NoError(t, db.Where("id = ?", result.UserID).First(&user).Error)
	assert.False(t, user.IsVerified)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.Zero(t, user.Reputation)
	assert.NotEqual(t, "password123", user.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	auth, db := newTestAuth(t)

	register(t, auth, "dup@example.com")

	_, err := auth.Register(context.Background(), RegisterInput{
		Email:    "dup@example.com",
		Password: "password123",
	})
	op := assertOperational(t, err, 409)
	assert.Equal(t, "User already exists", op.Message)

	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestVerifyHappyPathAndSingleUse(t *testing.T) {
	auth, db := newTestAuth(t)
	ctx := context.Background()

	userID := register(t, auth, "a@example.com")
	code := issuedCode(t, db, userID)

	// Wrong code first
	_, err := auth.VerifyEmail(ctx, "a@example.com", "000000")
	op := assertOperational(t, err, 400)
	assert.Equal(t, "Invalid or expired OTP", op.Message)

	// Right code succeeds exactly once
	msg, err := auth.VerifyEmail(ctx, "a@example.com", code)
	require.NoError(t, err)
	assert.Equal(t, "Email verified successfully.", msg)

	var user model.User
	require.NoError(t, db.Where("id = ?", userID).First(&user).Error)
	assert.True(t, user.IsVerified)

	// Codes are gone, the flip and the deletion happen together
	var codes int64
	require.NoError(t, db.Model(&model.Otp{}).Where("user_id = ?", userID).Count(&codes).Error)
	assert.Zero(t, codes)

	// Replaying the same code fails as already-verified
	_, err = auth.VerifyEmail(ctx, "a@example.com", code)
	op = assertOperational(t, err, 400)
	assert.Equal(t, "User is already verified", op.Message)
}

func TestVerifyUnknownEmail(t *testing.T) {
	auth, _ := newTestAuth(t)

	_, err := auth.VerifyEmail(context.Background(), "ghost@example.com", "123456")
	assertOperational(t, err, 404)
}

func TestVerifyExpiredCode(t *testing.T) {
	auth, db := newTestAuth(t)

	userID := register(t, auth, "a@example.com")
	code := issuedCode(t, db, userID)

	require.NoError(t, db.Model(&model.Otp{}).
		Where("user_id = ?", userID).
		Update("expires_at", time.Now().Add(-time.Second)).Error)

	_, err := auth.VerifyEmail(context.Background(), "a@example.com", code)
	op := assertOperational(t, err, 400)
	assert.Equal(t, "Invalid or expired OTP", op.Message)
}

func TestLoginBeforeVerification(t *testing.T) {
	auth, _ := newTestAuth(t)

	register(t, auth, "a@example.com")

	// Correct password, still rejected
	_, err := auth.Login(context.Background(), "a@example.com", "password123")
	op := assertOperational(t, err, 401)
	assert.Equal(t, "Please verify your email first", op.Message)
}

func TestLoginDoesNotLeakAccountExistence(t *testing.T) {
	auth, db := newTestAuth(t)

	registerVerified(t, auth, db, "a@example.com")

	_, wrongPassword := auth.Login(context.Background(), "a@example.com", "not-the-password")
	_, unknownEmail := auth.Login(context.Background(), "ghost@example.com", "whatever")

	opA := assertOperational(t, wrongPassword, 401)
	opB := assertOperational(t, unknownEmail, 401)
	assert.Equal(t, opA.Message, opB.Message)
	assert.Equal(t, opA.Status, opB.Status)
}

func TestLoginIssuesBothTokensAndStoresRefreshHash(t *testing.T) {
	auth, db := newTestAuth(t)
	ctx := context.Background()

	userID := registerVerified(t, auth, db, "a@example.com")

	result, err := auth.Login(ctx, "a@example.com", "password123")
	require.NoError(t, err)

	assert.Equal(t, userID, result.UserID)
	assert.Equal(t, model.RoleUser, result.Role)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.False(t, result.HasUsername)
	assert.False(t, result.HasSelectedClub)

	gotID, gotRole, err := auth.tokens.VerifyAccess(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, gotID)
	assert.Equal(t, model.RoleUser, gotRole)

	var user model.User
	require.NoError(t, db.Where("id = ?", userID).First(&user).Error)
	require.NotNil(t, user.RefreshTokenHash)

	ok, err := auth.hasher.Verify(result.RefreshToken, *user.RefreshTokenHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoginOnboardingFlags(t *testing.T) {
	auth, db := newTestAuth(t)
	ctx := context.Background()

	userID := registerVerified(t, auth, db, "a@example.com")

	_, err := auth.SetProfile(ctx, userID, "jude", nil)
	require.NoError(t, err)

	_, err = auth.SelectClub(ctx, userID, "Real Madrid")
	require.NoError(t, err)

	result, err := auth.Login(ctx, "a@example.com", "password123")
	require.NoError(t, err)
	assert.True(t, result.HasUsername)
	assert.True(t, result.HasSelectedClub)
}

func TestRefreshHappyPath(t *testing.T) {
	auth, db := newTestAuth(t)
	ctx := context.Background()

	userID := registerVerified(t, auth, db, "a@example.com")

	login, err := auth.Login(ctx, "a@example.com", "password123")
	require.NoError(t, err)

	access, err := auth.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)

	gotID, _, err := auth.tokens.VerifyAccess(access)
	require.NoError(t, err)
	assert.Equal(t, userID, gotID)
}

func TestRefreshSupersededBySecondLogin(t *testing.T) {
	auth, db := newTestAuth(t)
	ctx := context.Background()

	registerVerified(t, auth, db, "a@example.com")

	first, err := auth.Login(ctx, "a@example.com", "password123")
	require.NoError(t, err)

	second, err := auth.Login(ctx, "a@example.com", "password123")
	require.NoError(t, err)

	// The earlier session's refresh token no longer matches the stored hash
	_, err = auth.Refresh(ctx, first.RefreshToken)
	assertOperational(t, err, 403)

	_, err = auth.Refresh(ctx, second.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshWithoutActiveSession(t *testing.T) {
	auth, db := newTestAuth(t)
	ctx := context.Background()

	userID := registerVerified(t, auth, db, "a@example.com")

	// A validly signed token for a user who never logged in
	forged, err := auth.tokens.IssueRefresh(userID)
	require.NoError(t, err)

	_, err = auth.Refresh(ctx, forged)
	assertOperational(t, err, 403)
}

func TestRefreshGarbageToken(t *testing.T) {
	auth, _ := newTestAuth(t)

	_, err := auth.Refresh(context.Background(), "garbage")
	assertOperational(t, err, 403)
}

func TestRefreshDeletedAccount(t *testing.T) {
	auth, db := newTestAuth(t)
	ctx := context.Background()

	userID := registerVerified(t, auth, db, "a@example.com")

	login, err := auth.Login(ctx, "a@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, db.Where("id = ?", userID).Delete(&model.User{}).Error)

	_, err = auth.Refresh(ctx, login.RefreshToken)
	assertOperational(t, err, 403)
}

func TestSetProfileUsernameConflict(t *testing.T) {
	auth, db := newTestAuth(t)
	ctx := context.Background()

	first := registerVerified(t, auth, db, "a@example.com")
	second := registerVerified(t, auth, db, "b@example.com")

	_, err := auth.SetProfile(ctx, first, "jude", nil)
	require.NoError(t, err)

	_, err = auth.SetProfile(ctx, second, "jude", nil)
	op := assertOperational(t, err, 409)
	assert.Equal(t, "This username is already taken", op.Message)
}

func TestSetProfileEmptyUsername(t *testing.T) {
	auth, db := newTestAuth(t)

	userID := registerVerified(t, auth, db, "a@example.com")

	_, err := auth.SetProfile(context.Background(), userID, "", nil)
	assertOperational(t, err, 400)
}

func TestVerifiedFlagIsMonotonic(t *testing.T) {
	auth, db := newTestAuth(t)
	ctx := context.Background()

	userID := registerVerified(t, auth, db, "a@example.com")

	// Nothing in the protocol surface can unset the flag, logins and
	// profile updates leave it alone
	_, err := auth.Login(ctx, "a@example.com", "password123")
	require.NoError(t, err)

	_, err = auth.SetProfile(ctx, userID, "jude", nil)
	require.NoError(t, err)

	var user model.User
	require.NoError(t, db.Where("id = ?", userID).First(&user).Error)
	assert.True(t, user.IsVerified)
}

func TestRegisterDispatchesMailWithoutBlocking(t *testing.T) {
	auth, _ := newTestAuth(t)
	mailer := auth.mailer.(*stubMailer)

	register(t, auth, "a@example.com")

	// Delivery is fire-and-forget, give the goroutine a moment
	require.Eventually(t, func() bool {
		mailer.mu.Lock()
		defer mailer.mu.Unlock()
		return len(mailer.sent) == 1 && mailer.sent[0] == "a@example.com"
	}, time.Second, 10*time.Millisecond)
}

func TestOperationalErrorsAreErrors(t *testing.T) {
	var op *apperr.Error
	err := apperr.Forbidden("nope")
	require.True(t, errors.As(err, &op))
	assert.Equal(t, "nope", err.Error())
}
