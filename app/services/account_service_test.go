package services

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shopgo-app/shopgo/app/forms"
	"github.com/shopgo-app/shopgo/app/models"
	"github.com/shopgo-app/shopgo/config"
	"github.com/shopgo-app/shopgo/pkg/identity"
	"github.com/shopgo-app/shopgo/pkg/router"
)

func newAccountService(t *testing.T, db *gorm.DB) *AccountService {
	t.Helper()

	r := router.New()
	noop := func(http.ResponseWriter, *http.Request) {}
	r.Get("/account/confirm-email", "account.confirm_email", noop)
	r.Get("/account/reset-password", "account.reset_password", noop)

	return NewAccountService(db, NewCartService(db), r)
}

func registerForm(email, userName string) forms.RegisterForm {
	return forms.RegisterForm{
		UserName:             userName,
		Email:                email,
		FullName:             "Test User",
		Password:             "correct horse",
		PasswordConfirmation: "correct horse",
	}
}

func TestRegisterCreatesUserWithEmptyCart(t *testing.T) {
	db := newTestDB(t)
	svc := newAccountService(t, db)

	user, err := svc.Register(registerForm("amira@example.com", "amira"))
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.False(t, user.EmailConfirmed)

	// Credential is stored hashed.
	assert.NotEqual(t, "correct horse", user.PasswordHash)
	assert.True(t, identity.CheckPassword(user.PasswordHash, "correct horse"))

	// The cart exists immediately, with no lines.
	var cart models.Cart
	require.NoError(t, db.Preload("Items").Where("user_id = ?", user.ID).First(&cart).Error)
	assert.Empty(t, cart.Items)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	db := newTestDB(t)
	svc := newAccountService(t, db)

	_, err := svc.Register(registerForm("amira@example.com", "amira"))
	require.NoError(t, err)

	_, err = svc.Register(registerForm("amira@example.com", "someone-else"))
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Register(registerForm("other@example.com", "amira"))
	assert.ErrorIs(t, err, ErrUserNameTaken)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegisterCollisionMapsToTakenError(t *testing.T) {
	db := newTestDB(t)
	svc := newAccountService(t, db)

	// The existing row was written by another process, so only the unique
	// index stands between the two registrations.
	require.NoError(t, db.Create(&models.User{
		UserName:     "amira",
		Email:        "amira@example.com",
		PasswordHash: "x",
		Role:         "user",
	}).Error)

	_, err := svc.Register(registerForm("amira@example.com", "late-arrival"))
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Register(registerForm("late@example.com", "amira"))
	assert.ErrorIs(t, err, ErrUserNameTaken)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAccountService(t, db)

	registered, err := svc.Register(registerForm("amira@example.com", "amira"))
	require.NoError(t, err)

	user, err := svc.Login("amira@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = svc.Login("amira@example.com", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginConfirmedEmailGate(t *testing.T) {
	db := newTestDB(t)
	svc := newAccountService(t, db)

	user, err := svc.Register(registerForm("amira@example.com", "amira"))
	require.NoError(t, err)

	config.Set("AUTH_REQUIRE_CONFIRMED_EMAIL", "true")
	t.Cleanup(func() { config.Set("AUTH_REQUIRE_CONFIRMED_EMAIL", "false") })

	_, err = svc.Login("amira@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrEmailNotConfirmed)

	token, err := identity.IssueToken(user.ID, identity.PurposeEmailConfirm, identity.EmailConfirmTTL)
	require.NoError(t, err)
	require.NoError(t, svc.ConfirmEmail(user.ID, token))

	_, err = svc.Login("amira@example.com", "correct horse")
	assert.NoError(t, err)
}

func TestConfirmEmailRejectsForeignToken(t *testing.T) {
	db := newTestDB(t)
	svc := newAccountService(t, db)

	user, err := svc.Register(registerForm("amira@example.com", "amira"))
	require.NoError(t, err)

	// Token issued for a different user id.
	token, err := identity.IssueToken(user.ID+1, identity.PurposeEmailConfirm, identity.EmailConfirmTTL)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ConfirmEmail(user.ID, token), identity.ErrInvalidToken)

	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.False(t, fresh.EmailConfirmed)
}

func TestConfirmEmailRejectsResetToken(t *testing.T) {
	db := newTestDB(t)
	svc := newAccountService(t, db)

	user, err := svc.Register(registerForm("amira@example.com", "amira"))
	require.NoError(t, err)

	token, err := identity.IssueToken(user.ID, identity.PurposePasswordReset, identity.PasswordResetTTL)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ConfirmEmail(user.ID, token), identity.ErrInvalidToken)
}

func TestResetPasswordUpdatesCredential(t *testing.T) {
	db := newTestDB(t)
	svc := newAccountService(t, db)

	user, err := svc.Register(registerForm("amira@example.com", "amira"))
	require.NoError(t, err)

	token, err := identity.IssueToken(user.ID, identity.PurposePasswordReset, identity.PasswordResetTTL)
	require.NoError(t, err)
	require.NoError(t, svc.ResetPassword(token, "a brand new secret"))

	_, err = svc.Login("amira@example.com", "a brand new secret")
	assert.NoError(t, err)

	_, err = svc.Login("amira@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResetPasswordRejectsGarbageToken(t *testing.T) {
	db := newTestDB(t)
	svc := newAccountService(t, db)

	assert.ErrorIs(t, svc.ResetPassword("not-a-token", "whatever secret"), identity.ErrInvalidToken)
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	db := newTestDB(t)
	svc := newAccountService(t, db)

	// No account, no error: the page shows the same generic message.
	assert.NoError(t, svc.ForgotPassword("nobody@example.com"))
}
