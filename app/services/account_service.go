package services

import (
	"errors"
	"fmt"
	"net/url"

	"gorm.io/gorm"

	"github.com/shopgo-app/shopgo/app/forms"
	"github.com/shopgo-app/shopgo/app/models"
	"github.com/shopgo-app/shopgo/app/repositories"
	"github.com/shopgo-app/shopgo/config"
	"github.com/shopgo-app/shopgo/pkg/identity"
	"github.com/shopgo-app/shopgo/pkg/logger"
	"github.com/shopgo-app/shopgo/pkg/mail"
	"github.com/shopgo-app/shopgo/pkg/metrics"
	"github.com/shopgo-app/shopgo/pkg/router"
)

// Account error contract. Controllers translate these into flash messages;
// anything else is a 500.
var (
	ErrEmailTaken         = errors.New("account: email already registered")
	ErrUserNameTaken      = errors.New("account: username already taken")
	ErrInvalidCredentials = errors.New("account: invalid credentials")
	ErrEmailNotConfirmed  = errors.New("account: email not confirmed")
)

// AccountService implements registration, login, email confirmation and
// the password reset flow. Mail links are absolute URLs built from APP_URL
// plus the reversed named route.
type AccountService struct {
	users  *repositories.UserRepository
	cart   *CartService
	routes *router.Router
}

func NewAccountService(db *gorm.DB, cart *CartService, routes *router.Router) *AccountService {
	return &AccountService{
		users:  repositories.NewUserRepository(db),
		cart:   cart,
		routes: routes,
	}
}

// Register creates the account, its cart, and sends the confirmation mail.
// A mail delivery failure is logged but does not roll back the account;
// the user can request a fresh link via forgot-password support flows.
func (s *AccountService) Register(form forms.RegisterForm) (models.User, error) {
	hash, err := identity.HashPassword(form.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("account: hash password: %w", err)
	}

	user := models.User{
		UserName:     form.UserName,
		Email:        form.Email,
		FullName:     form.FullName,
		PasswordHash: hash,
		Role:         "user",
	}
	// The unique indexes on email and user_name are the authority: a
	// check-then-insert would leave a window where two racing registrations
	// both pass the check. The insert either wins or the conflict maps back
	// to a taken sentinel.
	if err := s.users.Create(&user); err != nil {
		if taken := s.takenError(form); taken != nil {
			return models.User{}, taken
		}
		return models.User{}, fmt.Errorf("account: create user: %w", err)
	}

	if err := s.cart.InitializeCart(user.ID); err != nil {
		return models.User{}, err
	}

	if err := s.sendConfirmationMail(user); err != nil {
		logger.Warn("account: confirmation mail", "user_id", user.ID, "error", err)
	}

	metrics.UserRegistrations.Inc()
	return user, nil
}

// takenError reports which unique field an insert collided on, looking the
// row up after the fact so the answer does not depend on driver-specific
// constraint error text.
func (s *AccountService) takenError(form forms.RegisterForm) error {
	if _, err := s.users.FindByEmail(form.Email); err == nil {
		return ErrEmailTaken
	}
	if _, err := s.users.FindByUserName(form.UserName); err == nil {
		return ErrUserNameTaken
	}
	return nil
}

// Login checks credentials and, when the config gate is on, that the email
// has been confirmed. Unknown email and wrong password report the same
// error so the form leaks nothing.
func (s *AccountService) Login(email, password string) (models.User, error) {
	user, err := s.users.FindByEmail(email)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}

	if !identity.CheckPassword(user.PasswordHash, password) {
		return models.User{}, ErrInvalidCredentials
	}

	if config.RequireConfirmedEmail() && !user.EmailConfirmed {
		return models.User{}, ErrEmailNotConfirmed
	}

	return user, nil
}

// ConfirmEmail verifies the mailed token and flips the confirmed flag. The
// token must have been issued to the same user the link names.
func (s *AccountService) ConfirmEmail(userID uint, token string) error {
	tokenUserID, err := identity.VerifyToken(token, identity.PurposeEmailConfirm)
	if err != nil {
		return err
	}
	if tokenUserID != userID {
		return identity.ErrInvalidToken
	}

	return s.users.ConfirmEmail(userID)
}

// ForgotPassword mails a reset link. An unknown email is reported as
// success so the form cannot be used to probe for accounts.
func (s *AccountService) ForgotPassword(email string) error {
	user, err := s.users.FindByEmail(email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	token, err := identity.IssueToken(user.ID, identity.PurposePasswordReset, identity.PasswordResetTTL)
	if err != nil {
		return fmt.Errorf("account: issue reset token: %w", err)
	}

	link := s.absoluteURL("account.reset_password", "token="+url.QueryEscape(token))
	return mail.To(user.Email).
		Subject("Reset your ShopGo password").
		Body(fmt.Sprintf(
			`<p>Hello %s,</p><p>Click <a href="%s">here</a> to choose a new password. The link expires in one hour.</p>`,
			user.FullName, link)).
		Send()
}

// ResetPassword verifies the reset token and stores the new credential.
func (s *AccountService) ResetPassword(token, password string) error {
	userID, err := identity.VerifyToken(token, identity.PurposePasswordReset)
	if err != nil {
		return err
	}

	hash, err := identity.HashPassword(password)
	if err != nil {
		return fmt.Errorf("account: hash password: %w", err)
	}

	return s.users.UpdatePassword(userID, hash)
}

func (s *AccountService) sendConfirmationMail(user models.User) error {
	token, err := identity.IssueToken(user.ID, identity.PurposeEmailConfirm, identity.EmailConfirmTTL)
	if err != nil {
		return err
	}

	link := s.absoluteURL("account.confirm_email",
		fmt.Sprintf("userId=%d&token=%s", user.ID, url.QueryEscape(token)))
	return mail.To(user.Email).
		Subject("Confirm your ShopGo account").
		Body(fmt.Sprintf(
			`<p>Welcome %s!</p><p>Click <a href="%s">here</a> to confirm your email address.</p>`,
			user.FullName, link)).
		Send()
}

func (s *AccountService) absoluteURL(route, query string) string {
	path, err := s.routes.URL(route, nil)
	if err != nil {
		path = "/"
	}
	u := config.AppURL() + path
	if query != "" {
		u += "?" + query
	}
	return u
}
