package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shopgo-app/shopgo/app/forms"
	"github.com/shopgo-app/shopgo/app/services"
	"github.com/shopgo-app/shopgo/pkg/bind"
	"github.com/shopgo-app/shopgo/pkg/identity"
	"github.com/shopgo-app/shopgo/pkg/logger"
	"github.com/shopgo-app/shopgo/pkg/session"
	"github.com/shopgo-app/shopgo/pkg/view"
)

// AccountController handles registration, login/logout, email confirmation
// and the password reset flow.
type AccountController struct {
	accounts *services.AccountService
}

func NewAccountController(accounts *services.AccountService) *AccountController {
	return &AccountController{accounts: accounts}
}

func (c *AccountController) ShowRegister(w http.ResponseWriter, r *http.Request) {
	view.Render(w, r, "register", view.Data{"Form": forms.RegisterForm{}})
}

func (c *AccountController) Register(w http.ResponseWriter, r *http.Request) {
	var form forms.RegisterForm
	errs, err := bind.Form(r, &form)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(errs) > 0 {
		view.Render(w, r, "register", view.Data{"Form": form, "Errors": errs})
		return
	}

	_, err = c.accounts.Register(form)
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		view.Render(w, r, "register", view.Data{"Form": form,
			"Errors": map[string]string{"email": "That email is already registered."}})
		return
	case errors.Is(err, services.ErrUserNameTaken):
		view.Render(w, r, "register", view.Data{"Form": form,
			"Errors": map[string]string{"user_name": "That username is already taken."}})
		return
	case err != nil:
		logger.WithCtx(r.Context()).Error("account: register", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view.Flash(w, r, view.Message{
		Title:   "Welcome!",
		Message: "Your account is ready. Check your inbox to confirm your email.",
		CSS:     "success",
	})
	http.Redirect(w, r, "/account/login", http.StatusFound)
}

func (c *AccountController) ShowLogin(w http.ResponseWriter, r *http.Request) {
	view.Render(w, r, "login", view.Data{
		"Form": forms.LoginForm{ReturnURL: r.URL.Query().Get("return_url")},
	})
}

func (c *AccountController) Login(w http.ResponseWriter, r *http.Request) {
	var form forms.LoginForm
	errs, err := bind.Form(r, &form)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(errs) > 0 {
		view.Render(w, r, "login", view.Data{"Form": form, "Errors": errs})
		return
	}

	user, err := c.accounts.Login(form.Email, form.Password)
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		view.Render(w, r, "login", view.Data{"Form": form,
			"Errors": map[string]string{"email": "Invalid email or password."}})
		return
	case errors.Is(err, services.ErrEmailNotConfirmed):
		view.Render(w, r, "login", view.Data{"Form": form,
			"Errors": map[string]string{"email": "Please confirm your email address first."}})
		return
	case err != nil:
		logger.WithCtx(r.Context()).Error("account: login", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	sess := session.FromCtx(r)
	sess.Set("user_id", user.ID)
	sess.Set("role", user.Role)
	if err := sess.Save(w); err != nil {
		logger.WithCtx(r.Context()).Error("account: session save", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	target := "/"
	if strings.HasPrefix(form.ReturnURL, "/") {
		target = form.ReturnURL
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (c *AccountController) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromCtx(r)
	sess.Invalidate()

	view.Flash(w, r, view.Message{Title: "Goodbye", Message: "You have been signed out.", CSS: "success"})
	http.Redirect(w, r, "/", http.StatusFound)
}

func (c *AccountController) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUint(r.URL.Query().Get("userId"))
	token := r.URL.Query().Get("token")
	if !ok || token == "" {
		view.Flash(w, r, view.Message{Title: "Oops", Message: "That confirmation link is not valid.", CSS: "danger"})
		http.Redirect(w, r, "/account/login", http.StatusFound)
		return
	}

	if err := c.accounts.ConfirmEmail(userID, token); err != nil {
		if !errors.Is(err, identity.ErrInvalidToken) {
			logger.WithCtx(r.Context()).Error("account: confirm email", "error", err)
		}
		view.Flash(w, r, view.Message{Title: "Oops", Message: "That confirmation link is invalid or has expired.", CSS: "danger"})
		http.Redirect(w, r, "/account/login", http.StatusFound)
		return
	}

	view.Flash(w, r, view.Message{Title: "Confirmed", Message: "Your email is confirmed. You can sign in now.", CSS: "success"})
	http.Redirect(w, r, "/account/login", http.StatusFound)
}

func (c *AccountController) ShowForgotPassword(w http.ResponseWriter, r *http.Request) {
	view.Render(w, r, "forgot_password", view.Data{"Form": forms.ForgotPasswordForm{}})
}

func (c *AccountController) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var form forms.ForgotPasswordForm
	errs, err := bind.Form(r, &form)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(errs) > 0 {
		view.Render(w, r, "forgot_password", view.Data{"Form": form, "Errors": errs})
		return
	}

	if err := c.accounts.ForgotPassword(form.Email); err != nil {
		logger.WithCtx(r.Context()).Error("account: forgot password", "error", err)
	}

	// Same message whether or not the account exists.
	view.Flash(w, r, view.Message{
		Title:   "Check your inbox",
		Message: "If that email is registered, a reset link is on its way.",
		CSS:     "success",
	})
	http.Redirect(w, r, "/account/login", http.StatusFound)
}

func (c *AccountController) ShowResetPassword(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		view.Flash(w, r, view.Message{Title: "Oops", Message: "That reset link is not valid.", CSS: "danger"})
		http.Redirect(w, r, "/account/forgot-password", http.StatusFound)
		return
	}

	view.Render(w, r, "reset_password", view.Data{"Form": forms.ResetPasswordForm{Token: token}})
}

func (c *AccountController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var form forms.ResetPasswordForm
	errs, err := bind.Form(r, &form)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(errs) > 0 {
		view.Render(w, r, "reset_password", view.Data{"Form": form, "Errors": errs})
		return
	}

	if err := c.accounts.ResetPassword(form.Token, form.Password); err != nil {
		if !errors.Is(err, identity.ErrInvalidToken) {
			logger.WithCtx(r.Context()).Error("account: reset password", "error", err)
		}
		view.Flash(w, r, view.Message{Title: "Oops", Message: "That reset link is invalid or has expired.", CSS: "danger"})
		http.Redirect(w, r, "/account/forgot-password", http.StatusFound)
		return
	}

	view.Flash(w, r, view.Message{Title: "Done", Message: "Your password has been changed. Sign in with the new one.", CSS: "success"})
	http.Redirect(w, r, "/account/login", http.StatusFound)
}

func (c *AccountController) AccessDenied(w http.ResponseWriter, r *http.Request) {
	view.Render(w, r, "access_denied", nil)
}
