// Package forms holds the validated presentation models posted by the HTML
// pages. Controllers bind the request into one of these, run the validate
// tags, and redisplay the form with field messages when anything fails.
package forms

// RegisterForm is posted from /account/register.
type RegisterForm struct {
	UserName             string `json:"user_name" form:"user_name" validate:"required,alpha_dash,min=3,max=50"`
	Email                string `json:"email" form:"email" validate:"required,email"`
	FullName             string `json:"full_name" form:"full_name" validate:"required,max=100"`
	Password             string `json:"password" form:"password" validate:"required,min=8,confirmed"`
	PasswordConfirmation string `json:"password_confirmation" form:"password_confirmation"`
}

// LoginForm is posted from /account/login. ReturnURL carries the page the
// user was bounced from by the auth guard.
type LoginForm struct {
	Email     string `json:"email" form:"email" validate:"required,email"`
	Password  string `json:"password" form:"password" validate:"required"`
	ReturnURL string `json:"return_url" form:"return_url"`
}

// ForgotPasswordForm is posted from /account/forgot-password.
type ForgotPasswordForm struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

// ResetPasswordForm is posted from /account/reset-password. The token
// travels in a hidden field, copied from the mail link.
type ResetPasswordForm struct {
	Token                string `json:"token" form:"token" validate:"required"`
	Password             string `json:"password" form:"password" validate:"required,min=8,confirmed"`
	PasswordConfirmation string `json:"password_confirmation" form:"password_confirmation"`
}

// CategoryForm is posted from the admin category pages.
type CategoryForm struct {
	Name string `json:"name" form:"name" validate:"required,min=2,max=100"`
}

// ProductForm is posted from the admin product pages. Price is optional
// (a pending catalog entry has none) but must fall in range when present.
// ImageURL is filled by the controller after the upload lands on the
// storage disk, then validated with the rest.
type ProductForm struct {
	Name        string   `json:"name" form:"name" validate:"required,min=2,max=255"`
	ImageURL    string   `json:"image_url" form:"image_url" validate:"required,max=512"`
	Description string   `json:"description" form:"description" validate:"required,between=10,1000"`
	Price       *float64 `json:"price" form:"price" validate:"nullable,between=1,1000"`
	CategoryIDs []uint   `json:"category_ids" form:"category_ids"`
}
