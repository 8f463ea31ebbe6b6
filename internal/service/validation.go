package service

import (
	"errors"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/blog-service/internal/domain"
)

const minPasswordLength = 8

// profileFields are the user attributes checked on registration and update.
type profileFields struct {
	Name     string        `validate:"notblank,max=30"`
	Username string        `validate:"required,min=3,max=15,alphanum"`
	Email    string        `validate:"required,max=40,email"`
	Age      int           `validate:"min=0,max=150"`
	Gender   domain.Gender `validate:"gender"`
}

type passwordField struct {
	Password string `validate:"required,strongpassword"`
}

// blogFields are the post attributes checked on create and update. Tags are
// normalized before validation.
type blogFields struct {
	Title       string   `validate:"notblank"`
	Description string   `validate:"notblank"`
	Tags        []string `validate:"min=1"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.ToLower(f.Name)
	})
	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
		return domain.Gender(fl.Field().String()).Valid()
	}); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return isStrongPassword(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// fieldErrors collects per-field validation messages.
type fieldErrors map[string]any

func (f fieldErrors) add(field, message string) {
	if _, exists := f[field]; !exists {
		f[field] = message
	}
}

// check validates s and records one message per failing field.
func (f fieldErrors) check(s any) {
	err := validate.Struct(s)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		f.add("_", err.Error())
		return
	}
	for _, fe := range verrs {
		f.add(fe.Field(), messageFor(fe))
	}
}

var fieldMessages = map[string]string{
	"name.notblank":           "Name cannot be empty.",
	"name.max":                "Name cannot exceed 30 characters.",
	"username.required":       "Username cannot be empty.",
	"username.min":            "Username must have at least 3 characters.",
	"username.max":            "Username cannot exceed 15 characters.",
	"username.alphanum":       "Username does not allow other than alphanumeric chars.",
	"email.required":          "Email cannot be empty.",
	"email.max":               "Email cannot exceed 40 characters.",
	"email.email":             "Invalid email format.",
	"age.min":                 "Age must be a realistic integer.",
	"age.max":                 "Age must be a realistic integer.",
	"gender.gender":           "Gender must be one of: f, m, u.",
	"password.required":       "Password cannot be empty.",
	"password.strongpassword": "Use stronger password.",
	"title.notblank":          "Title cannot be empty.",
	"description.notblank":    "Description cannot be empty.",
	"tags.min":                "Tag cannot be empty.",
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	return "Invalid " + fe.Field() + "."
}

// isStrongPassword requires at least eight characters mixing upper case,
// lower case, digits and symbols.
func isStrongPassword(s string) bool {
	if utf8.RuneCountInString(s) < minPasswordLength {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	return upper && lower && digit && special
}
