package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/blog-service/internal/domain"
)

func TestFieldErrorsCheck(t *testing.T) {
	valid := profileFields{Name: "Bob", Username: "bob1", Email: "bob@x.com", Age: 30, Gender: domain.GenderUnspecified}

	tests := []struct {
		name   string
		input  any
		field  string
		result string
	}{
		{name: "blank name", input: func() profileFields { p := valid; p.Name = "  "; return p }(), field: "name", result: "Name cannot be empty."},
		{name: "long username", input: func() profileFields { p := valid; p.Username = strings.Repeat("a", 16); return p }(), field: "username", result: "Username cannot exceed 15 characters."},
		{name: "non alphanumeric username", input: func() profileFields { p := valid; p.Username = "bo b"; return p }(), field: "username", result: "Username does not allow other than alphanumeric chars."},
		{name: "long email", input: func() profileFields { p := valid; p.Email = strings.Repeat("a", 35) + "@x.com"; return p }(), field: "email", result: "Email cannot exceed 40 characters."},
		{name: "malformed email", input: func() profileFields { p := valid; p.Email = "bob@"; return p }(), field: "email", result: "Invalid email format."},
		{name: "negative age", input: func() profileFields { p := valid; p.Age = -1; return p }(), field: "age", result: "Age must be a realistic integer."},
		{name: "unknown gender", input: func() profileFields { p := valid; p.Gender = "x"; return p }(), field: "gender", result: "Gender must be one of: f, m, u."},
		{name: "missing gender", input: func() profileFields { p := valid; p.Gender = ""; return p }(), field: "gender", result: "Gender must be one of: f, m, u."},
		{name: "weak password", input: passwordField{Password: "abcdefgh"}, field: "password", result: "Use stronger password."},
		{name: "blank title", input: blogFields{Title: "\t", Description: "d", Tags: []string{"go"}}, field: "title", result: "Title cannot be empty."},
		{name: "no tags", input: blogFields{Title: "t", Description: "d"}, field: "tags", result: "Tag cannot be empty."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := fieldErrors{}
			errs.check(tt.input)
			assert.Equal(t, fieldErrors{tt.field: tt.result}, errs)
		})
	}

	errs := fieldErrors{}
	errs.check(valid)
	errs.check(passwordField{Password: strongPassword})
	errs.check(blogFields{Title: "t", Description: "d", Tags: []string{"go"}})
	assert.Empty(t, errs)
}

func TestFieldErrorsKeepFirstMessage(t *testing.T) {
	errs := fieldErrors{}
	errs.check(profileFields{Name: "Bob", Email: "bob@x.com", Gender: domain.GenderFemale})
	errs.add("username", "overwritten")

	assert.Equal(t, "Username cannot be empty.", errs["username"])
}
