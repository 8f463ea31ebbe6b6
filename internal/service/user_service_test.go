package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, _ := f.register(t, "alice")
	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, strongPassword, u.PasswordHash)
	assert.True(t, auth.NewHasher(4).Verify(strongPassword, u.PasswordHash))

	valid := RegisterInput{Name: "Bob", Username: "bob", Email: "bob@x.com", Age: 20, Gender: domain.GenderMale, Password: strongPassword}

	tests := []struct {
		name      string
		mutate    func(in *RegisterInput)
		status    int
		wantField string
	}{
		{name: "taken username", mutate: func(in *RegisterInput) { in.Username = "alice" }, status: http.StatusConflict},
		{name: "taken email", mutate: func(in *RegisterInput) { in.Email = "alice@x.com" }, status: http.StatusConflict},
		{name: "empty name", mutate: func(in *RegisterInput) { in.Name = "" }, status: http.StatusBadRequest, wantField: "name"},
		{name: "long name", mutate: func(in *RegisterInput) { in.Name = "abcdefghijklmnopqrstuvwxyz12345" }, status: http.StatusBadRequest, wantField: "name"},
		{name: "short username", mutate: func(in *RegisterInput) { in.Username = "bo" }, status: http.StatusBadRequest, wantField: "username"},
		{name: "symbol username", mutate: func(in *RegisterInput) { in.Username = "bob_1" }, status: http.StatusBadRequest, wantField: "username"},
		{name: "bad email", mutate: func(in *RegisterInput) { in.Email = "bob-at-x" }, status: http.StatusBadRequest, wantField: "email"},
		{name: "display name email", mutate: func(in *RegisterInput) { in.Email = "Bob <bob@x.com>" }, status: http.StatusBadRequest, wantField: "email"},
		{name: "bad gender", mutate: func(in *RegisterInput) { in.Gender = "x" }, status: http.StatusBadRequest, wantField: "gender"},
		{name: "weak password", mutate: func(in *RegisterInput) { in.Password = "password" }, status: http.StatusBadRequest, wantField: "password"},
		{name: "empty password", mutate: func(in *RegisterInput) { in.Password = "" }, status: http.StatusBadRequest, wantField: "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := f.userSvc.Register(ctx, in)
			de := requireStatus(t, err, tt.status)
			if tt.wantField != "" {
				assert.Contains(t, de.Details, tt.wantField)
			}
		})
	}

	_, err := f.userSvc.Register(ctx, valid)
	require.NoError(t, err)
}

func TestListAndGetUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.userSvc.ListUsers(ctx)
	de := requireStatus(t, err, http.StatusNotFound)
	assert.Equal(t, "No users found", de.Message)

	u, _ := f.register(t, "alice")
	users, err := f.userSvc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	got, err := f.userSvc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = f.userSvc.GetUser(ctx, "nope")
	requireStatus(t, err, http.StatusNotFound)
	_, err = f.userSvc.GetUser(ctx, "00000000-0000-0000-0000-000000000000")
	requireStatus(t, err, http.StatusNotFound)
}

func TestMalformedUserIDsAreNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, claims := f.register(t, "alice")
	malformed := &auth.Claims{Subject: "abc"}

	for _, id := range []string{"abc", "1", "", "alice"} {
		_, err := f.userSvc.GetUser(ctx, id)
		de := requireStatus(t, err, http.StatusNotFound)
		assert.Equal(t, "user not found", de.Message)

		_, err = f.userSvc.UpdateUser(ctx, claims, id, UserPatch{Name: ptr("x")})
		requireStatus(t, err, http.StatusNotFound)
		requireStatus(t, f.userSvc.DeleteUser(ctx, claims, id), http.StatusNotFound)
	}
	requireStatus(t, f.userSvc.DeleteUser(ctx, malformed, "abc"), http.StatusNotFound)
}

func TestUpdateUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, aliceClaims := f.register(t, "alice")
	_, bobClaims := f.register(t, "bob")

	_, err := f.userSvc.UpdateUser(ctx, bobClaims, alice.ID, UserPatch{Name: ptr("Mallory")})
	de := requireStatus(t, err, http.StatusForbidden)
	assert.Equal(t, string(auth.ReasonNotOwner), de.Details["reason"])

	_, err = f.userSvc.UpdateUser(ctx, aliceClaims, alice.ID, UserPatch{Email: ptr("bob@x.com")})
	requireStatus(t, err, http.StatusConflict)

	_, err = f.userSvc.UpdateUser(ctx, aliceClaims, alice.ID, UserPatch{Username: ptr("a!")})
	requireStatus(t, err, http.StatusBadRequest)

	updated, err := f.userSvc.UpdateUser(ctx, aliceClaims, alice.ID, UserPatch{
		Name:     ptr("Alice A."),
		Username: ptr("alice"),
		Age:      ptr(31),
		Password: ptr("N3w!Password"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice A.", updated.Name)
	assert.Equal(t, 31, updated.Age)

	_, err = f.authSvc.Login(ctx, "alice@x.com", strongPassword)
	requireStatus(t, err, http.StatusUnauthorized)
	_, err = f.authSvc.Login(ctx, "alice@x.com", "N3w!Password")
	require.NoError(t, err)
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, aliceClaims := f.register(t, "alice")
	_, bobClaims := f.register(t, "bob")

	requireStatus(t, f.userSvc.DeleteUser(ctx, bobClaims, alice.ID), http.StatusForbidden)
	requireStatus(t, f.userSvc.DeleteUser(ctx, nil, alice.ID), http.StatusUnauthorized)
	require.NoError(t, f.userSvc.DeleteUser(ctx, aliceClaims, alice.ID))
	requireStatus(t, f.userSvc.DeleteUser(ctx, aliceClaims, alice.ID), http.StatusNotFound)
}
