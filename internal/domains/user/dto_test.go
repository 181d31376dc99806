package user

import (
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conduit-backend/internal/shared/utils"
)

func TestRegisterRequestValidate(t *testing.T) {
	valid := RegisterRequest{
		Username: "alice_99",
		Email:    "alice@example.com",
		Password: "Password1",
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(r *RegisterRequest)
		field  string
	}{
		{"username too short", func(r *RegisterRequest) { r.Username = "ab" }, "username"},
		{"username with special chars", func(r *RegisterRequest) { r.Username = "alice!" }, "username"},
		{"email invalid", func(r *RegisterRequest) { r.Email = "not-an-email" }, "email"},
		{"password too short", func(r *RegisterRequest) { r.Password = "Ab1" }, "password"},
		{"password no uppercase", func(r *RegisterRequest) { r.Password = "password1" }, "password"},
		{"password no lowercase", func(r *RegisterRequest) { r.Password = "PASSWORD1" }, "password"},
		{"password no digit", func(r *RegisterRequest) { r.Password = "Passwordx" }, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			err := req.Validate()
			require.Error(t, err)

			var vErrs validation.Errors
			require.True(t, errors.As(err, &vErrs))
			assert.Contains(t, vErrs, tt.field)
		})
	}
}

func TestUpdateUserRequestIsEmpty(t *testing.T) {
	assert.True(t, UpdateUserRequest{}.IsEmpty())

	bio := "hello"
	assert.False(t, UpdateUserRequest{Bio: &bio}.IsEmpty())
}

func TestUpdateUserRequestPartialValidation(t *testing.T) {
	// Field nil không bị validate
	assert.NoError(t, UpdateUserRequest{}.Validate())

	bad := "x"
	err := UpdateUserRequest{Password: &bad}.Validate()
	require.Error(t, err)

	var vErrs validation.Errors
	require.True(t, errors.As(err, &vErrs))
	assert.Contains(t, vErrs, "password")
}

func TestUserToDTOOmitsSecrets(t *testing.T) {
	token := "jwt-token"
	u := User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$12$hash",
		Token:        utils.StringPtr(token),
	}

	dto := u.ToDTO()
	assert.Equal(t, "alice", dto.Username)
	assert.Equal(t, "alice@example.com", dto.Email)
	// UserDTO không có chỗ cho hash/token - compile-time guarantee,
	// test này chỉ pin lại mapping các fields public
	assert.Equal(t, u.Bio, dto.Bio)
}
