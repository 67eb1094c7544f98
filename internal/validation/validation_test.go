package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{name: "valid simple", username: "user1", wantErr: false},
		{name: "valid short", username: "u1", wantErr: false},
		{name: "valid with underscore", username: "some_user_42", wantErr: false},
		{name: "empty", username: "", wantErr: true},
		{name: "too long", username: strings.Repeat("a", 33), wantErr: true},
		{name: "with space", username: "some user", wantErr: true},
		{name: "with dash", username: "some-user", wantErr: true},
		{name: "cyrillic", username: "пользователь", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "valid", email: "u1@x.com", wantErr: false},
		{name: "valid subdomain", email: "user@mail.example.org", wantErr: false},
		{name: "empty", email: "", wantErr: true},
		{name: "no at", email: "userx.com", wantErr: true},
		{name: "no domain dot", email: "user@localhost", wantErr: true},
		{name: "two ats", email: "a@b@c.com", wantErr: true},
		{name: "with space", email: "a b@c.com", wantErr: true},
		{name: "too long", email: strings.Repeat("a", 250) + "@x.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "u1@x.com", NormalizeEmail("  U1@X.Com "))
	assert.Equal(t, "u1@x.com", NormalizeEmail("u1@x.com"))
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword(""))
	assert.Error(t, ValidatePassword(strings.Repeat("p", 73)))
	assert.NoError(t, ValidatePassword("p1"))
	assert.NoError(t, ValidatePassword(strings.Repeat("p", 72)))
}
