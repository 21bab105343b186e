package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nested struct {
	ZipCode string `json:"zipCode" validate:"max=5"`
}

type sample struct {
	Email    string  `json:"email" validate:"blankoremail"`
	Password string  `json:"password" validate:"maxbytes=72"`
	Nested   *nested `json:"nested"`
}

func TestValidator_BlankOrEmail(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "empty", email: ""},
		{name: "whitespace", email: "   "},
		{name: "valid", email: "maria@example.com"},
		{name: "invalid", email: "not-an-email", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&sample{Email: tt.email})
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, "email: must be a valid email address", Describe(err))

				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidator_NestedFieldNames(t *testing.T) {
	err := New().Validate(&sample{Nested: &nested{ZipCode: "0123456789"}})

	require.Error(t, err)
	assert.Equal(t, "nested.zipCode: must be at most 5 characters", Describe(err))
}

func TestValidator_MaxBytes(t *testing.T) {
	v := New()

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "empty", password: ""},
		{name: "exactly 72 bytes", password: strings.Repeat("a", 72)},
		{name: "36 two-byte runes", password: strings.Repeat("é", 36)},
		{name: "73 bytes", password: strings.Repeat("a", 73), wantErr: true},
		{name: "40 runes over 72 bytes", password: strings.Repeat("é", 40), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&sample{Password: tt.password})
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, "password: must be at most 72 bytes", Describe(err))

				return
			}
			assert.NoError(t, err)
		})
	}
}
