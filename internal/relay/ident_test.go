package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveUserID(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"a.b@x.com", "a_b_x_com"},
		{"simple@example.com", "simple_example_com"},
		{"with-dash_ok@mail.io", "with-dash_ok_mail_io"},
		{"UPPER.case@X.COM", "UPPER_case_X_COM"},
		{"weird!#$chars@x.com", "weird___chars_x_com"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveUserID(tt.email), "email %q", tt.email)
	}
}

func TestDeriveUserIDDeterministic(t *testing.T) {
	// Distinct emails can collapse to the same id; registration relies on
	// that being stable.
	assert.Equal(t, DeriveUserID("a.b@x.com"), DeriveUserID("a_b@x_com"))
	assert.Equal(t, DeriveUserID("a.b@x.com"), DeriveUserID("a.b@x.com"))
}
