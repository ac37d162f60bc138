package credentials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserID(t *testing.T) {
	cases := []struct {
		name        string
		first, last string
		want        string
	}{
		{name: "regular", first: "Jane", last: "Doe", want: "janee"},
		{name: "long first name", first: "Alexandra", last: "Smith", want: "alexh"},
		{name: "short first name", first: "Al", last: "Jones", want: "als"},
		{name: "trims whitespace", first: "  Mary ", last: " Ann  ", want: "maryn"},
		{name: "rune aware", first: "Zoë", last: "Müller", want: "zoër"},
		{name: "empty last name", first: "Omar", last: "", want: "omar"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, UserID(tc.first, tc.last))
		})
	}
}

func TestPassword(t *testing.T) {
	got, err := Password("John", "1990-04-15")
	require.NoError(t, err)
	assert.Equal(t, "john#15", got)

	got, err = Password("Robertson", "1985-12-01")
	require.NoError(t, err)
	assert.Equal(t, "robe#01", got, "day segment is kept verbatim")

	got, err = Password("Ed", "2000-01-09")
	require.NoError(t, err)
	assert.Equal(t, "ed#09", got)

	_, err = Password("John", "15/04/1990")
	assert.Error(t, err)
}

func TestDeriveIsDeterministic(t *testing.T) {
	a, err := Derive("Jane", "Doe", "John", "1990-04-15")
	require.NoError(t, err)
	b, err := Derive("Jane", "Doe", "John", "1990-04-15")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, Credentials{UserID: "janee", Password: "john#15"}, a)
}
