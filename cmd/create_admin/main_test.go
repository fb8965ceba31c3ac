package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadInput(t *testing.T) {
	input, err := readInput(" Admin@AdBridge.dz ", "Ops", strings.NewReader("Secret123\n"))

	require.NoError(t, err)
	require.Equal(t, adminInput{Email: "admin@adbridge.dz", Name: "Ops", Password: "Secret123"}, input)
}

func TestReadInputWithoutTrailingNewline(t *testing.T) {
	input, err := readInput("admin@adbridge.dz", "Admin", strings.NewReader("Secret123"))

	require.NoError(t, err)
	require.Equal(t, "Secret123", string(input.Password))
}

func TestReadInputInvalid(t *testing.T) {
	cases := []struct {
		id       string
		email    string
		password string
	}{
		{id: "no email", email: "", password: "Secret123\n"},
		{id: "malformed email", email: "admin", password: "Secret123\n"},
		{id: "weak password", email: "admin@adbridge.dz", password: "short\n"},
		{id: "empty password", email: "admin@adbridge.dz", password: ""},
	}
	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			_, err := readInput(testcase.email, "Admin", strings.NewReader(testcase.password))

			require.Error(t, err)
		})
	}
}
