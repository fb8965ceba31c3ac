package account

import (
	c "adbridge/internal/core/domain/common"
	e "adbridge/internal/core/domain/errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var NOW = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestPendingResetExpiryIsExclusive(t *testing.T) {
	reset := PendingReset{TokenHash: "hash", ExpiresAt: NOW}

	require.True(t, reset.IsValidAt(NOW.Add(-time.Millisecond)))
	require.False(t, reset.IsValidAt(NOW))
	require.False(t, reset.IsValidAt(NOW.Add(time.Millisecond)))
}

func TestHasPendingReset(t *testing.T) {
	a := Account{ID: "1"}
	require.False(t, a.HasPendingReset(NOW))

	a.PendingReset = c.NewOptional(PendingReset{TokenHash: "hash", ExpiresAt: NOW.Add(time.Minute)}, true)
	require.True(t, a.HasPendingReset(NOW))
	require.False(t, a.HasPendingReset(NOW.Add(time.Hour)))
	// Expired fields stay on the record, they are only ignored.
	require.True(t, a.PendingReset.IsPresent)
}

func TestAccountHelpersOnReturnedValues(t *testing.T) {
	withReset := func(role Role) Account {
		return Account{
			ID:           "1",
			Role:         role,
			PendingReset: c.NewOptional(PendingReset{TokenHash: "hash", ExpiresAt: NOW.Add(time.Minute)}, true),
		}
	}

	require.True(t, withReset(RoleClient).HasPendingReset(NOW))
	require.True(t, withReset(RoleAdmin).IsAdmin())
	require.False(t, withReset(RoleAgency).IsAdmin())
}

func TestAccountValidate(t *testing.T) {
	valid := Account{ID: "1", Email: "a@x.com", PasswordHash: "hash", Role: RoleAdmin}
	require.NoError(t, valid.Validate())

	cases := []struct {
		id     string
		modify func(a *Account)
	}{
		{id: "no id", modify: func(a *Account) { a.ID = "" }},
		{id: "no email", modify: func(a *Account) { a.Email = "" }},
		{id: "no password", modify: func(a *Account) { a.PasswordHash = "" }},
		{id: "bad role", modify: func(a *Account) { a.Role = "root" }},
		{id: "empty reset hash", modify: func(a *Account) {
			a.PendingReset = c.NewOptional(PendingReset{ExpiresAt: NOW}, true)
		}},
	}
	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			a := valid
			testcase.modify(&a)
			var invalidState *e.InvalidStateError
			require.ErrorAs(t, a.Validate(), &invalidState)
		})
	}
}

func TestSecretsAreRedacted(t *testing.T) {
	require.Equal(t, "***", fmt.Sprint(RawPassword("secret-password-1")))
	require.Equal(t, "***", fmt.Sprint(PasswordHash("$2a$10$hash")))
	require.Equal(t, "***", fmt.Sprint(ResetToken("clear-token")))
	require.Equal(t, "***", fmt.Sprint(SessionToken("jwt")))
}

func TestValidateNewPassword(t *testing.T) {
	cases := []struct {
		password string
		isValid  bool
	}{
		{password: "NewPass123!", isValid: true},
		{password: "abcdefg1", isValid: true},
		{password: "пароль123", isValid: true},
		{password: "", isValid: false},
		{password: "        ", isValid: false},
		{password: "abc1", isValid: false},
		{password: "abcdefgh", isValid: false},
		{password: "12345678", isValid: false},
		{password: "a1" + string(make([]byte, 300)), isValid: false},
	}
	for ix, testcase := range cases {
		t.Run(fmt.Sprint(ix), func(t *testing.T) {
			err := ValidateNewPassword(RawPassword(testcase.password))
			if testcase.isValid {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Equal(t, e.Validation, e.KindOf(err))
		})
	}
}

func TestRoleIsValid(t *testing.T) {
	require.True(t, RoleAdmin.IsValid())
	require.True(t, RoleAgency.IsValid())
	require.True(t, RoleClient.IsValid())
	require.False(t, Role("").IsValid())
	require.False(t, Role("superuser").IsValid())
}
