package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentity(t *testing.T) {
	t.Parallel()

	var zero Identity
	require.False(t, zero.IsAuthenticated())
	require.False(t, Anonymous().IsAuthenticated())

	_, ok := Anonymous().User()
	require.False(t, ok)

	id := Authenticated(User{ID: 3, Name: "ann", Role: RoleMember})
	require.True(t, id.IsAuthenticated())

	u, ok := id.User()
	require.True(t, ok)
	require.Equal(t, int64(3), u.ID)
	require.False(t, u.IsAdmin())
}
