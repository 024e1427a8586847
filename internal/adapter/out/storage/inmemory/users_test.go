package inmemory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"myblog/internal/model"
	"myblog/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStorage_CreateUser_FirstIsAdmin(t *testing.T) {
	t.Parallel()

	st := NewUserStorage()

	tests := []struct {
		name     string
		input    model.User
		wantID   int64
		wantRole model.Role
	}{
		{
			name:     "first user",
			input:    model.User{Name: "Ann", Email: "a@x.io", PasswordHash: "h1"},
			wantID:   1,
			wantRole: model.RoleAdmin,
		},
		{
			name:     "second user",
			input:    model.User{Name: "Bob", Email: "b@x.io", PasswordHash: "h2", Role: model.RoleAdmin},
			wantID:   2,
			wantRole: model.RoleMember,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := st.CreateUser(context.Background(), tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.wantID, out.ID)
			require.Equal(t, tt.wantRole, out.Role)
			require.WithinDuration(t, time.Now(), out.CreatedAt, time.Second)

			byID, err := st.GetUserByID(context.Background(), out.ID)
			require.NoError(t, err)
			require.Equal(t, out, byID)

			byEmail, err := st.GetUserByEmail(context.Background(), tt.input.Email)
			require.NoError(t, err)
			require.Equal(t, out, byEmail)
		})
	}
}

func TestUserStorage_CreateUser_DuplicateEmail(t *testing.T) {
	t.Parallel()

	st := NewUserStorage()

	_, err := st.CreateUser(context.Background(), model.User{Name: "Ann", Email: "a@x.io"})
	require.NoError(t, err)

	_, err = st.CreateUser(context.Background(), model.User{Name: "Other", Email: "a@x.io"})
	require.ErrorIs(t, err, service.ErrDuplicateEmail)

	// the rejected user left no row behind
	_, err = st.GetUserByID(context.Background(), 2)
	require.ErrorIs(t, err, service.ErrNotFound)

	byEmail, err := st.GetUserByEmail(context.Background(), "a@x.io")
	require.NoError(t, err)
	require.Equal(t, "Ann", byEmail.Name)

	next, err := st.CreateUser(context.Background(), model.User{Name: "Bob", Email: "b@x.io"})
	require.NoError(t, err)
	require.Equal(t, int64(2), next.ID)
}

func TestUserStorage_CreateUser_ConcurrentSameEmail(t *testing.T) {
	t.Parallel()

	st := NewUserStorage()

	const workers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		dups    int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := st.CreateUser(context.Background(), model.User{
				Name: fmt.Sprintf("u%d", i), Email: "same@x.io",
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				created++
			} else if errors.Is(err, service.ErrDuplicateEmail) {
				dups++
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, created)
	require.Equal(t, workers-1, dups)
}

func TestUserStorage_ConcurrentRegistration_SingleAdmin(t *testing.T) {
	t.Parallel()

	st := NewUserStorage()

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := st.CreateUser(context.Background(), model.User{
				Name: "u", Email: fmt.Sprintf("u%d@x.io", i),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	ids := make([]int64, 0, workers)
	for i := 1; i <= workers; i++ {
		ids = append(ids, int64(i))
	}
	users, err := st.GetUsersByIDs(context.Background(), ids)
	require.NoError(t, err)
	require.Len(t, users, workers)

	admins := 0
	for _, u := range users {
		if u.IsAdmin() {
			admins++
			require.Equal(t, int64(1), u.ID)
		}
	}
	require.Equal(t, 1, admins)
}

func TestUserStorage_NotFound(t *testing.T) {
	t.Parallel()

	st := NewUserStorage()

	_, err := st.GetUserByID(context.Background(), 1)
	require.ErrorIs(t, err, service.ErrNotFound)

	_, err = st.GetUserByID(context.Background(), -1)
	require.ErrorIs(t, err, service.ErrNotFound)

	_, err = st.GetUserByEmail(context.Background(), "nobody@x.io")
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestUserStorage_GetUsersByIDs_SkipsMissing(t *testing.T) {
	t.Parallel()

	st := NewUserStorage()
	a, err := st.CreateUser(context.Background(), model.User{Name: "Ann", Email: "a@x.io"})
	require.NoError(t, err)
	b, err := st.CreateUser(context.Background(), model.User{Name: "Bob", Email: "b@x.io"})
	require.NoError(t, err)

	got, err := st.GetUsersByIDs(context.Background(), []int64{b.ID, 42, a.ID})
	require.NoError(t, err)
	require.Equal(t, []model.User{b, a}, got)

	empty, err := st.GetUsersByIDs(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, empty)
}
