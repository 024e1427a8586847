package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"myblog/pkg/clock"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func issue(t *testing.T, m *Manager, userID int64) *http.Cookie {
	t.Helper()

	rec := httptest.NewRecorder()
	require.NoError(t, m.Issue(rec, userID))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func requestWith(c *http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if c != nil {
		r.AddCookie(c)
	}
	return r
}

func TestManager_IssueAndRead(t *testing.T) {
	t.Parallel()

	clk := clock.NewStubClock(time.Date(2022, 7, 20, 10, 0, 0, 0, time.UTC))
	m := NewManager(testSecret, time.Hour, true, clk)

	c := issue(t, m, 42)
	require.Equal(t, CookieName, c.Name)
	require.True(t, c.HttpOnly)
	require.True(t, c.Secure)
	require.Equal(t, http.SameSiteLaxMode, c.SameSite)
	require.Equal(t, 3600, c.MaxAge)

	userID, err := m.Read(requestWith(c))
	require.NoError(t, err)
	require.Equal(t, int64(42), userID)
}

func TestManager_Read_Failures(t *testing.T) {
	t.Parallel()

	clk := clock.NewStubClock(time.Date(2022, 7, 20, 10, 0, 0, 0, time.UTC))
	m := NewManager(testSecret, time.Hour, false, clk)
	other := NewManager("ffffffffffffffffffffffffffffffff", time.Hour, false, clk)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(clk.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "abc",
		ExpiresAt: jwt.NewNumericDate(clk.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "1",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name    string
		cookie  *http.Cookie
		wantErr error
	}{
		{name: "no cookie", cookie: nil, wantErr: ErrNoSession},
		{name: "empty cookie", cookie: &http.Cookie{Name: CookieName}, wantErr: ErrNoSession},
		{name: "garbage", cookie: &http.Cookie{Name: CookieName, Value: "not-a-jwt"}, wantErr: ErrInvalidToken},
		{name: "foreign signature", cookie: issue(t, other, 1), wantErr: ErrInvalidToken},
		{name: "alg none", cookie: &http.Cookie{Name: CookieName, Value: noneToken}, wantErr: ErrInvalidToken},
		{name: "bad subject", cookie: &http.Cookie{Name: CookieName, Value: badSubject}, wantErr: ErrInvalidToken},
		{name: "missing expiry", cookie: &http.Cookie{Name: CookieName, Value: noExpiry}, wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Read(requestWith(tt.cookie))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestManager_Read_Expired(t *testing.T) {
	t.Parallel()

	clk := clock.NewStubClock(time.Date(2022, 7, 20, 10, 0, 0, 0, time.UTC))
	m := NewManager(testSecret, time.Hour, false, clk)

	c := issue(t, m, 7)
	clk.Set(clk.Now().Add(2 * time.Hour))

	_, err := m.Read(requestWith(c))
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_Clear(t *testing.T) {
	t.Parallel()

	m := NewManager(testSecret, 0, false, nil)
	rec := httptest.NewRecorder()
	m.Clear(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, CookieName, cookies[0].Name)
	require.Empty(t, cookies[0].Value)
	require.Equal(t, -1, cookies[0].MaxAge)
}
