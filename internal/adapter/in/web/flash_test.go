package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlash_RoundTrip(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	setFlash(rec, "Wrong Password")
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(cookies[0])

	rec = httptest.NewRecorder()
	require.Equal(t, "Wrong Password", popFlash(rec, req))

	expired := rec.Result().Cookies()
	require.Len(t, expired, 1)
	require.Equal(t, flashCookie, expired[0].Name)
	require.Equal(t, -1, expired[0].MaxAge)
}

func TestFlash_MissingOrCorrupt(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Empty(t, popFlash(rec, req))
	require.Empty(t, rec.Result().Cookies())

	req.AddCookie(&http.Cookie{Name: flashCookie, Value: "%%%"})
	require.Empty(t, popFlash(httptest.NewRecorder(), req))
}
