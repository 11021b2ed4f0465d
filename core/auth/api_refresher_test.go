package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIRefresherRotatesTokens(t *testing.T) {
	st := &memTokenStore{}
	require.NoError(t, st.SaveTokens(TokenPair{AccessToken: "old-access", RefreshToken: "old-refresh"}))

	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"access_token":  "new-access",
			"refresh_token": "new-refresh",
		})
	}))
	defer srv.Close()

	r := NewAPIRefresher(nil, st, WithRefreshURL(srv.URL))
	require.NoError(t, r.Refresh(context.Background()))

	assert.Equal(t, "old-refresh", gotBody["refresh_token"], "请求携带存储中的刷新令牌")
	pair, err := st.LoadTokens()
	require.NoError(t, err)
	assert.Equal(t, "new-access", pair.AccessToken)
	assert.Equal(t, "new-refresh", pair.RefreshToken, "刷新令牌同步轮换")
}

func TestAPIRefresherFailureClearsStore(t *testing.T) {
	st := &memTokenStore{}
	require.NoError(t, st.SaveTokens(TokenPair{AccessToken: "old-access", RefreshToken: "revoked"}))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Invalid refresh token"})
	}))
	defer srv.Close()

	r := NewAPIRefresher(nil, st, WithRefreshURL(srv.URL))
	err := r.Refresh(context.Background())
	require.Error(t, err)
	assert.False(t, st.has, "刷新失败后本地令牌被清空")
}

func TestAPIRefresherNoRefreshToken(t *testing.T) {
	r := NewAPIRefresher(nil, &memTokenStore{})
	assert.ErrorIs(t, r.Refresh(context.Background()), ErrNoRefreshToken)
}

func TestAPIRefresherRejectsPartialResponse(t *testing.T) {
	st := &memTokenStore{}
	require.NoError(t, st.SaveTokens(TokenPair{AccessToken: "old-access", RefreshToken: "old-refresh"}))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"access_token": "only-access"})
	}))
	defer srv.Close()

	r := NewAPIRefresher(nil, st, WithRefreshURL(srv.URL))
	assert.ErrorIs(t, r.Refresh(context.Background()), ErrRefreshResponseInvalid)
}

func TestAPIRefresherNeedsRefresh(t *testing.T) {
	st := &memTokenStore{}
	r := NewAPIRefresher(nil, st, WithRefreshNow(fixedNow))
	assert.False(t, r.NeedsRefresh(), "无令牌不触发刷新")

	require.NoError(t, st.SaveTokens(validPair(t)))
	assert.False(t, r.NeedsRefresh())

	expired := signedToken(t, jwt.MapClaims{"exp": fixedNow().Unix() - 60})
	require.NoError(t, st.SaveTokens(TokenPair{AccessToken: expired, RefreshToken: "r"}))
	assert.True(t, r.NeedsRefresh())
}
