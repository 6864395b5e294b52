package security

import (
	"net/http"
	"time"
)

const RefreshCookieName = "refresh_token"

// refreshCookieName picks the __Host- prefixed name when the cookie is Secure.
// The prefix makes the browser enforce Secure + Path=/ + no Domain attribute.
func refreshCookieName(secure bool) string {
	if secure {
		return "__Host-" + RefreshCookieName
	}
	return RefreshCookieName
}

func refreshCookie(value string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     refreshCookieName(secure),
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
}

func SetRefreshToken(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, refreshCookie(token, int(ttl.Seconds()), secure))
}

func ClearRefreshToken(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, refreshCookie("", -1, secure))
}

// ReadRefreshToken checks the secure variant first, then the plain one used
// in local non-HTTPS development.
func ReadRefreshToken(r *http.Request) (string, error) {
	if c, err := r.Cookie(refreshCookieName(true)); err == nil {
		return c.Value, nil
	}
	c, err := r.Cookie(refreshCookieName(false))
	if err != nil {
		return "", err
	}
	return c.Value, nil
}
