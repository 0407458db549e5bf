// Package cookie выставляет и очищает cookie с токенами.
package cookie

import (
	"net/http"
	"time"

	"github.com/magabrotheeeer/videotube/internal/models"
)

// Имена cookie с токенами.
const (
	AccessToken  = "accessToken"
	RefreshToken = "refreshToken"
)

// Options параметры cookie. Secure выключается только для локальной разработки.
type Options struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// SetTokens выставляет httpOnly cookie с обоими токенами.
func SetTokens(w http.ResponseWriter, pair *models.TokenPair, opts Options) {
	http.SetCookie(w, newCookie(AccessToken, pair.AccessToken, opts.AccessTTL, opts.Secure))
	http.SetCookie(w, newCookie(RefreshToken, pair.RefreshToken, opts.RefreshTTL, opts.Secure))
}

// ClearTokens удаляет обе cookie.
func ClearTokens(w http.ResponseWriter, opts Options) {
	for _, name := range []string{AccessToken, RefreshToken} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   opts.Secure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}
}

func newCookie(name, value string, ttl time.Duration, secure bool) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl > 0 {
		c.Expires = time.Now().Add(ttl)
		c.MaxAge = int(ttl.Seconds())
	}
	return c
}
