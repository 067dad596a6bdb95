package handler

import (
	"net/http"
	"time"

	"portfolio_backend/internal/platform/config"
)

const refreshTokenCookie = "refreshToken"

// setAuthCookie writes an http-only, same-site-strict cookie whose lifetime
// matches the token it carries. Secure is on only in production so local
// development over plain HTTP keeps working.
func setAuthCookie(w http.ResponseWriter, name, value string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   config.AppConfig.IsProduction(),
		SameSite: http.SameSiteStrictMode,
	})
}

func clearAuthCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   config.AppConfig.IsProduction(),
		SameSite: http.SameSiteStrictMode,
	})
}
