package handlers

import (
	"net/http"
	"strings"
)

const (
	sessionCookieName   = "session"
	sessionCookieMaxAge = 3600 // seconds
)

// setSessionCookie stores the raw verified ID token as the session cookie.
// secure must be true in production so the cookie is only sent over TLS.
func setSessionCookie(w http.ResponseWriter, idToken string, sameSite http.SameSite, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    idToken,
		Path:     "/",
		MaxAge:   sessionCookieMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	})
}

// clearSessionCookie expires the session cookie on the client. Nothing is
// revoked server-side; the underlying token stays valid until it expires.
func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// tokenFromRequest reads the ID token from the session cookie, falling back
// to the Authorization bearer header. Returns "" when neither is present.
func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(sessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}

	return ""
}

// internalErrorMessage hides error details in production.
func internalErrorMessage(err error, production bool) string {
	if production || err == nil {
		return "Internal server error"
	}
	return err.Error()
}
