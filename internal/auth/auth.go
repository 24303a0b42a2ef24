package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultCookieName = "auth_token"

// Auth verifies the admin session token. The token is an HS256 JWT carried in
// a cookie (the admin UI) or an Authorization bearer header (API clients).
type Auth struct {
	secret     []byte
	cookieName string
	logger     *slog.Logger
}

func New(secret, cookieName string, logger *slog.Logger) *Auth {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &Auth{
		secret:     []byte(secret),
		cookieName: cookieName,
		logger:     logger,
	}
}

func (a *Auth) tokenFrom(r *http.Request) string {
	if cookie, err := r.Cookie(a.cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}

	return ""
}

func (a *Auth) verify(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// Middleware rejects requests without a valid session token.
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := a.tokenFrom(r)
		if tokenString == "" {
			a.writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		if _, err := a.verify(tokenString); err != nil {
			a.logger.Warn("token verification failed", "error", err)
			a.writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *Auth) HandleMe(w http.ResponseWriter, r *http.Request) {
	tokenString := a.tokenFrom(r)
	if tokenString == "" {
		a.writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	claims, err := a.verify(tokenString)
	if err != nil {
		a.writeError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]any{"authenticated": true, "user": claims})
}

func (a *Auth) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   true,
	})

	a.writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (a *Auth) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		a.logger.Error("failed to encode response", "error", err)
	}
}

func (a *Auth) writeError(w http.ResponseWriter, status int, message string) {
	a.writeJSON(w, status, map[string]string{"error": message})
}
