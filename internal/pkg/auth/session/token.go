/*
Package session binds requests and realtime connections to authenticated
usernames. The session token is an HS256-signed JWT carried in a cookie; the
middleware resolves it once per request into a typed Principal.
*/
package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt"
)

const (
	// CookieName is the session cookie carrying the signed token.
	CookieName = "session"

	// SessionDuration is the lifetime of an issued session token.
	SessionDuration = 7 * 24 * time.Hour

	// TokenIssuer identifies the issuer of the token.
	TokenIssuer = "Grunt-Server"
)

// Claims defines the JWT claim set for a Grunt session.
type Claims struct {
	jwt.StandardClaims

	// Username is the account the session is bound to.
	Username string `json:"username"`
}

// GenerateToken creates and signs a session token for username.
func GenerateToken(username, secretKey string) (string, error) {
	now := time.Now()

	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(SessionDuration).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    TokenIssuer,
		},
		Username: username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secretKey))
}

// ParseToken validates the token string and returns the bound username.
func ParseToken(tokenString, secretKey string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		return "", err
	}

	if !token.Valid {
		return "", errors.New("invalid or expired token")
	}

	return claims.Username, nil
}

// SetCookie attaches a session cookie carrying the token to the response.
func SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionDuration / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest resolves the request's session cookie to a username. It does
// not check that the account still exists; that is the resolver's job.
func FromRequest(r *http.Request, secretKey string) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	username, err := ParseToken(cookie.Value, secretKey)
	if err != nil {
		return "", false
	}
	return username, true
}
