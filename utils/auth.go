package utils

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// TokenCookie is the session cookie name.
const TokenCookie = "token"

// Claims are the JWT claims carried by the session cookie.
type Claims struct {
	UserID string `json:"id"`
	jwt.StandardClaims
}

// TokenService signs and verifies session tokens and manages the session
// cookie.
type TokenService struct {
	secret     []byte
	expireDays int
}

// NewTokenService creates a TokenService with the signing secret and cookie
// lifetime in days.
func NewTokenService(secret string, expireDays int) *TokenService {
	return &TokenService{secret: []byte(secret), expireDays: expireDays}
}

// Generate signs a token carrying the user id.
func (ts *TokenService) Generate(userID string) (string, error) {
	claims := &Claims{
		UserID: userID,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Duration(ts.expireDays) * 24 * time.Hour).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ts.secret)
}

// Parse verifies signature and expiry and returns the claims.
func (ts *TokenService) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return ts.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.NewValidationError("token is not valid", jwt.ValidationErrorClaimsInvalid)
	}
	return claims, nil
}

// SetCookie signs a token for userID, attaches it as an httpOnly cookie and
// returns it for inclusion in the response body.
func (ts *TokenService) SetCookie(w http.ResponseWriter, userID string) (string, error) {
	token, err := ts.Generate(userID)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(time.Duration(ts.expireDays) * 24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return token, nil
}

// ClearCookie expires the session cookie immediately.
func (ts *TokenService) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Now(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
