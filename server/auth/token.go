// Package auth issues and validates the access tokens guarding the API,
// and carries the authenticated user through request contexts.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/jerryjiang063/noteshub/store"
)

const (
	// Issuer is the issuer of the access token.
	Issuer = "noteshub"
	// KeyID is the version of the signing key.
	KeyID = "v1"
	// AccessTokenAudienceName is the audience name of the access token.
	AccessTokenAudienceName = "user.access-token"
	// AccessTokenDuration is the lifetime of an access token.
	AccessTokenDuration = 7 * 24 * time.Hour
)

// ClaimsMessage is the JWT claims carried by an access token.
type ClaimsMessage struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// GenerateAccessToken generates an access token for the user, expiring at
// expirationTime.
func GenerateAccessToken(username string, userID int32, expirationTime time.Time, secret []byte) (string, error) {
	registeredClaims := jwt.RegisteredClaims{
		Issuer:   Issuer,
		Audience: jwt.ClaimStrings{AccessTokenAudienceName},
		IssuedAt: jwt.NewNumericDate(time.Now()),
		Subject:  fmt.Sprint(userID),
	}
	if !expirationTime.IsZero() {
		registeredClaims.ExpiresAt = jwt.NewNumericDate(expirationTime)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &ClaimsMessage{
		Name:             username,
		RegisteredClaims: registeredClaims,
	})
	token.Header["kid"] = KeyID

	return token.SignedString(secret)
}

// Authenticate validates tokenString and loads the user it names. It
// returns an error for a malformed, expired, or mis-audienced token, and
// for a user that no longer exists or is archived.
func Authenticate(ctx context.Context, stores *store.Store, tokenString string, secret []byte) (*store.User, error) {
	if tokenString == "" {
		return nil, errors.New("access token not found")
	}

	claims := &ClaimsMessage{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		if kid, ok := t.Header["kid"].(string); !ok || kid != KeyID {
			return nil, errors.Errorf("unexpected key id: %v", t.Header["kid"])
		}
		return secret, nil
	}, jwt.WithAudience(AccessTokenAudienceName))
	if err != nil {
		return nil, errors.Wrap(err, "invalid access token")
	}

	var userID int32
	if _, err := fmt.Sscanf(claims.Subject, "%d", &userID); err != nil {
		return nil, errors.Errorf("malformed token subject %q", claims.Subject)
	}

	user, err := stores.GetUser(ctx, &store.FindUser{ID: &userID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user")
	}
	if user == nil {
		return nil, errors.Errorf("user %d not found", userID)
	}
	if user.RowStatus == store.Archived {
		return nil, errors.Errorf("user %q is archived", user.Username)
	}
	return user, nil
}

type userContextKey struct{}

// SetUserInContext stores the authenticated user in the context.
func SetUserInContext(ctx context.Context, user *store.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext returns the authenticated user, or nil for anonymous
// requests.
func UserFromContext(ctx context.Context) *store.User {
	user, _ := ctx.Value(userContextKey{}).(*store.User)
	return user
}
