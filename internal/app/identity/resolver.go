package identity

import (
	"errors"

	"github.com/golang-jwt/jwt"

	"rtchat/internal/pkg/errs"
	"rtchat/internal/pkg/logx"
)

// tokenClaims is the claim set expected inside a credential token. The shape
// mirrors the usual OIDC id-token profile fields.
type tokenClaims struct {
	jwt.StandardClaims

	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// Resolver turns a credential token or anonymous hints into a resolved Identity.
//
// Strict mode (a verifier secret is configured): a connection without a valid
// token is refused. Permissive mode (no secret configured): missing or invalid
// tokens downgrade to an unverified identity built from the client's hints.
type Resolver struct {
	secret  string
	require bool
}

// NewResolver constructs a Resolver. The require flag selects strict mode and
// must be true whenever the credential verifier is configured.
func NewResolver(secret string, require bool) *Resolver {
	return &Resolver{secret: secret, require: require}
}

// Strict reports whether the resolver refuses unauthenticated connections.
func (r *Resolver) Strict() bool {
	return r.require
}

// Resolve verifies the supplied credential token, or falls back to the hints
// in permissive mode. It returns a non-nil *errs.CustomError only in strict
// mode: ErrMissingToken when no token was supplied, ErrInvalidToken when
// verification failed.
func (r *Resolver) Resolve(token string, hints Hints) (Identity, *errs.CustomError) {
	if token == "" {
		if r.require {
			return Identity{}, errs.NewError(errs.ErrMissingToken)
		}
		return r.anonymous(hints), nil
	}

	claims, err := r.verify(token)
	if err != nil {
		if r.require {
			logx.Warn("Credential token rejected.", "error", err.Error())
			return Identity{}, errs.NewError(errs.ErrInvalidToken)
		}
		logx.Warn("Invalid credential token in permissive mode, downgrading to anonymous.", "error", err.Error())
		return r.anonymous(hints), nil
	}

	return Identity{
		Subject:     claims.Subject,
		Email:       claims.Email,
		DisplayName: displayNameOrLocalPart(claims.Name, claims.Email),
		AvatarURL:   claims.Picture,
		Provider:    ProviderVerified,
	}, nil
}

// verify parses and validates the token against the configured secret.
func (r *Resolver) verify(tokenString string) (*tokenClaims, error) {
	claims := &tokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(r.secret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	if claims.Email == "" {
		return nil, errors.New("token carries no email claim")
	}

	return claims, nil
}

// anonymous builds an unverified identity from client hints, defaulting the
// email to the fixed anonymous placeholder.
func (r *Resolver) anonymous(hints Hints) Identity {
	email := hints.Email
	if email == "" {
		email = AnonymousEmail
	}

	return Identity{
		Email:       email,
		DisplayName: displayNameOrLocalPart(hints.DisplayName, hints.Email),
		AvatarURL:   hints.AvatarURL,
		Provider:    ProviderUnverified,
	}
}
