package auth

import (
	"errors"
	"net/http"

	"bookstore/internal/httpx"
)

// Authenticate verifies the bearer token and stores the caller in the request
// context. A missing token answers 401, an unusable one 403.
func Authenticate(v *Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := verifyRequest(v, r)
			if err != nil {
				writeAuthError(w, r, err)
				return
			}

			ctx := httpx.ContextWithUser(r.Context(), id.SubjectID, id.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole lets the request through only when Authenticate stored an
// identity whose role is in roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFrom(r)
			if !ok {
				writeAuthError(w, r, ErrMissingToken)
				return
			}
			if err := Authorize(id, roles...); err != nil {
				writeAuthError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFrom returns the caller stored by Authenticate.
func IdentityFrom(r *http.Request) (Identity, bool) {
	id := Identity{SubjectID: httpx.UserIDFrom(r), Role: httpx.RoleFrom(r)}
	return id, id.SubjectID != 0
}

func verifyRequest(v *Verifier, r *http.Request) (Identity, error) {
	token, err := BearerToken(r.Header.Get("Authorization"))
	if err != nil {
		return Identity{}, err
	}
	return v.Verify(token)
}

func writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrMissingToken):
		httpx.Unauthorized(w, r, ErrMissingToken.Error())
	case errors.Is(err, ErrInvalidToken):
		httpx.Forbidden(w, r, ErrInvalidToken.Error())
	case errors.Is(err, ErrForbidden):
		httpx.Forbidden(w, r, "insufficient role for this operation")
	default:
		httpx.InternalError(w, r)
	}
}
