package session

import (
	"context"
	"net/http"
)

type contextKey struct{}

// FromContext returns the session established for the request. ok is false
// outside the Middleware.
func FromContext(ctx context.Context) (Payload, bool) {
	p, ok := ctx.Value(contextKey{}).(Payload)
	return p, ok
}

// Middleware guarantees a valid session on every request: an existing valid
// cookie is passed through, anything else is replaced by a fresh anonymous
// session and the cookie is re-set on the response.
func Middleware(codec *Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			payload, fresh := codec.sessionFor(r)
			if fresh {
				value, err := codec.Encode(payload)
				if err == nil {
					http.SetCookie(w, &http.Cookie{
						Name:     codec.cookieName,
						Value:    value,
						Path:     "/",
						HttpOnly: true,
						SameSite: http.SameSiteLaxMode,
					})
				}
			}
			ctx := context.WithValue(r.Context(), contextKey{}, payload)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionFor decodes the request cookie, falling back to a fresh anonymous
// session. fresh reports that the response cookie needs setting.
func (c *Codec) sessionFor(r *http.Request) (Payload, bool) {
	cookie, err := r.Cookie(c.cookieName)
	if err != nil {
		return c.NewAnonymous(), true
	}
	payload, ok := c.Decode(cookie.Value)
	if !ok {
		return c.NewAnonymous(), true
	}
	return payload, false
}
