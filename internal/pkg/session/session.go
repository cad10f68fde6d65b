// Package session carries the authenticated identity of a request. It is
// set by the JWT middleware and read explicitly by handlers; there is no
// process-wide current user.
package session

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Session is the identity established for one request.
type Session struct {
	UserID uuid.UUID
	Email  string
}

const ginKey = "session"

type ctxKey struct{}

// ToGin stores s on the gin context and on the request context.
func ToGin(c *gin.Context, s Session) {
	c.Set(ginKey, s)
	c.Request = c.Request.WithContext(NewContext(c.Request.Context(), s))
}

// FromGin returns the session stored by ToGin.
func FromGin(c *gin.Context) (Session, bool) {
	v, ok := c.Get(ginKey)
	if !ok {
		return Session{}, false
	}
	s, ok := v.(Session)
	return s, ok && s.UserID != uuid.Nil
}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session carried by ctx.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok && s.UserID != uuid.Nil
}
