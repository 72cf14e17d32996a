package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"toystore/internal/domain"
)

const (
	sessionCookie = "toystore_session"
	sessionHeader = "X-Session-ID"
	sessionCtxKey = "session"
)

type currentUserLookup interface {
	Current(ctx context.Context, sessionID string) (*domain.SessionUser, error)
}

// sessionMiddleware resolves the client session from the header or cookie,
// issuing a new one when neither carries a valid id, and attaches the
// logged-in user if there is one.
func sessionMiddleware(issuer SessionIssuer, users currentUserLookup, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(sessionHeader)
		if raw == "" {
			raw, _ = c.Cookie(sessionCookie)
		}
		id, issued := issuer.Resolve(raw)
		if issued {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, id, 0, "/", "", false, true)
		}
		c.Header(sessionHeader, id)

		sess := domain.Session{ID: id}
		if !issued {
			u, err := users.Current(c.Request.Context(), id)
			switch {
			case err == nil:
				sess.UserID = u.ID
			case errors.Is(err, domain.ErrNotLoggedIn):
			default:
				logger.Printf("api: session lookup session=%s error=%v", id, err)
			}
		}
		c.Set(sessionCtxKey, sess)
		c.Next()
	}
}

func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sessionFrom(c).LoggedIn() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		c.Next()
	}
}

func sessionFrom(c *gin.Context) domain.Session {
	if v, ok := c.Get(sessionCtxKey); ok {
		if sess, ok := v.(domain.Session); ok {
			return sess
		}
	}
	return domain.Session{}
}
