package handler

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Apurer/go-dog-finder/internal/domains/catalog/domain"
	"github.com/Apurer/go-dog-finder/internal/domains/catalog/ports"
	apierrors "github.com/Apurer/go-dog-finder/internal/shared/errors"
)

const (
	// SessionCookie carries the session token.
	SessionCookie = "fetch-access-token"
	// RequestIDHeader correlates client and server logs.
	RequestIDHeader = "X-Request-ID"

	sessionKey   = "catalog.session"
	requestIDKey = "catalog.request_id"
)

// RequireSession rejects requests without a live session cookie.
func RequireSession(svc ports.Service, responder *apierrors.Responder) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || strings.TrimSpace(token) == "" {
			responder.Unauthorized(c, "missing session cookie")
			return
		}
		session, err := svc.Authenticate(c.Request.Context(), token)
		if err != nil {
			responder.RespondError(c, err)
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

// SessionFrom returns the session RequireSession stored on the context.
func SessionFrom(c *gin.Context) (domain.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return domain.Session{}, false
	}
	s, ok := v.(domain.Session)
	return s, ok
}

// RequestID echoes the caller's X-Request-ID or mints one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// AccessLog writes one structured line per request.
func AccessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if logger == nil {
			return
		}
		logger.LogAttrs(c.Request.Context(), slog.LevelInfo, "request served",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
			slog.String("request_id", c.GetString(requestIDKey)),
		)
	}
}

// setSessionCookie issues the token. A session without an expiry gets a browser-session cookie.
func setSessionCookie(c *gin.Context, session domain.Session, now time.Time, secure bool) {
	maxAge := 0
	if !session.ExpiresAt.IsZero() {
		maxAge = max(int(session.ExpiresAt.Sub(now).Seconds()), 1)
	}
	c.SetSameSite(sameSiteMode(secure))
	c.SetCookie(SessionCookie, session.Token, maxAge, "/", "", secure, true)
}

func clearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(sameSiteMode(secure))
	c.SetCookie(SessionCookie, "", -1, "/", "", secure, true)
}
