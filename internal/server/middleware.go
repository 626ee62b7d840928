package server

import (
	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/agencydesk/internal/auth/domain"
	obscontext "github.com/smallbiznis/agencydesk/internal/observability/context"
)

const contextSessionKey = "auth_session"

// SessionRequired resolves the caller through the gate and stores the session
// on the gin context and the request context actor.
func (s *Server) SessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := s.gate.RequireSession(c.Request)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		s.bindSession(c, session)
		c.Next()
	}
}

func (s *Server) RequireRole(allowed ...authdomain.RoleID) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := s.gate.RequireRole(c.Request, allowed...)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		s.bindSession(c, session)
		c.Next()
	}
}

func (s *Server) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := s.gate.RequireAdmin(c.Request)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		s.bindSession(c, session)
		c.Next()
	}
}

func (s *Server) bindSession(c *gin.Context, session authdomain.Session) {
	c.Set(contextSessionKey, session)
	ctx := obscontext.WithActor(c.Request.Context(), "user", session.UserID.String())
	c.Request = c.Request.WithContext(ctx)
}

func sessionFromContext(c *gin.Context) (authdomain.Session, bool) {
	value, ok := c.Get(contextSessionKey)
	if !ok {
		return authdomain.Session{}, false
	}
	session, ok := value.(authdomain.Session)
	return session, ok
}

// mustSession aborts with 401 when no session was bound upstream.
func mustSession(c *gin.Context) (authdomain.Session, bool) {
	session, ok := sessionFromContext(c)
	if !ok {
		AbortWithError(c, authdomain.Unauthenticated(nil))
		return authdomain.Session{}, false
	}
	return session, true
}
