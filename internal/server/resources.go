package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) Me(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"user_id":   session.UserID.String(),
		"email":     session.Email,
		"role":      session.RoleID.String(),
		"client_id": session.ClientID,
	}})
}

func (s *Server) GetContractByID(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	contract, err := s.gate.LoadContractOr403(c.Request.Context(), id, session)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": contract})
}

func (s *Server) GetExpenseByID(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	expense, err := s.gate.LoadExpenseOr403(c.Request.Context(), id, session)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": expense})
}
