package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rastreo/backend/internal/domain/shared"
)

// parseSessionID reads the :id path parameter as a session UUID
func parseSessionID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, shared.ErrInvalidInput.Wrap("invalid session ID", err)
	}
	return id, nil
}
