// internal/handlers/common.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tradenet/portal-backend/internal/utils"
)

// parseIDParam reads a UUID path parameter, replying 400 itself on failure.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

// currentUserID returns the authenticated user, replying 401 itself when
// the context carries none.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}
	return userID, true
}

// optionalUserID returns the user when authenticated, nil for guests.
func optionalUserID(c *gin.Context) *uuid.UUID {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		return nil
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil
	}
	return &userID
}

func currentUserRole(c *gin.Context) string {
	role, _ := utils.GetUserRoleFromContext(c)
	return role
}

// respondServiceError maps service errors onto the response envelope by
// message shape.
func respondServiceError(c *gin.Context, err error) {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		utils.ErrorResponse(c, 404, "NOT_FOUND", msg, nil)
	case strings.Contains(msg, "not authorized"):
		utils.ForbiddenResponse(c, msg)
	case strings.Contains(msg, "already"):
		utils.ConflictResponse(c, msg)
	case strings.Contains(msg, "validation failed"):
		utils.BadRequestResponse(c, msg, nil)
	default:
		utils.BadRequestResponse(c, msg, nil)
	}
}
