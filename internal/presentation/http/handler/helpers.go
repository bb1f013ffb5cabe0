package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetUserID extracts the authenticated user's ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	val, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := val.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetUserEmail extracts the user email from the Gin context
func GetUserEmail(c *gin.Context) string {
	val, exists := c.Get("user_email")
	if !exists {
		return ""
	}
	email, _ := val.(string)
	return email
}

// GetUserRoles extracts the user roles from the Gin context
func GetUserRoles(c *gin.Context) []string {
	val, exists := c.Get("user_roles")
	if !exists {
		return nil
	}
	roles, _ := val.([]string)
	return roles
}

// GetUserPermissions extracts the user permissions from the Gin context
func GetUserPermissions(c *gin.Context) []string {
	val, exists := c.Get("user_permissions")
	if !exists {
		return nil
	}
	permissions, _ := val.([]string)
	return permissions
}

// IsSuperAdmin checks if the user has the super-admin role
func IsSuperAdmin(c *gin.Context) bool {
	for _, role := range GetUserRoles(c) {
		if role == "super-admin" {
			return true
		}
	}
	return false
}
