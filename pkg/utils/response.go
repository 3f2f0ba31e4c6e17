package utils

import "github.com/gin-gonic/gin"

// Error writes the failure envelope every endpoint shares: {"errors": "..."}.
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"errors": message})
}

// Success writes the success envelope for operations that return no resource.
func Success(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": message})
}
