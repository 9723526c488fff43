// Package resp standardizes the JSON envelope every endpoint returns.
package resp

import "github.com/gin-gonic/gin"

// OK writes a success envelope with the given payload fields.
func OK(c *gin.Context, status int, data gin.H) {
	body := gin.H{"success": true}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(status, body)
}

// Error writes a failure envelope and stops further handlers.
func Error(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// ErrorDetails is Error with a field-level details object attached.
func ErrorDetails(c *gin.Context, status int, message string, details interface{}) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
		"details": details,
	})
}
