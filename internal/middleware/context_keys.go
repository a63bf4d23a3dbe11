package middleware

import "github.com/gin-gonic/gin"

// staffIDKey is the key used to store the authenticated staff member's ID.
// Using a custom type prevents collisions.
const staffIDKey = contextKey("staffID")

// GetStaffIDFromContext retrieves the authenticated staff ID from the Gin
// context. It returns the staff ID and a boolean indicating if it was found.
func GetStaffIDFromContext(c *gin.Context) (string, bool) {
	staffIDVal, exists := c.Get(string(staffIDKey))
	if !exists {
		// check in the request context as well
		ctxVal := c.Request.Context().Value(staffIDKey)
		if ctxVal != nil {
			return ctxVal.(string), true
		}
		return "", false
	}

	staffID, ok := staffIDVal.(string)
	if !ok {
		return "", false
	}

	return staffID, true
}
