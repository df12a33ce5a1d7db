package handlers

import "github.com/labstack/echo/v4"

// firebaseUIDFromContext returns the Firebase UID stored by the auth
// middleware, or "" when the request was not authenticated.
func firebaseUIDFromContext(c echo.Context) string {
	uid, _ := c.Get("firebaseUID").(string)
	return uid
}
