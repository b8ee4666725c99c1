package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	successFlashCookie = "successMessage"
	errorFlashCookie   = "errorMessage"
	flashMaxAge        = 60
)

// redirectWithFlash sends the browser back to the list with a one-shot
// message that the next list render consumes.
func redirectWithFlash(c *gin.Context, cookie, message string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookie, message, flashMaxAge, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, usersPath)
}

// popFlash returns pending messages and expires their cookies.
func popFlash(c *gin.Context) (success, failure string) {
	success = takeCookie(c, successFlashCookie)
	failure = takeCookie(c, errorFlashCookie)
	return success, failure
}

func takeCookie(c *gin.Context, name string) string {
	value, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	c.SetCookie(name, "", -1, "/", "", false, true)
	return value
}
