package auth

import (
	"net/http"
	"os"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const sessionUserKey = "user_id"

// Policy decides which identity is privileged. The rule is identity equality
// against a single admin id, not a role table.
type Policy struct {
	AdminID int
}

func (p Policy) IsAdmin(userID int) bool {
	return userID == p.AdminID
}

// PolicyFromEnv reads ADMIN_USER_ID, falling back to the first-registered user.
func PolicyFromEnv() Policy {
	if v := os.Getenv("ADMIN_USER_ID"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			return Policy{AdminID: id}
		}
	}
	return Policy{AdminID: 1}
}

// RequireLogin redirects anonymous requests to the login page.
func (a *AuthModule) RequireLogin(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		SetFlash(c, "Please log in first")
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}

	c.Set(sessionUserKey, userID)
	c.Next()
}

// RequireAdmin aborts with 403 before the wrapped handler runs unless the
// session identity satisfies the policy.
func (a *AuthModule) RequireAdmin(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok || !a.policy.IsAdmin(userID) {
		c.HTML(http.StatusForbidden, "error.html", gin.H{
			"status": http.StatusForbidden,
			"error":  "Forbidden",
		})
		c.Abort()
		return
	}

	c.Set(sessionUserKey, userID)
	c.Next()
}

// IsAdmin reports whether the session identity satisfies the policy.
func (a *AuthModule) IsAdmin(c *gin.Context) bool {
	userID, ok := CurrentUserID(c)
	return ok && a.policy.IsAdmin(userID)
}

// CurrentUserID returns the authenticated user's id from the session.
func CurrentUserID(c *gin.Context) (int, bool) {
	session := sessions.Default(c)
	v := session.Get(sessionUserKey)
	if v == nil {
		return 0, false
	}

	userID, ok := v.(int)
	return userID, ok
}

// SetFlash stores a one-shot notice to be shown on the next rendered page.
func SetFlash(c *gin.Context, message string) {
	session := sessions.Default(c)
	session.Set("flash", message)
	session.Save()
}

// TakeFlash returns the pending notice, clearing it.
func TakeFlash(c *gin.Context) string {
	session := sessions.Default(c)
	v := session.Get("flash")
	if v == nil {
		return ""
	}
	session.Delete("flash")
	session.Save()

	message, _ := v.(string)
	return message
}
