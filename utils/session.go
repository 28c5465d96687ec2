package utils

import (
	"fmt"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// SaveSessionValue stores a value in the cookie session
func SaveSessionValue(c *gin.Context, key string, value interface{}) error {
	session := sessions.Default(c)
	session.Set(key, value)
	if err := session.Save(); err != nil {
		return fmt.Errorf("failed to save session: %v", err)
	}
	return nil
}

// SessionString reads a string value from the cookie session. A request without the
// session middleware yields "".
func SessionString(c *gin.Context, key string) string {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return ""
	}
	v, _ := sessions.Default(c).Get(key).(string)
	return v
}

// ClearSession drops every value and expires the cookie
func ClearSession(c *gin.Context) error {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil
	}
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	return session.Save()
}
