// Package auth holds the bearer credential a probe run carries. The
// context is set once by the run controller and read by every
// dispatch; the probe is single-threaded, so no locking is involved.
package auth

import "strings"

// Context holds an optional bearer token. The zero value is an
// unauthenticated context; a nil *Context behaves the same way.
type Context struct {
	token string
}

// Set installs the token for all subsequent dispatches.
func (c *Context) Set(token string) {
	c.token = strings.TrimSpace(token)
}

// Clear removes the token.
func (c *Context) Clear() {
	c.token = ""
}

// Token returns the installed token, or "" when unauthenticated.
func (c *Context) Token() string {
	if c == nil {
		return ""
	}
	return c.token
}

// IsSet reports whether a token is installed.
func (c *Context) IsSet() bool {
	return c.Token() != ""
}
