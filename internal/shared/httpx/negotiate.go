// Package httpx holds small gin helpers shared by the HTTP adapters.
package httpx

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// WantsJSON reports whether the client explicitly accepts JSON. Browser form
// posts do not and get redirects instead.
func WantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), gin.MIMEJSON)
}
