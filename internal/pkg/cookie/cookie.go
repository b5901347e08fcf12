package cookie

import "github.com/gin-gonic/gin"

// AccessTokenCookieName is set by the identity service on the shared domain.
const AccessTokenCookieName = "access_token"

func GetAccessToken(c *gin.Context) string {
	token, _ := c.Cookie(AccessTokenCookieName)
	return token
}
