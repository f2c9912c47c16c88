package util

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims 学员身份。令牌由课程后端签发，这里只校验并透传
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

const (
	ctxUserKey  = "user"
	ctxTokenKey = "bearer_token"
)

func ParseJWT(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		if claims.UserID == "" {
			claims.UserID = claims.Subject
		}
		return claims, nil
	}

	return nil, jwt.ErrTokenInvalidClaims
}

// BearerToken 从 Authorization 头中取出令牌
func BearerToken(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func SetAuth(c *gin.Context, claims *Claims, token string) {
	c.Set(ctxUserKey, claims)
	c.Set(ctxTokenKey, token)
}

func GetUserFromContext(c *gin.Context) *Claims {
	user, exists := c.Get(ctxUserKey)
	if !exists {
		return nil
	}
	claims, ok := user.(*Claims)
	if !ok {
		return nil
	}
	return claims
}

// GetTokenFromContext 返回需要透传给课程后端的原始令牌
func GetTokenFromContext(c *gin.Context) string {
	return c.GetString(ctxTokenKey)
}
