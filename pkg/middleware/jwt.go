package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// tokenIssuer は運用者トークンの発行者名。
const tokenIssuer = "profile-gateway"

// contextKeyOperator はGinコンテキストに運用者名を格納するためのキー。
const contextKeyOperator = "operator"

// OperatorClaims は運用者トークンのクレーム（ペイロード）を表す。
type OperatorClaims struct {
	jwt.RegisteredClaims
	// Operator は運用者の識別名。
	Operator string `json:"operator"`
}

// GenerateOperatorJWT は運用者名からJWTトークンを生成する。
// cmd/admintoken から呼び出される。
func GenerateOperatorJWT(secret, operator string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := OperatorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
		Operator: operator,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("JWTトークンの署名に失敗: %w", err)
	}
	return signed, nil
}

// OperatorAuth は運用者トークンを検証するGinミドルウェアを返す。
// 検証に成功した場合、コンテキストに運用者名を設定する。
// プロキシエンドポイント本体には適用しない。
func OperatorAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorizationヘッダーが必要です",
			})
			return
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Bearer トークン形式が不正です",
			})
			return
		}

		claims := &OperatorClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
			return []byte(secret), nil
		},
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(tokenIssuer),
		)
		if err != nil || !token.Valid || claims.Operator == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "トークンが無効です",
			})
			return
		}

		c.Set(contextKeyOperator, claims.Operator)
		c.Next()
	}
}

// GetOperator はGinコンテキストから運用者名を取得する。
// OperatorAuthミドルウェアが事前に適用されている必要がある。
func GetOperator(c *gin.Context) string {
	v, _ := c.Get(contextKeyOperator)
	if op, ok := v.(string); ok {
		return op
	}
	return ""
}
