package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AnyOrigin は全オリジンを許可する場合に指定する値。
const AnyOrigin = "*"

// CORS は指定されたオリジンからのクロスオリジンリクエストを許可するGinミドルウェアを返す。
// allowedOriginsにAnyOriginを含めると、Originヘッダーの有無に関わらず全レスポンスに
// "Access-Control-Allow-Origin: *" を付与する。
// OPTIONS（プリフライト）リクエストは後続のハンドラを呼ばずに204で終了する。
func CORS(allowedOrigins, allowedHeaders []string) gin.HandlerFunc {
	originsSet := make(map[string]struct{}, len(allowedOrigins))
	anyOrigin := false
	for _, o := range allowedOrigins {
		if o == AnyOrigin {
			anyOrigin = true
		}
		originsSet[o] = struct{}{}
	}
	headers := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		allowOrigin := ""
		if anyOrigin {
			allowOrigin = AnyOrigin
		} else if origin := c.GetHeader("Origin"); origin != "" {
			if _, ok := originsSet[origin]; ok {
				allowOrigin = origin
			}
		}

		if allowOrigin != "" {
			c.Header("Access-Control-Allow-Origin", allowOrigin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", headers)
			c.Header("Access-Control-Max-Age", "86400")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
