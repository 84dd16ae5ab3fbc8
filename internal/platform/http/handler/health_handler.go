// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger はヘルスチェック対象の依存先です。
type Pinger interface {
	Ping(ctx context.Context) error
}

// pingTimeout はDB疎通確認の上限時間です。
const pingTimeout = 2 * time.Second

// Health はサービスヘルスチェック用の /healthz エンドポイントを処理します。
// HTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
// db が nil の場合はプロセスの生存のみを返します。
func Health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 明示的にキャッシュを防止
		c.Header("Cache-Control", "no-store")

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		status, body := http.StatusOK, gin.H{"status": "ok", "database": "skipped"}
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				status, body = http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"}
			} else {
				body["database"] = "up"
			}
		}

		if c.Request.Method == http.MethodHead {
			c.Status(status)
			return
		}
		c.JSON(status, body)
	}
}
