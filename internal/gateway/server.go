package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/profile-gateway/pkg/event"
	"github.com/nao1215/profile-gateway/pkg/middleware"
	"github.com/nao1215/profile-gateway/pkg/observability"
)

// ProxyPath はプロキシエンドポイントのパス。
const ProxyPath = "/proxy-api"

// allowedHeaders はブラウザクライアントに許可するリクエストヘッダー。
var allowedHeaders = []string{"authorization", "x-client-info", "apikey", "content-type"}

// Journal はゲートウェイイベントの記録先。*journal.Store が実装する。
type Journal interface {
	Record(ctx context.Context, ev *event.Event) error
	List(ctx context.Context, limit int) ([]event.Event, error)
}

// Server はプロファイルゲートウェイのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// cfg は起動時に読み込んだ設定。
	cfg Config
	// upstreams は上流APIのクライアント。
	upstreams upstreams
	// handlers はModeごとの処理。
	handlers map[Mode]modeHandler
	// journal はイベントの記録先。nilの場合は記録しない。
	journal Journal
}

// NewServer は新しいゲートウェイサーバーを生成する。
// journalにnilを渡すとジャーナルと運用者エンドポイントは無効になる。
func NewServer(cfg Config, journal Journal) *Server {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORS([]string{middleware.AnyOrigin}, allowedHeaders))

	s := &Server{
		router:    router,
		cfg:       cfg,
		upstreams: newUpstreams(cfg),
		journal:   journal,
	}
	s.handlers = s.modeHandlers()
	s.setupRoutes()

	return s
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.cfg.Port))
}

// ServeHTTP はhttp.Handlerを実装する。
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	// プロキシ本体（OPTIONSはCORSミドルウェアが処理する）
	s.router.POST(ProxyPath, s.handleProxy())

	// 運用者向けのジャーナル参照
	if s.journal != nil && s.cfg.OperatorJWTSecret != "" {
		api := s.router.Group("/api/v1")
		api.Use(middleware.OperatorAuth(s.cfg.OperatorJWTSecret))
		{
			api.GET("/requests", s.handleListRequests())
		}
	} else {
		log.Printf("[Gateway] 運用者エンドポイントは無効です（JOURNAL_DB_PATH と OPERATOR_JWT_SECRET の両方が必要）")
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "profile-gateway"})
	})
	s.router.GET("/metrics", observability.Handler())

	s.router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Método não permitido."})
	})
	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rota não encontrada."})
	})
}

// handleListRequests はジャーナルのイベントを新しい順に返すハンドラ。
func (s *Server) handleListRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 0
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limitは0以上の整数で指定してください"})
				return
			}
			limit = n
		}

		events, err := s.journal.List(c.Request.Context(), limit)
		if err != nil {
			log.Printf("[Journal] イベント取得エラー: operator=%s, error=%v", middleware.GetOperator(c), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "イベントの取得に失敗しました"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"events": events})
	}
}
