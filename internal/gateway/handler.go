package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/profile-gateway/pkg/event"
	"github.com/nao1215/profile-gateway/pkg/observability"
)

// Request は呼び出し元からのリクエストボディ。
type Request struct {
	// Field は取得するデータの種類（campo）。ルーティングを決定する。
	Field string `json:"campo"`
	// Username は対象のユーザー名。
	Username string `json:"username"`
}

// reply はモードごとのハンドラが返す応答。
type reply struct {
	// body は呼び出し元に返すJSON。
	body []byte
	// upstreamStatus は上流APIのHTTPステータスコード。
	upstreamStatus int
}

// modeHandler はModeごとの処理。上流を1回だけ呼び出し、応答を整形する。
type modeHandler func(ctx context.Context, req Request) (reply, error)

// modeHandlers はModeとハンドラの対応表を返す。
// モードを追加する場合はModeの定数とここへの登録のみで完結させる。
func (s *Server) modeHandlers() map[Mode]modeHandler {
	return map[Mode]modeHandler{
		ModeProfile:     s.serveProfile,
		ModeSuggestions: s.serveSuggestions,
		ModeField:       s.serveField,
	}
}

// serveProfile はプロフィール詳細を取得し、正規化して包む。
func (s *Server) serveProfile(ctx context.Context, req Request) (reply, error) {
	resp, err := s.upstreams.fetchProfile(ctx, req.Username)
	if err != nil {
		return reply{}, err
	}
	env, err := normalizeProfile(resp.Body)
	if err != nil {
		return reply{}, err
	}
	return marshalReply(env, resp.StatusCode)
}

// serveSuggestions はおすすめプロフィールを取得し、候補配列を包む。
func (s *Server) serveSuggestions(ctx context.Context, req Request) (reply, error) {
	resp, err := s.upstreams.fetchUserInfo(ctx, req.Username)
	if err != nil {
		return reply{}, err
	}
	env, err := normalizeSuggestions(resp.Body)
	if err != nil {
		return reply{}, err
	}
	return marshalReply(env, resp.StatusCode)
}

// serveField はフィールド系APIの応答をそのまま返す。Envelopeには包まない。
func (s *Server) serveField(ctx context.Context, req Request) (reply, error) {
	resp, err := s.upstreams.fetchField(ctx, req.Field, req.Username)
	if err != nil {
		return reply{}, err
	}
	body, err := passthroughField(resp.Body)
	if err != nil {
		return reply{}, err
	}
	return reply{body: body, upstreamStatus: resp.StatusCode}, nil
}

// marshalReply はEnvelopeをJSONにしてreplyを作る。
func marshalReply(env Envelope, upstreamStatus int) (reply, error) {
	body, err := json.Marshal(env)
	if err != nil {
		return reply{}, fmt.Errorf("応答のシリアライズに失敗: %w", err)
	}
	return reply{body: body, upstreamStatus: upstreamStatus}, nil
}

// handleProxy はcampoに応じて上流APIを呼び分け、応答を返すハンドラを返す。
func (s *Server) handleProxy() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// シークレットの確認は入力検証より先に行う
		if s.cfg.APISecretKey == "" {
			s.fail(c, Request{}, 0, &Error{Kind: KindConfiguration, Message: msgMissingSecret}, start)
			return
		}

		var req Request
		if err := c.ShouldBindJSON(&req); err != nil {
			s.fail(c, Request{}, 0, &Error{
				Kind:    KindUnexpected,
				Message: err.Error(),
				Err:     fmt.Errorf("リクエストボディのパースに失敗: %w", err),
			}, start)
			return
		}
		if req.Field == "" || req.Username == "" {
			s.fail(c, req, 0, &Error{Kind: KindClientInput, Message: msgMissingInput}, start)
			return
		}

		mode := ModeOf(req.Field)
		r, err := s.handlers[mode](c.Request.Context(), req)
		if err != nil {
			s.fail(c, req, mode, err, start)
			return
		}

		c.Data(http.StatusOK, "application/json; charset=utf-8", r.body)
		observability.ObserveResponse(mode.String(), http.StatusOK)
		s.record(c.Request.Context(), req.Username, mode, event.TypeRequestServed, event.RequestServedData{
			Field:          req.Field,
			UpstreamStatus: r.upstreamStatus,
			DurationMS:     time.Since(start).Milliseconds(),
		})
	}
}

// fail はエラーを {"error": ...} で返し、ログ・メトリクス・ジャーナルに記録する。
// modeが0の場合はルーティング前の失敗を表す。
func (s *Server) fail(c *gin.Context, req Request, mode Mode, err error, start time.Time) {
	gwErr := classify(err)
	status := gwErr.HTTPStatus()

	c.JSON(status, gin.H{"error": gwErr.Message})
	observability.ObserveResponse(mode.String(), status)

	if gwErr.Kind == KindClientInput {
		s.record(c.Request.Context(), req.Username, mode, event.TypeRequestRejected, event.RequestRejectedData{
			Reason: gwErr.Message,
		})
		return
	}

	log.Printf("[Gateway] プロキシ処理エラー: mode=%s, kind=%s, error=%v", mode, gwErr.Kind, errOrMessage(gwErr))
	s.record(c.Request.Context(), req.Username, mode, event.TypeRequestFailed, event.RequestFailedData{
		Field:          req.Field,
		Kind:           string(gwErr.Kind),
		Message:        gwErr.Message,
		UpstreamStatus: gwErr.UpstreamStatus,
		DurationMS:     time.Since(start).Milliseconds(),
	})
}

// errOrMessage はログ用に原因エラーがあればそれを、無ければメッセージを返す。
func errOrMessage(e *Error) any {
	if e.Err != nil {
		return e.Err
	}
	return e.Message
}

// record はジャーナルにイベントを記録する。失敗しても応答には影響させない。
func (s *Server) record(ctx context.Context, username string, mode Mode, eventType event.Type, data any) {
	if s.journal == nil {
		return
	}
	modeName := ""
	if mode != 0 {
		modeName = mode.String()
	}
	ev, err := event.New(username, modeName, eventType, data)
	if err != nil {
		log.Printf("[Journal] イベント生成エラー: %v", err)
		return
	}
	// 呼び出し元の切断でジャーナル書き込みが中断されないようにする
	if err := s.journal.Record(context.WithoutCancel(ctx), ev); err != nil {
		log.Printf("[Journal] イベント記録エラー: id=%s, error=%v", ev.ID, err)
	}
}
