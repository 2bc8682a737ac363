package event

import (
	"encoding/json"
	"time"
)

// Type はゲートウェイイベントの種類を表す。
type Type string

const (
	// TypeRequestServed はリクエストが正常に応答されたことを表す。
	TypeRequestServed Type = "RequestServed"
	// TypeRequestRejected は入力不備によりリクエストが拒否されたことを表す。
	TypeRequestRejected Type = "RequestRejected"
	// TypeRequestFailed は設定不備・上流エラー・予期しない障害でリクエストが失敗したことを表す。
	TypeRequestFailed Type = "RequestFailed"
)

// Event はゲートウェイの1回の呼び出しを記録する不変のイベントレコード。
// ジャーナルに永続化され、運用者エンドポイントから参照される。
type Event struct {
	// ID はイベントの一意識別子（UUID）。
	ID string `json:"id"`
	// Username はリクエストされたユーザー名。拒否時は空の場合がある。
	Username string `json:"username"`
	// Mode はルーティング先のモード名（profile / suggestions / field）。
	Mode string `json:"mode"`
	// EventType はイベントの種類。
	EventType Type `json:"event_type"`
	// Data はイベント固有のデータ（JSON形式）。
	Data json.RawMessage `json:"data"`
	// CreatedAt はイベントが作成された日時。
	CreatedAt time.Time `json:"created_at"`
}

// RequestServedData はRequestServedイベントのデータ。
type RequestServedData struct {
	// Field はリクエストされたcampoの値。
	Field string `json:"field"`
	// UpstreamStatus は上流APIのHTTPステータスコード。
	UpstreamStatus int `json:"upstream_status"`
	// DurationMS は上流呼び出しを含む処理時間（ミリ秒）。
	DurationMS int64 `json:"duration_ms"`
}

// RequestRejectedData はRequestRejectedイベントのデータ。
type RequestRejectedData struct {
	// Reason は拒否の理由。
	Reason string `json:"reason"`
}

// RequestFailedData はRequestFailedイベントのデータ。
type RequestFailedData struct {
	// Field はリクエストされたcampoの値。
	Field string `json:"field,omitempty"`
	// Kind はエラー分類（configuration / upstream / unexpected）。
	Kind string `json:"kind"`
	// Message は呼び出し元に返したエラーメッセージ。
	Message string `json:"message"`
	// UpstreamStatus は上流APIのHTTPステータスコード。上流エラー以外では0。
	UpstreamStatus int `json:"upstream_status,omitempty"`
	// DurationMS は処理時間（ミリ秒）。
	DurationMS int64 `json:"duration_ms"`
}
