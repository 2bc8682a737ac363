package gateway

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Envelope はプロファイル系APIの応答を包む呼び出し元向けの形式 {results:[{data}]}。
type Envelope struct {
	Results []Result `json:"results"`
}

// Result はEnvelopeの要素。
type Result struct {
	Data any `json:"data"`
}

// Profile は正規化済みのプロフィール。
// 9つのキーは常に出力する。文字列は上流に無ければnull、数値は0、真偽値はfalse。
type Profile struct {
	Username       *string `json:"username"`
	FullName       *string `json:"full_name"`
	ProfilePicURL  *string `json:"profile_pic_url"`
	Biography      *string `json:"biography"`
	FollowerCount  int64   `json:"follower_count"`
	FollowingCount int64   `json:"following_count"`
	MediaCount     int64   `json:"media_count"`
	IsVerified     bool    `json:"is_verified"`
	IsPrivate      bool    `json:"is_private"`
}

// upstreamProfile はプロファイル系API profile エンドポイントの result。
type upstreamProfile struct {
	Username                 *string    `json:"username"`
	FullName                 *string    `json:"full_name"`
	ProfilePicURL            *string    `json:"profile_pic_url"`
	Biography                *string    `json:"biography"`
	EdgeFollowedBy           *edgeCount `json:"edge_followed_by"`
	EdgeFollow               *edgeCount `json:"edge_follow"`
	EdgeOwnerToTimelineMedia *edgeCount `json:"edge_owner_to_timeline_media"`
	IsVerified               bool       `json:"is_verified"`
	IsPrivate                bool       `json:"is_private"`
}

// edgeCount は {"count": n} 形式の件数。
type edgeCount struct {
	Count int64 `json:"count"`
}

// countOf はedgeが無い場合に0を返す。
func countOf(e *edgeCount) int64 {
	if e == nil {
		return 0
	}
	return e.Count
}

// envelope は単一のdataをEnvelopeに包む。
func envelope(data any) Envelope {
	return Envelope{Results: []Result{{Data: data}}}
}

// normalizeProfile はprofileエンドポイントの応答から正規化済みプロフィールを作る。
// result がオブジェクトでない場合は上流の形をそのまま返さずにエラーとする。
func normalizeProfile(body []byte) (Envelope, error) {
	if !json.Valid(body) {
		return Envelope{}, &Error{Kind: KindUnexpected, Message: msgInvalidJSON}
	}
	result := gjson.GetBytes(body, "result")
	if !result.IsObject() {
		return Envelope{}, &Error{Kind: KindUnexpected, Message: msgMissingProfile}
	}

	var p upstreamProfile
	if err := json.Unmarshal([]byte(result.Raw), &p); err != nil {
		return Envelope{}, &Error{
			Kind:    KindUnexpected,
			Message: msgInvalidJSON,
			Err:     fmt.Errorf("プロフィールのデシリアライズに失敗: %w", err),
		}
	}

	return envelope(Profile{
		Username:       p.Username,
		FullName:       p.FullName,
		ProfilePicURL:  p.ProfilePicURL,
		Biography:      p.Biography,
		FollowerCount:  countOf(p.EdgeFollowedBy),
		FollowingCount: countOf(p.EdgeFollow),
		MediaCount:     countOf(p.EdgeOwnerToTimelineMedia),
		IsVerified:     p.IsVerified,
		IsPrivate:      p.IsPrivate,
	}), nil
}

// emptySuggestions は候補が取れない場合のdata。
var emptySuggestions = json.RawMessage(`[]`)

// normalizeSuggestions はuserInfoエンドポイントの応答から result[0].chaining_results を取り出す。
// 候補の各要素は加工せずにそのまま返す。result が空・配列でない・候補が無い場合は空配列。
func normalizeSuggestions(body []byte) (Envelope, error) {
	if !json.Valid(body) {
		return Envelope{}, &Error{Kind: KindUnexpected, Message: msgInvalidJSON}
	}

	suggestions := emptySuggestions
	if result := gjson.GetBytes(body, "result"); result.IsArray() {
		if chaining := result.Get("0.chaining_results"); chaining.IsArray() {
			suggestions = json.RawMessage(chaining.Raw)
		}
	}
	return envelope(suggestions), nil
}

// passthroughField はフィールド系APIの応答を検証し、そのまま返す。
func passthroughField(body []byte) ([]byte, error) {
	if !json.Valid(body) {
		return nil, &Error{Kind: KindUnexpected, Message: msgInvalidJSON}
	}
	return body, nil
}
