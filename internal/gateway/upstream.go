package gateway

import (
	"context"
	"errors"
	"log"
	"net/url"
	"time"

	"github.com/nao1215/profile-gateway/pkg/httpclient"
	"github.com/nao1215/profile-gateway/pkg/observability"
)

const (
	// providerProfile はプロファイル系APIのメトリクス・ログ用の名前。
	providerProfile = "profile-api"
	// providerField はフィールド系APIのメトリクス・ログ用の名前。
	providerField = "field-api"

	pathProfile  = "/api/instagram/profile"
	pathUserInfo = "/api/instagram/userInfo"
	pathField    = "/api/field"

	// errorBodyPreviewLen はログに出力する上流エラーボディの最大長。
	errorBodyPreviewLen = 512
)

// upstreams は2つの上流APIのクライアント。
type upstreams struct {
	// profile はヘッダー認証のプロファイル系APIクライアント。
	profile *httpclient.Client
	// field はクエリ認証のフィールド系APIクライアント。
	field *httpclient.Client
	// secret はフィールド系APIのクエリに埋め込む共有シークレット。
	secret string
}

// newUpstreams は設定から上流APIクライアントを生成する。
// プロファイル系APIのキーヘッダーには共有シークレットをそのまま使う。
func newUpstreams(cfg Config) upstreams {
	return upstreams{
		profile: httpclient.New(cfg.ProfileAPIBaseURL,
			httpclient.WithTimeout(cfg.UpstreamTimeout),
			httpclient.WithHeader("Content-Type", "application/json"),
			httpclient.WithHeader("x-rapidapi-host", cfg.ProfileAPIHost),
			httpclient.WithHeader("x-rapidapi-key", cfg.APISecretKey),
		),
		field: httpclient.New(cfg.FieldAPIBaseURL,
			httpclient.WithTimeout(cfg.UpstreamTimeout),
			httpclient.WithHeader("Accept", "application/json"),
		),
		secret: cfg.APISecretKey,
	}
}

// usernameBody はプロファイル系APIへのリクエストボディ。
type usernameBody struct {
	Username string `json:"username"`
}

// fetchProfile はプロフィール詳細を取得する。
func (u upstreams) fetchProfile(ctx context.Context, username string) (*httpclient.Response, error) {
	return observe(providerProfile, func() (*httpclient.Response, error) {
		return u.profile.PostJSON(ctx, pathProfile, usernameBody{Username: username})
	})
}

// fetchUserInfo はおすすめプロフィールを含むユーザー情報を取得する。
func (u upstreams) fetchUserInfo(ctx context.Context, username string) (*httpclient.Response, error) {
	return observe(providerProfile, func() (*httpclient.Response, error) {
		return u.profile.PostJSON(ctx, pathUserInfo, usernameBody{Username: username})
	})
}

// fetchField はフィールド系APIから任意のcampoのデータを取得する。
func (u upstreams) fetchField(ctx context.Context, field, username string) (*httpclient.Response, error) {
	query := url.Values{}
	query.Set("campo", field)
	query.Set("username", username)
	query.Set("secret", u.secret)
	return observe(providerField, func() (*httpclient.Response, error) {
		return u.field.Get(ctx, pathField, query)
	})
}

// observe は上流呼び出しを計測し、2xx以外の応答ボディを診断用にログ出力する。
func observe(provider string, call func() (*httpclient.Response, error)) (*httpclient.Response, error) {
	start := time.Now()
	resp, err := call()
	elapsed := time.Since(start).Seconds()

	if err == nil {
		observability.ObserveUpstream(provider, resp.StatusCode, elapsed)
		return resp, nil
	}

	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) {
		observability.ObserveUpstream(provider, statusErr.StatusCode, elapsed)
		log.Printf("[Gateway] 外部APIエラー: provider=%s, status=%s, body=%s",
			provider, statusLine(statusErr), compactBodyPreview(statusErr.Body, errorBodyPreviewLen))
		return nil, err
	}

	observability.ObserveUpstream(provider, 0, elapsed)
	log.Printf("[Gateway] 外部API通信エラー: provider=%s, error=%v", provider, err)
	return nil, err
}
