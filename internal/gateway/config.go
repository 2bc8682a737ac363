package gateway

import (
	"fmt"
	"os"
	"time"
)

const (
	// defaultProfileAPIHost はプロファイル系APIのホスト識別子。
	defaultProfileAPIHost = "instagram120.p.rapidapi.com"
	// defaultProfileAPIBaseURL はプロファイル系APIのベースURL。
	defaultProfileAPIBaseURL = "https://" + defaultProfileAPIHost
	// defaultFieldAPIBaseURL はフィールド系API（投稿データ）のベースURL。
	defaultFieldAPIBaseURL = "https://spypanel.shop"
)

// Config はゲートウェイの設定。起動時に一度だけ読み込み、以後は変更しない。
type Config struct {
	// Port はサーバーのリッスンポート。
	Port string
	// APISecretKey は上流APIの共有シークレット。空の場合、全リクエストが設定エラーになる。
	APISecretKey string
	// ProfileAPIBaseURL はプロファイル系APIのベースURL。
	ProfileAPIBaseURL string
	// ProfileAPIHost はプロファイル系APIへ送るホスト識別子ヘッダーの値。
	ProfileAPIHost string
	// FieldAPIBaseURL はフィールド系APIのベースURL。
	FieldAPIBaseURL string
	// UpstreamTimeout は上流API呼び出しのタイムアウト。0の場合はタイムアウトなし。
	UpstreamTimeout time.Duration
	// JournalDBPath はジャーナル用SQLiteのパス。空の場合ジャーナルは無効。
	JournalDBPath string
	// OperatorJWTSecret は運用者エンドポイントのJWT署名鍵。空の場合エンドポイントは無効。
	OperatorJWTSecret string
}

// LoadConfig は環境変数から設定を読み込む。
func LoadConfig() (Config, error) {
	timeout := time.Duration(0)
	if v := os.Getenv("UPSTREAM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("UPSTREAM_TIMEOUTの形式が不正: %w", err)
		}
		if d < 0 {
			return Config{}, fmt.Errorf("UPSTREAM_TIMEOUTは0以上で指定すること: %s", v)
		}
		timeout = d
	}

	return Config{
		Port:              getEnvOr("PORT", "8080"),
		APISecretKey:      os.Getenv("API_SECRET_KEY"),
		ProfileAPIBaseURL: getEnvOr("PROFILE_API_BASE_URL", defaultProfileAPIBaseURL),
		ProfileAPIHost:    getEnvOr("PROFILE_API_HOST", defaultProfileAPIHost),
		FieldAPIBaseURL:   getEnvOr("FIELD_API_BASE_URL", defaultFieldAPIBaseURL),
		UpstreamTimeout:   timeout,
		JournalDBPath:     os.Getenv("JOURNAL_DB_PATH"),
		OperatorJWTSecret: os.Getenv("OPERATOR_JWT_SECRET"),
	}, nil
}

// getEnvOr は環境変数を取得し、設定されていない場合はデフォルト値を返す。
func getEnvOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
