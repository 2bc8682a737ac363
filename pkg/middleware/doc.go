// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// CORS設定、パニックリカバリ、運用者向けエンドポイントのJWT認証など、
// gatewayサービスで共通して使用するミドルウェアを含む。
// エラー応答はすべて {"error": "..."} 形式で返す。
package middleware
