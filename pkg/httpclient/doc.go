// Package httpclient は外部APIとのHTTP通信を行うクライアントを提供する。
//
// プロファイル系APIへのJSON POST、フィールド系APIへのクエリ付きGETなど、
// 上流APIの呼び出しパターンを統一する。2xx以外の応答はStatusErrorとして返し、
// ボディは診断用にのみ保持する。
package httpclient
