// Package gateway はプロファイルゲートウェイの内部実装を提供する。
//
// 呼び出し元から campo と username を受け取り、campo に応じて
// 2つの上流API（ヘッダー認証のプロファイル系API、クエリ認証のフィールド系API）を
// 呼び分ける。プロファイル系APIの応答は {results:[{data}]} 形式に正規化し、
// フィールド系APIの応答は加工せずに返す。失敗時は常に {error} 形式で返す。
//
// 上流APIの認証情報は起動時に読み込んだConfigでのみ保持し、
// 呼び出し元には渡さない。
package gateway
