package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/nao1215/profile-gateway/pkg/httpclient"
)

// ErrorKind はゲートウェイのエラー分類。
type ErrorKind string

const (
	// KindClientInput はcampoまたはusernameの欠落。400を返す。
	KindClientInput ErrorKind = "client_input"
	// KindConfiguration はシークレット未設定などのデプロイ不備。500を返す。
	KindConfiguration ErrorKind = "configuration"
	// KindUpstream は上流APIが2xx以外を返したことを表す。500を返す。
	KindUpstream ErrorKind = "upstream"
	// KindUnexpected は通信失敗や不正なJSONなど上記以外の障害。500を返す。
	KindUnexpected ErrorKind = "unexpected"
)

// 呼び出し元に返す固定メッセージ。フロントエンドが表示に使うため文言を変えないこと。
const (
	msgMissingInput   = `Faltando "campo" ou "username" no corpo da requisição.`
	msgMissingSecret  = "API_SECRET_KEY não está configurada."
	msgMissingProfile = "Perfil ausente na resposta da API externa."
	msgInvalidJSON    = "Resposta inválida da API externa."
)

// Error はゲートウェイが呼び出し元に返すエラー。
type Error struct {
	// Kind はエラー分類。
	Kind ErrorKind
	// Message は {"error": ...} として返すメッセージ。
	Message string
	// UpstreamStatus は上流APIのHTTPステータスコード。KindUpstream以外では0。
	UpstreamStatus int
	// Err は原因となったエラー。
	Err error
}

// Error はerrorインターフェースを実装する。
func (e *Error) Error() string {
	return e.Message
}

// Unwrap は原因となったエラーを返す。
func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus は呼び出し元に返すHTTPステータスコードを返す。
func (e *Error) HTTPStatus() int {
	if e.Kind == KindClientInput {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// classify は任意のエラーをゲートウェイのErrorに変換する。
// 上流のレスポンスボディはメッセージに含めない。
func classify(err error) *Error {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr
	}

	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) {
		return &Error{
			Kind:           KindUpstream,
			Message:        "Erro na API externa: " + statusLine(statusErr),
			UpstreamStatus: statusErr.StatusCode,
			Err:            err,
		}
	}

	return &Error{Kind: KindUnexpected, Message: err.Error(), Err: err}
}

// statusLine は "404 Not Found" 形式のステータス表記を返す。
func statusLine(e *httpclient.StatusError) string {
	if e.Status != "" {
		return e.Status
	}
	if text := http.StatusText(e.StatusCode); text != "" {
		return fmt.Sprintf("%d %s", e.StatusCode, text)
	}
	return fmt.Sprintf("%d", e.StatusCode)
}

// compactBodyPreview はログ出力用にボディの空白を詰め、maxLenで切り詰める。
func compactBodyPreview(rawBody []byte, maxLen int) string {
	clean := strings.Join(strings.Fields(string(rawBody)), " ")
	if len(clean) <= maxLen {
		return clean
	}
	return clean[:maxLen] + "..."
}
