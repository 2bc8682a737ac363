package gateway

// Mode はリクエストのルーティング先を表す。
type Mode int

const (
	// ModeProfile はプロファイル系APIの profile エンドポイントでプロフィール詳細を取得する。
	ModeProfile Mode = iota + 1
	// ModeSuggestions はプロファイル系APIの userInfo エンドポイントでおすすめプロフィールを取得する。
	ModeSuggestions
	// ModeField はフィールド系APIで投稿データなどを取得する。応答は加工せずに返す。
	ModeField
)

const (
	// FieldProfile はModeProfileに対応するcampoの値。
	FieldProfile = "perfil_completo"
	// FieldSuggestions はModeSuggestionsに対応するcampoの値。
	FieldSuggestions = "perfis_sugeridos"
)

// ModeOf はcampoの値からルーティング先を決定する。
// 既知の値以外はすべてModeFieldになる。
func ModeOf(field string) Mode {
	switch field {
	case FieldProfile:
		return ModeProfile
	case FieldSuggestions:
		return ModeSuggestions
	default:
		return ModeField
	}
}

// String はログ・メトリクス・ジャーナル用のモード名を返す。
func (m Mode) String() string {
	switch m {
	case ModeProfile:
		return "profile"
	case ModeSuggestions:
		return "suggestions"
	case ModeField:
		return "field"
	default:
		return "unknown"
	}
}
