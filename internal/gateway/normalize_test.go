package gateway

import (
	"encoding/json"
	"errors"
	"testing"
)

// TestNormalizeProfile はnormalizeProfile関数を検証する。
func TestNormalizeProfile(t *testing.T) {
	t.Parallel()

	t.Run("上流のフィールドが正規化済みプロフィールに写像されること", func(t *testing.T) {
		t.Parallel()

		body := []byte(`{"result":{"username":"u","full_name":"F","biography":"","edge_follow":{"count":3},"is_private":true}}`)
		env, err := normalizeProfile(body)
		if err != nil {
			t.Fatalf("normalizeProfile()でエラーが発生: %v", err)
		}
		if len(env.Results) != 1 {
			t.Fatalf("results件数 = %d, want 1", len(env.Results))
		}
		p, ok := env.Results[0].Data.(Profile)
		if !ok {
			t.Fatalf("dataの型 = %T, want Profile", env.Results[0].Data)
		}
		if p.Username == nil || *p.Username != "u" {
			t.Errorf("Username = %v, want %q", p.Username, "u")
		}
		if p.Biography == nil || *p.Biography != "" {
			t.Errorf("空文字列のbiographyはnullではなく空文字列のままであるべき: %v", p.Biography)
		}
		if p.ProfilePicURL != nil {
			t.Errorf("ProfilePicURL = %q, want nil", *p.ProfilePicURL)
		}
		if p.FollowingCount != 3 || p.FollowerCount != 0 || p.MediaCount != 0 {
			t.Errorf("件数 = %d/%d/%d", p.FollowerCount, p.FollowingCount, p.MediaCount)
		}
		if !p.IsPrivate || p.IsVerified {
			t.Errorf("IsPrivate = %v, IsVerified = %v", p.IsPrivate, p.IsVerified)
		}
	})

	t.Run("シリアライズ結果に9つのキーが全て含まれること", func(t *testing.T) {
		t.Parallel()

		env, err := normalizeProfile([]byte(`{"result":{}}`))
		if err != nil {
			t.Fatalf("normalizeProfile()でエラーが発生: %v", err)
		}
		raw, err := json.Marshal(env)
		if err != nil {
			t.Fatalf("json.Marshal()でエラーが発生: %v", err)
		}
		want := `{"results":[{"data":{"username":null,"full_name":null,"profile_pic_url":null,"biography":null,"follower_count":0,"following_count":0,"media_count":0,"is_verified":false,"is_private":false}}]}`
		if string(raw) != want {
			t.Errorf("json = %s, want %s", raw, want)
		}
	})

	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{name: "resultが無い場合", body: `{"status":"ok"}`, wantMsg: msgMissingProfile},
		{name: "resultがnullの場合", body: `{"result":null}`, wantMsg: msgMissingProfile},
		{name: "resultが配列の場合", body: `{"result":[]}`, wantMsg: msgMissingProfile},
		{name: "不正なJSONの場合", body: `{"result":`, wantMsg: msgInvalidJSON},
		{name: "件数の型が不正な場合", body: `{"result":{"edge_follow":{"count":"many"}}}`, wantMsg: msgInvalidJSON},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name+"にKindUnexpectedのエラーが返ること", func(t *testing.T) {
			t.Parallel()

			_, err := normalizeProfile([]byte(tt.body))
			var gwErr *Error
			if !errors.As(err, &gwErr) {
				t.Fatalf("*Errorではない: %v", err)
			}
			if gwErr.Kind != KindUnexpected {
				t.Errorf("Kind = %q, want %q", gwErr.Kind, KindUnexpected)
			}
			if gwErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", gwErr.Message, tt.wantMsg)
			}
		})
	}
}

// TestNormalizeSuggestions はnormalizeSuggestions関数を検証する。
func TestNormalizeSuggestions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "候補の各要素が加工されずに返ること",
			body: `{"result":[{"chaining_results":[{"username":"a","score":1.50}]}]}`,
			want: `{"results":[{"data":[{"username":"a","score":1.50}]}]}`,
		},
		{
			name: "2番目以降の要素は無視されること",
			body: `{"result":[{"chaining_results":[]},{"chaining_results":[{"username":"b"}]}]}`,
			want: `{"results":[{"data":[]}]}`,
		},
		{
			name: "chaining_resultsが文字列の場合に空配列になること",
			body: `{"result":[{"chaining_results":"none"}]}`,
			want: `{"results":[{"data":[]}]}`,
		},
		{
			name: "resultがnullの場合に空配列になること",
			body: `{"result":null}`,
			want: `{"results":[{"data":[]}]}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, err := normalizeSuggestions([]byte(tt.body))
			if err != nil {
				t.Fatalf("normalizeSuggestions()でエラーが発生: %v", err)
			}
			raw, err := json.Marshal(env)
			if err != nil {
				t.Fatalf("json.Marshal()でエラーが発生: %v", err)
			}
			if string(raw) != tt.want {
				t.Errorf("json = %s, want %s", raw, tt.want)
			}
		})
	}

	t.Run("不正なJSONの場合にエラーが返ること", func(t *testing.T) {
		t.Parallel()

		_, err := normalizeSuggestions([]byte(`not json`))
		if err == nil {
			t.Fatal("normalizeSuggestions()がエラーを返すべきだが、nilが返った")
		}
	})
}

// TestPassthroughField はpassthroughField関数を検証する。
func TestPassthroughField(t *testing.T) {
	t.Parallel()

	t.Run("有効なJSONはバイト列が変わらずに返ること", func(t *testing.T) {
		t.Parallel()

		body := []byte("[ 1,\n 2 ]")
		got, err := passthroughField(body)
		if err != nil {
			t.Fatalf("passthroughField()でエラーが発生: %v", err)
		}
		if string(got) != string(body) {
			t.Errorf("got = %q, want %q", got, body)
		}
	})

	t.Run("空のボディはエラーになること", func(t *testing.T) {
		t.Parallel()

		if _, err := passthroughField(nil); err == nil {
			t.Fatal("passthroughField()がエラーを返すべきだが、nilが返った")
		}
	})
}
