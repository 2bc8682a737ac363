// プロファイルゲートウェイのエントリポイント。
// 呼び出し元に上流APIの認証情報を持たせずに、プロフィール詳細・おすすめプロフィール・
// 投稿データを取得させる唯一の公開エンドポイントを提供する。
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/nao1215/profile-gateway/internal/gateway"
	"github.com/nao1215/profile-gateway/internal/journal"
)

func main() {
	// .env が無い環境（本番）では環境変数のみを使う
	if err := godotenv.Load(); err == nil {
		log.Printf(".env を読み込みました")
	}

	cfg, err := gateway.LoadConfig()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}
	if cfg.APISecretKey == "" {
		log.Printf("API_SECRET_KEY が未設定です。全リクエストが500を返します")
	}

	var j gateway.Journal
	if cfg.JournalDBPath != "" {
		store, err := journal.Open(context.Background(), cfg.JournalDBPath)
		if err != nil {
			log.Fatalf("ジャーナルの初期化に失敗: %v", err)
		}
		defer store.Close()
		j = store
	}

	server := gateway.NewServer(cfg, j)

	log.Printf("プロファイルゲートウェイを起動します: :%s", cfg.Port)
	if err := server.Run(); err != nil {
		log.Fatalf("プロファイルゲートウェイの起動に失敗: %v", err)
	}
}
