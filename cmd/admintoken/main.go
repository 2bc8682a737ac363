// 運用者トークン発行ツールのエントリポイント。
// ジャーナル参照エンドポイント（GET /api/v1/requests）用のJWTを標準出力に書き出す。
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/nao1215/profile-gateway/pkg/middleware"
)

func main() {
	operator := flag.String("operator", "", "運用者の識別名（必須）")
	ttl := flag.Duration("ttl", 24*time.Hour, "トークンの有効期間")
	flag.Parse()

	_ = godotenv.Load()

	secret := os.Getenv("OPERATOR_JWT_SECRET")
	if secret == "" {
		log.Fatalf("OPERATOR_JWT_SECRET が設定されていません")
	}
	if *operator == "" {
		log.Fatalf("-operator を指定してください")
	}
	if *ttl <= 0 {
		log.Fatalf("-ttl は正の値で指定してください")
	}

	token, err := middleware.GenerateOperatorJWT(secret, *operator, *ttl)
	if err != nil {
		log.Fatalf("トークン生成に失敗: %v", err)
	}
	fmt.Println(token)
}
