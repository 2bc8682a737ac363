package journal

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/nao1215/profile-gateway/pkg/event"
	"github.com/nao1215/profile-gateway/pkg/migration"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	// DefaultListLimit はList呼び出しでlimitが0以下の場合の件数。
	DefaultListLimit = 50
	// MaxListLimit はList呼び出しで返す最大件数。
	MaxListLimit = 500
)

// timeLayout は辞書順と時系列順が一致する固定幅のUTC時刻形式。
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store はゲートウェイイベントを永続化するSQLiteストア。
type Store struct {
	// db はSQLiteデータベース接続。
	db *sql.DB
}

// Open はSQLiteデータベースを開き、マイグレーションを適用したStoreを返す。
// pathに ":memory:" を指定するとインメモリDBを使用する。
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}
	// SQLiteへの書き込みを直列化する。インメモリDBは接続ごとに別物になるため必須。
	db.SetMaxOpenConns(1)

	if err := migration.Run(ctx, db, migrationsFS, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}
	return &Store{db: db}, nil
}

// dsn はファイルパスにWALモードとビジータイムアウトのプラグマを付与する。
func dsn(path string) string {
	if path == ":memory:" || strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
}

// Close はデータベース接続を閉じる。
func (s *Store) Close() error {
	return s.db.Close()
}

// Record はイベントを1件保存する。
func (s *Store) Record(ctx context.Context, ev *event.Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO gateway_events (id, username, mode, event_type, data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.Username, ev.Mode, string(ev.EventType), string(ev.Data),
		ev.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("イベントの保存に失敗: %w", err)
	}
	return nil
}

// List は新しい順にイベントを返す。
// limitが0以下の場合はDefaultListLimit、MaxListLimitを超える場合はMaxListLimitに丸める。
func (s *Store) List(ctx context.Context, limit int) ([]event.Event, error) {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, mode, event_type, data, created_at
		 FROM gateway_events
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("イベントの取得に失敗: %w", err)
	}
	defer func() { _ = rows.Close() }()

	events := make([]event.Event, 0, limit)
	for rows.Next() {
		var (
			ev        event.Event
			eventType string
			data      string
			createdAt string
		)
		if err := rows.Scan(&ev.ID, &ev.Username, &ev.Mode, &eventType, &data, &createdAt); err != nil {
			return nil, fmt.Errorf("イベント行の読み取りに失敗: %w", err)
		}
		ev.EventType = event.Type(eventType)
		ev.Data = []byte(data)
		ev.CreatedAt, err = time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("作成日時のパースに失敗: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("イベントの取得に失敗: %w", err)
	}
	return events, nil
}
