package tracelog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"dammed/internal/analysis"

	_ "github.com/glebarez/go-sqlite"
)

// 中文说明：
// TraceStore 记录每次模型调用的输入/输出留痕，方便排查提示词漂移与解析失败。
// 只追加：每条 AppendStage 是一次独立 INSERT。

// TraceStore 阶段留痕的 SQLite 存储。
type TraceStore struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
}

// StageRecord 一条留痕记录。
type StageRecord struct {
	ID         int64  `json:"id"`
	TraceID    string `json:"trace_id"`
	Timestamp  int64  `json:"ts"`
	Stage      string `json:"stage"`
	Provider   string `json:"provider_id"`
	System     string `json:"system_prompt"`
	User       string `json:"user_prompt"`
	ImageCount int    `json:"image_count"`
	RawOutput  string `json:"raw_output"`
	RawJSON    string `json:"raw_json"`
	Error      string `json:"error,omitempty"`
}

// NewTraceStore 初始化存储（WAL + busy_timeout）。
func NewTraceStore(path string) (*TraceStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("trace store: 路径不能为空")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(2)
	if err := ensureTraceSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &TraceStore{db: db, path: path}, nil
}

// Close 关闭底层 DB。
func (s *TraceStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func ensureTraceSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS stage_traces (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			trace_id TEXT NOT NULL,
			ts INTEGER NOT NULL,
			stage TEXT,
			provider_id TEXT,
			system_prompt TEXT,
			user_prompt TEXT,
			image_count INTEGER DEFAULT 0,
			raw_output TEXT,
			raw_json TEXT,
			error TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stage_traces_trace ON stage_traces(trace_id)`,
		`CREATE INDEX IF NOT EXISTS idx_stage_traces_ts ON stage_traces(ts)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// AppendStage 实现 analysis.TraceSink。
func (s *TraceStore) AppendStage(ctx context.Context, rec analysis.StageTrace) error {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	if db == nil {
		return fmt.Errorf("trace store 未初始化")
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO stage_traces
			(trace_id, ts, stage, provider_id, system_prompt, user_prompt, image_count, raw_output, raw_json, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.TraceID, rec.Timestamp, rec.Stage, rec.Provider,
		rec.System, rec.User, rec.ImageCount, rec.RawOutput, rec.RawJSON, rec.Error,
	)
	return err
}

// ListByTrace 返回某次运行的全部留痕，按写入顺序。
func (s *TraceStore) ListByTrace(ctx context.Context, traceID string, limit int) ([]StageRecord, error) {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	if db == nil {
		return nil, fmt.Errorf("trace store 未初始化")
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id, trace_id, ts, stage, provider_id, system_prompt, user_prompt, image_count, raw_output, raw_json, error
		FROM stage_traces
		WHERE trace_id = ?
		ORDER BY id ASC
		LIMIT ?`, traceID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []StageRecord
	for rows.Next() {
		var r StageRecord
		if err := rows.Scan(&r.ID, &r.TraceID, &r.Timestamp, &r.Stage, &r.Provider,
			&r.System, &r.User, &r.ImageCount, &r.RawOutput, &r.RawJSON, &r.Error); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
