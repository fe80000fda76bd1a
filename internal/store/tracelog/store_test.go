package tracelog

import (
	"context"
	"path/filepath"
	"testing"

	"dammed/internal/analysis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *TraceStore {
	t.Helper()
	s, err := NewTraceStore(filepath.Join(t.TempDir(), "traces.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendAndListByTrace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	stages := []analysis.StageTrace{
		{TraceID: "t1", Stage: analysis.StageDetect, Provider: "m1", Timestamp: 100, System: "sys", User: "usr", ImageCount: 1, RawOutput: `{"items":[]}`},
		{TraceID: "t1", Stage: analysis.StageDecide, Provider: "m1", Timestamp: 101, RawOutput: "{}", Error: "缺少必填字段 sustainability_type"},
		{TraceID: "t2", Stage: analysis.StageDetect, Provider: "m1", Timestamp: 102},
	}
	for _, st := range stages {
		require.NoError(t, s.AppendStage(ctx, st))
	}

	got, err := s.ListByTrace(ctx, "t1", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, analysis.StageDetect, got[0].Stage)
	assert.Equal(t, 1, got[0].ImageCount)
	assert.Equal(t, analysis.StageDecide, got[1].Stage)
	assert.Contains(t, got[1].Error, "sustainability_type")

	other, err := s.ListByTrace(ctx, "t2", 10)
	require.NoError(t, err)
	assert.Len(t, other, 1)

	none, err := s.ListByTrace(ctx, "missing", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestClosedStoreRejectsWrites(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Close())
	err := s.AppendStage(context.Background(), analysis.StageTrace{TraceID: "t1"})
	assert.Error(t, err)
}
