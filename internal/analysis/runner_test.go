package analysis

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"dammed/internal/gateway/provider"
	"dammed/internal/prompt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider 按阶段脚本回复；respond 为 nil 时退回 responses 表。
type fakeProvider struct {
	id      string
	vision  bool
	respond func(payload provider.ChatPayload) (string, error)

	mu    sync.Mutex
	calls []provider.ChatPayload
}

func (f *fakeProvider) ID() string           { return f.id }
func (f *fakeProvider) Enabled() bool        { return true }
func (f *fakeProvider) SupportsVision() bool { return f.vision }

func (f *fakeProvider) Call(ctx context.Context, payload provider.ChatPayload) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, payload)
	f.mu.Unlock()
	return f.respond(payload)
}

type captureSink struct {
	mu     sync.Mutex
	stages []StageTrace
}

func (c *captureSink) AppendStage(_ context.Context, rec StageTrace) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stages = append(c.stages, rec)
	return nil
}

func stageOf(profile prompt.Profile, payload provider.ChatPayload) string {
	switch payload.System {
	case profile.Detection:
		return StageDetect
	case profile.Decision:
		return StageDecide
	default:
		return StageRecommend
	}
}

func newTestRunner(t *testing.T, prov *fakeProvider, sink TraceSink) *Runner {
	t.Helper()
	lib, err := prompt.NewLibrary("")
	require.NoError(t, err)
	r, err := NewRunner(RunnerConfig{
		Providers: []provider.ModelProvider{prov},
		Prompts:   lib,
		Traces:    sink,
		MaxItems:  2,
	})
	require.NoError(t, err)
	return r
}

const detectionReply = `{"items": [{"item_name": "plastic bottle", "primary_material": "PET", "condition": "used", "quantity": 4}]}`

const decisionReply = `{
	"category": "plastic",
	"sustainability_type": "recyclable",
	"best_action": "recycle",
	"estimated_resale_value_inr": 5,
	"estimated_co2_saved_kg": 1.5,
	"sustainability_score": 78
}`

const recommendationReply = `{
	"government_green_points": 15,
	"action_type": "DIY",
	"steps": ["rinse", "cut", "plant"],
	"tools": ["scissors"],
	"estimated_time_minutes": 20
}`

func TestRunnerFullPipeline(t *testing.T) {
	profile := prompt.Defaults()
	prov := &fakeProvider{id: "test-model", vision: true}
	prov.respond = func(payload provider.ChatPayload) (string, error) {
		switch stageOf(profile, payload) {
		case StageDetect:
			return detectionReply, nil
		case StageDecide:
			return decisionReply, nil
		default:
			return recommendationReply, nil
		}
	}
	sink := &captureSink{}
	r := newTestRunner(t, prov, sink)

	out, err := r.Run(context.Background(), Input{Text: "an old plastic bottle"})
	require.NoError(t, err)
	require.Len(t, out.Records, 1)
	assert.NotEmpty(t, out.TraceID)
	assert.Empty(t, out.Skipped)
	assert.Empty(t, out.Failures)

	rec := out.Records[0]
	assert.Equal(t, "plastic bottle", rec.Item.Name)
	assert.Equal(t, 4, rec.Item.Quantity)
	assert.InDelta(t, 1.5, rec.CO2SavedKg, 1e-9)
	assert.Equal(t, int64(15), rec.Points)
	assert.Equal(t, int64(15), rec.Credits)
	assert.Equal(t, "30", rec.CashINR.String())

	// 三个阶段各留痕一次
	assert.Len(t, sink.stages, 3)
	assert.Equal(t, StageDetect, sink.stages[0].Stage)
	for _, s := range sink.stages {
		assert.Equal(t, out.TraceID, s.TraceID)
		assert.Empty(t, s.Error)
	}
}

func TestRunnerCapsItemsAndReportsSkipped(t *testing.T) {
	profile := prompt.Defaults()
	detection := `{"items": [
		{"item_name": "rag", "quantity": 1},
		{"item_name": "bottle", "quantity": 5},
		{"item_name": "jar", "quantity": 3}
	]}`
	prov := &fakeProvider{id: "test-model"}
	prov.respond = func(payload provider.ChatPayload) (string, error) {
		switch stageOf(profile, payload) {
		case StageDetect:
			return detection, nil
		case StageDecide:
			return decisionReply, nil
		default:
			return recommendationReply, nil
		}
	}
	r := newTestRunner(t, prov, nil)

	out, err := r.Run(context.Background(), Input{Text: "a pile of things"})
	require.NoError(t, err)
	assert.Len(t, out.Records, 2)
	assert.Equal(t, []SkippedItem{{Name: "rag", Quantity: 1}}, out.Skipped)
}

func TestRunnerItemFailureIsolated(t *testing.T) {
	profile := prompt.Defaults()
	detection := `{"items": [
		{"item_name": "bottle", "quantity": 2},
		{"item_name": "phone", "quantity": 1}
	]}`
	prov := &fakeProvider{id: "test-model"}
	prov.respond = func(payload provider.ChatPayload) (string, error) {
		switch stageOf(profile, payload) {
		case StageDetect:
			return detection, nil
		case StageDecide:
			if strings.Contains(payload.User, "phone") {
				return "模型没有返回任何结构化内容", nil
			}
			return decisionReply, nil
		default:
			return recommendationReply, nil
		}
	}
	r := newTestRunner(t, prov, nil)

	out, err := r.Run(context.Background(), Input{Text: "a bottle and a phone"})
	require.NoError(t, err)
	require.Len(t, out.Records, 1)
	assert.Equal(t, "bottle", out.Records[0].Item.Name)
	require.Len(t, out.Failures, 1)
	assert.Equal(t, "phone", out.Failures[0].Item.Name)
	assert.Equal(t, StageDecide, out.Failures[0].Stage)
}

func TestRunnerDetectionTransportFailureAbortsRun(t *testing.T) {
	prov := &fakeProvider{id: "test-model"}
	prov.respond = func(provider.ChatPayload) (string, error) {
		return "", errors.New("connection refused")
	}
	r := newTestRunner(t, prov, nil)

	_, err := r.Run(context.Background(), Input{Text: "anything"})
	require.Error(t, err)
	var runErr *RunFailedError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, StageDetect, runErr.Stage)
	var terr *TransportError
	assert.ErrorAs(t, err, &terr)
}

func TestRunnerDetectionMalformedAbortsRun(t *testing.T) {
	prov := &fakeProvider{id: "test-model"}
	prov.respond = func(provider.ChatPayload) (string, error) {
		return "完全不是 JSON 的回复", nil
	}
	r := newTestRunner(t, prov, nil)

	_, err := r.Run(context.Background(), Input{Text: "anything"})
	var merr *MalformedResponseError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, StageDetect, merr.Stage)
}

func TestRunnerRequiresInput(t *testing.T) {
	prov := &fakeProvider{id: "test-model"}
	prov.respond = func(provider.ChatPayload) (string, error) { return "", nil }
	r := newTestRunner(t, prov, nil)

	_, err := r.Run(context.Background(), Input{})
	assert.Error(t, err)
}

func TestRunnerVisionRequiredForImages(t *testing.T) {
	prov := &fakeProvider{id: "text-only", vision: false}
	prov.respond = func(provider.ChatPayload) (string, error) { return detectionReply, nil }
	r := newTestRunner(t, prov, nil)

	_, err := r.Run(context.Background(), Input{Image: []byte{0xFF, 0xD8}, ImageMIME: "image/jpeg"})
	require.Error(t, err)
	var runErr *RunFailedError
	assert.ErrorAs(t, err, &runErr)
}
