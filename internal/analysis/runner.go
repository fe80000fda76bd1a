package analysis

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"dammed/internal/gateway/provider"
	"dammed/internal/logger"
	"dammed/internal/prompt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// 中文说明：
// Runner 按「检测 → 判定 → 建议」三阶段驱动一次分析运行。
// 检测失败终止整次运行；单条目的判定/建议失败只隔离该条目，
// 其他条目照常产出（批内并发，条目内阶段串行）。

const (
	DefaultMaxItems = 2
)

// StageTrace 单次模型调用的留痕记录。
type StageTrace struct {
	TraceID    string
	Stage      string
	Provider   string
	Timestamp  int64
	System     string
	User       string
	ImageCount int
	RawOutput  string
	RawJSON    string
	Error      string
}

// TraceSink 阶段留痕的落地接口（由 tracelog 存储实现）。
type TraceSink interface {
	AppendStage(ctx context.Context, rec StageTrace) error
}

// Runner 流水线编排器。
type Runner struct {
	providers []provider.ModelProvider
	prompts   *prompt.Library
	traces    TraceSink
	maxItems  int
	workers   int
}

// RunnerConfig Runner 的装配参数。
type RunnerConfig struct {
	Providers []provider.ModelProvider
	Prompts   *prompt.Library
	Traces    TraceSink
	MaxItems  int
	Workers   int
}

// NewRunner 构建 Runner；MaxItems 默认 2，Workers 默认与 MaxItems 相同。
func NewRunner(cfg RunnerConfig) (*Runner, error) {
	if len(cfg.Providers) == 0 {
		return nil, errors.New("runner requires at least one model provider")
	}
	if cfg.Prompts == nil {
		return nil, errors.New("runner requires a prompt library")
	}
	maxItems := cfg.MaxItems
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = maxItems
	}
	return &Runner{
		providers: cfg.Providers,
		prompts:   cfg.Prompts,
		traces:    cfg.Traces,
		maxItems:  maxItems,
		workers:   workers,
	}, nil
}

// Run 执行一次完整分析。输入必须携带图像或文本描述之一。
func (r *Runner) Run(ctx context.Context, input Input) (*RunResult, error) {
	if !input.HasImage() && strings.TrimSpace(input.Text) == "" {
		return nil, errors.New("analysis input requires an image or a description")
	}
	traceID := uuid.NewString()
	profile := r.prompts.Snapshot().Profile

	det, err := r.detect(ctx, traceID, profile, input)
	if err != nil {
		return nil, err
	}

	selected, skipped := SelectItems(det.Items, r.maxItems)
	out := &RunResult{TraceID: traceID, Skipped: skipped}
	if len(selected) == 0 {
		logger.Infof("[analysis] trace=%s 检测结果为空", traceID)
		return out, nil
	}

	textProv, perr := r.pickProvider(false)
	if perr != nil {
		return nil, &RunFailedError{Stage: StageDecide, Err: perr}
	}

	records := make([]*ResultRecord, len(selected))
	failures := make([]*ItemFailure, len(selected))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.workers)
	for i, item := range selected {
		i, item := i, item
		group.Go(func() error {
			rec, fail := r.analyzeItem(groupCtx, traceID, textProv, profile, item)
			records[i] = rec
			failures[i] = fail
			// 单条目失败不取消批次中的其他条目
			return nil
		})
	}
	_ = group.Wait()

	for i := range selected {
		switch {
		case records[i] != nil:
			out.Records = append(out.Records, *records[i])
		case failures[i] != nil:
			out.Failures = append(out.Failures, *failures[i])
			logger.Warnf("[analysis] trace=%s item=%q stage=%s 失败: %s",
				traceID, failures[i].Item.Name, failures[i].Stage, failures[i].Reason)
		}
	}
	return out, nil
}

func (r *Runner) detect(ctx context.Context, traceID string, profile prompt.Profile, input Input) (*DetectionResult, error) {
	prov, err := r.pickProvider(input.HasImage())
	if err != nil {
		return nil, &RunFailedError{Stage: StageDetect, Err: err}
	}
	payload := provider.ChatPayload{
		System: profile.Detection,
		User:   prompt.DetectionUser(input.Text),
	}
	if input.HasImage() {
		payload.Images = []provider.ImagePayload{{DataURI: encodeDataURI(input.Image, input.ImageMIME)}}
	}
	raw, callErr := r.dispatch(ctx, prov, StageDetect, payload)
	if callErr != nil {
		terr := &TransportError{Provider: prov.ID(), Stage: StageDetect, Err: callErr}
		r.trace(ctx, StageTrace{
			TraceID: traceID, Stage: StageDetect, Provider: prov.ID(), Timestamp: time.Now().UnixMilli(),
			System: payload.System, User: payload.User, ImageCount: len(payload.Images), Error: terr.Error(),
		})
		return nil, &RunFailedError{Stage: StageDetect, Err: terr}
	}
	det, nerr := NormalizeDetection(raw)
	rec := StageTrace{
		TraceID: traceID, Stage: StageDetect, Provider: prov.ID(), Timestamp: time.Now().UnixMilli(),
		System: payload.System, User: payload.User, ImageCount: len(payload.Images), RawOutput: raw,
	}
	if nerr != nil {
		rec.Error = nerr.Error()
		r.trace(ctx, rec)
		return nil, &RunFailedError{Stage: StageDetect, Err: nerr}
	}
	if buf, merr := json.Marshal(det); merr == nil {
		rec.RawJSON = string(buf)
	}
	r.trace(ctx, rec)
	return det, nil
}

func (r *Runner) analyzeItem(ctx context.Context, traceID string, prov provider.ModelProvider, profile prompt.Profile, item DetectedItem) (*ResultRecord, *ItemFailure) {
	itemJSON, err := json.Marshal(item)
	if err != nil {
		return nil, &ItemFailure{Item: item, Stage: StageDecide, Reason: err.Error()}
	}

	decision, fail := r.decideItem(ctx, traceID, prov, profile, item, string(itemJSON))
	if fail != nil {
		return nil, fail
	}
	decisionJSON, _ := json.Marshal(decision)

	recommendation, fail := r.recommendItem(ctx, traceID, prov, profile, item, string(itemJSON), string(decisionJSON))
	if fail != nil {
		return nil, fail
	}

	credits, cash := ComputeReward(decision.CO2SavedKg)
	return &ResultRecord{
		TraceID:        traceID,
		Item:           item,
		Decision:       *decision,
		Recommendation: *recommendation,
		CO2SavedKg:     decision.CO2SavedKg,
		Points:         int64(recommendation.GreenPoints),
		Credits:        credits,
		CashINR:        cash,
		Timestamp:      time.Now().UTC(),
	}, nil
}

func (r *Runner) decideItem(ctx context.Context, traceID string, prov provider.ModelProvider, profile prompt.Profile, item DetectedItem, itemJSON string) (*SustainabilityDecision, *ItemFailure) {
	payload := provider.ChatPayload{
		System: profile.Decision,
		User:   prompt.DecisionUser(itemJSON),
	}
	raw, callErr := r.dispatch(ctx, prov, StageDecide, payload)
	if callErr != nil {
		terr := &TransportError{Provider: prov.ID(), Stage: StageDecide, Err: callErr}
		r.trace(ctx, StageTrace{
			TraceID: traceID, Stage: StageDecide, Provider: prov.ID(), Timestamp: time.Now().UnixMilli(),
			System: payload.System, User: payload.User, Error: terr.Error(),
		})
		return nil, &ItemFailure{Item: item, Stage: StageDecide, Reason: terr.Error()}
	}
	decision, nerr := NormalizeDecision(raw)
	rec := StageTrace{
		TraceID: traceID, Stage: StageDecide, Provider: prov.ID(), Timestamp: time.Now().UnixMilli(),
		System: payload.System, User: payload.User, RawOutput: raw,
	}
	if nerr != nil {
		rec.Error = nerr.Error()
		r.trace(ctx, rec)
		return nil, &ItemFailure{Item: item, Stage: StageDecide, Reason: nerr.Error()}
	}
	if buf, merr := json.Marshal(decision); merr == nil {
		rec.RawJSON = string(buf)
	}
	r.trace(ctx, rec)
	return decision, nil
}

func (r *Runner) recommendItem(ctx context.Context, traceID string, prov provider.ModelProvider, profile prompt.Profile, item DetectedItem, itemJSON, decisionJSON string) (*PolicyRecommendation, *ItemFailure) {
	payload := provider.ChatPayload{
		System: profile.Recommendation,
		User:   prompt.RecommendationUser(itemJSON, decisionJSON),
	}
	raw, callErr := r.dispatch(ctx, prov, StageRecommend, payload)
	if callErr != nil {
		terr := &TransportError{Provider: prov.ID(), Stage: StageRecommend, Err: callErr}
		r.trace(ctx, StageTrace{
			TraceID: traceID, Stage: StageRecommend, Provider: prov.ID(), Timestamp: time.Now().UnixMilli(),
			System: payload.System, User: payload.User, Error: terr.Error(),
		})
		return nil, &ItemFailure{Item: item, Stage: StageRecommend, Reason: terr.Error()}
	}
	recommendation, nerr := NormalizeRecommendation(raw)
	rec := StageTrace{
		TraceID: traceID, Stage: StageRecommend, Provider: prov.ID(), Timestamp: time.Now().UnixMilli(),
		System: payload.System, User: payload.User, RawOutput: raw,
	}
	if nerr != nil {
		rec.Error = nerr.Error()
		r.trace(ctx, rec)
		return nil, &ItemFailure{Item: item, Stage: StageRecommend, Reason: nerr.Error()}
	}
	if buf, merr := json.Marshal(recommendation); merr == nil {
		rec.RawJSON = string(buf)
	}
	r.trace(ctx, rec)
	return recommendation, nil
}

func (r *Runner) dispatch(ctx context.Context, prov provider.ModelProvider, stage string, payload provider.ChatPayload) (string, error) {
	logger.LogLLMRequest(prov.ID(), stage, payload.System, payload.User, len(payload.Images))
	raw, err := prov.Call(ctx, payload)
	if err != nil {
		return "", err
	}
	logger.LogLLMResponse(prov.ID(), stage, raw)
	return raw, nil
}

func (r *Runner) pickProvider(needVision bool) (provider.ModelProvider, error) {
	for _, p := range r.providers {
		if p == nil || !p.Enabled() {
			continue
		}
		if needVision && !p.SupportsVision() {
			continue
		}
		return p, nil
	}
	if needVision {
		return nil, errors.New("没有可用的视觉模型（supports_vision）")
	}
	return nil, errors.New("没有可用的模型")
}

func (r *Runner) trace(ctx context.Context, rec StageTrace) {
	if r.traces == nil {
		return
	}
	if err := r.traces.AppendStage(ctx, rec); err != nil {
		logger.Warnf("[analysis] 写入阶段留痕失败 trace=%s stage=%s: %v", rec.TraceID, rec.Stage, err)
	}
}

func encodeDataURI(data []byte, mime string) string {
	if strings.TrimSpace(mime) == "" {
		mime = "image/jpeg"
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data))
}
