package gormstore

import (
	"context"
	"encoding/json"
	"time"

	"dammed/internal/analysis"
	storemodel "dammed/internal/store/model"
)

// 中文说明：
// 台账是只追加的：每条 AppendEntry 是一次独立 INSERT（记录级原子），
// 不提供更新/删除操作，聚合值永远是历史的纯求和。

// LedgerEntry 台账条目的对外视图。
type LedgerEntry struct {
	ID        int64                 `json:"id"`
	UserID    int64                 `json:"user_id"`
	Record    analysis.ResultRecord `json:"record"`
	CreatedAt time.Time             `json:"created_at"`
}

// UserTotals 用户累计值。
type UserTotals struct {
	Points     int64   `json:"points"`
	Credits    int64   `json:"credits"`
	CO2SavedKg float64 `json:"co2_saved_kg"`
	Entries    int64   `json:"entries"`
}

// LeaderboardRow 排行榜一行。
type LeaderboardRow struct {
	UserID     int64   `json:"user_id"`
	Username   string  `json:"username"`
	Points     int64   `json:"points"`
	CO2SavedKg float64 `json:"co2_saved_kg"`
}

// AppendEntry 追加一条结果记录。
func (s *GormStore) AppendEntry(ctx context.Context, userID int64, rec analysis.ResultRecord) (int64, error) {
	detail, err := json.Marshal(rec)
	if err != nil {
		return 0, err
	}
	m := storemodel.LedgerEntryModel{
		UserID:             userID,
		TraceID:            rec.TraceID,
		ItemName:           rec.Item.Name,
		Material:           rec.Item.Material,
		Condition:          rec.Item.Condition,
		Quantity:           rec.Item.Quantity,
		Category:           rec.Decision.Category,
		SustainabilityType: rec.Decision.Type,
		BestAction:         rec.Decision.BestAction,
		Score:              rec.Decision.Score,
		CO2SavedKg:         rec.CO2SavedKg,
		Points:             rec.Points,
		Credits:            rec.Credits,
		CashINR:            rec.CashINR.String(),
		ResaleValue:        rec.Decision.ResaleValue.String(),
		Detail:             detail,
		CreatedAtUnix:      time.Now().Unix(),
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return 0, err
	}
	return m.ID, nil
}

// ListByUser 返回指定用户的全部台账条目，按追加顺序。
func (s *GormStore) ListByUser(ctx context.Context, userID int64) ([]LedgerEntry, error) {
	var rows []storemodel.LedgerEntryModel
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]LedgerEntry, 0, len(rows))
	for _, m := range rows {
		entry := LedgerEntry{
			ID:        m.ID,
			UserID:    m.UserID,
			CreatedAt: time.Unix(m.CreatedAtUnix, 0).UTC(),
		}
		if len(m.Detail) > 0 {
			if err := json.Unmarshal(m.Detail, &entry.Record); err != nil {
				// 旧记录 detail 损坏时退回冗余列快照
				entry.Record = recordFromColumns(m)
			}
		} else {
			entry.Record = recordFromColumns(m)
		}
		out = append(out, entry)
	}
	return out, nil
}

func recordFromColumns(m storemodel.LedgerEntryModel) analysis.ResultRecord {
	return analysis.ResultRecord{
		TraceID: m.TraceID,
		Item: analysis.DetectedItem{
			Name:      m.ItemName,
			Material:  m.Material,
			Condition: m.Condition,
			Quantity:  m.Quantity,
		},
		CO2SavedKg: m.CO2SavedKg,
		Points:     m.Points,
		Credits:    m.Credits,
		Timestamp:  time.Unix(m.CreatedAtUnix, 0).UTC(),
	}
}

// ListUserIDs 返回台账中出现过的全部用户 ID。
func (s *GormStore) ListUserIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := s.db.WithContext(ctx).
		Model(&storemodel.LedgerEntryModel{}).
		Distinct("user_id").
		Order("user_id ASC").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Totals 返回用户累计积分/信用/CO₂。
func (s *GormStore) Totals(ctx context.Context, userID int64) (UserTotals, error) {
	var t UserTotals
	err := s.db.WithContext(ctx).
		Model(&storemodel.LedgerEntryModel{}).
		Select("COALESCE(SUM(points),0) AS points, COALESCE(SUM(credits),0) AS credits, COALESCE(SUM(co2_saved_kg),0) AS co2_saved_kg, COUNT(*) AS entries").
		Where("user_id = ?", userID).
		Scan(&t).Error
	return t, err
}

// Leaderboard 按累计积分降序返回前 limit 名用户。
func (s *GormStore) Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []LeaderboardRow
	err := s.db.WithContext(ctx).Raw(`
		SELECT l.user_id AS user_id,
		       u.username AS username,
		       COALESCE(SUM(l.points),0) AS points,
		       COALESCE(SUM(l.co2_saved_kg),0) AS co2_saved_kg
		FROM ledger_entries l
		JOIN users u ON u.id = l.user_id
		GROUP BY l.user_id, u.username
		ORDER BY points DESC, u.username ASC
		LIMIT ?`, limit).Scan(&rows).Error
	return rows, err
}
