// Package asklog records metadata about each upstream generation call.
// Prompt and answer text are never stored.
package asklog

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"swarm-agents/internal/logging"
)

type Record struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	SessionID     string         `json:"session_id" gorm:"size:36;index"`
	AgentID       string         `json:"agent_id" gorm:"size:32;index"`
	Model         string         `json:"model" gorm:"size:64"`
	Status        string         `json:"status" gorm:"size:16"`
	PromptChars   int            `json:"prompt_chars"`
	ResponseChars int            `json:"response_chars"`
	DurationMs    int64          `json:"duration_ms"`
	Usage         datatypes.JSON `json:"usage"`
	CreatedAt     time.Time      `json:"createdAt"`
}

func (Record) TableName() string {
	return "ask_records"
}

// Recorder writes Records. A Recorder without a database does nothing.
type Recorder struct {
	db *gorm.DB
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

func (r *Recorder) Enabled() bool {
	return r != nil && r.db != nil
}

func (r *Recorder) Record(ctx context.Context, rec *Record) error {
	if !r.Enabled() {
		return nil
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	if len(rec.Usage) == 0 || !json.Valid(rec.Usage) {
		rec.Usage = datatypes.JSON("{}")
	}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		logging.For("asklog").Warnf("failed to record ask: %v", err)
		return err
	}
	return nil
}

// Recent returns the newest records first.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]Record, error) {
	if !r.Enabled() {
		return nil, nil
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	var out []Record
	err := r.db.WithContext(ctx).Order("created_at desc").Order("id desc").Limit(limit).Find(&out).Error
	return out, err
}

// CountByAgent returns the number of recorded asks per agent ID.
func (r *Recorder) CountByAgent(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	if !r.Enabled() {
		return counts, nil
	}
	var rows []struct {
		AgentID string
		Total   int64
	}
	err := r.db.WithContext(ctx).Model(&Record{}).
		Select("agent_id, count(*) as total").
		Group("agent_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.AgentID] = row.Total
	}
	return counts, nil
}
