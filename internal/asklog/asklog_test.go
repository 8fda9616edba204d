package asklog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupLogDB(t *testing.T) *gorm.DB {
	dbConn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "asklog.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := dbConn.AutoMigrate(&Record{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return dbConn
}

func TestRecorder_DisabledIsNoop(t *testing.T) {
	r := NewRecorder(nil)
	if r.Enabled() {
		t.Errorf("recorder without db should be disabled")
	}
	if err := r.Record(context.Background(), &Record{AgentID: "doctor"}); err != nil {
		t.Errorf("disabled Record should not fail: %v", err)
	}
	counts, err := r.CountByAgent(context.Background())
	if err != nil || len(counts) != 0 {
		t.Errorf("expected empty counts, got %v %v", counts, err)
	}
	var nilRecorder *Recorder
	if nilRecorder.Enabled() {
		t.Errorf("nil recorder should be disabled")
	}
}

func TestRecorder_RecordAndRecent(t *testing.T) {
	r := NewRecorder(setupLogDB(t))
	ctx := context.Background()
	base := time.Now().Add(-time.Minute)

	for i, agent := range []string{"doctor", "engineer", "doctor"} {
		rec := &Record{
			SessionID: "s1",
			AgentID:   agent,
			Model:     "gemini-pro",
			Status:    "ok",
			Usage:     datatypes.JSON(`{"promptTokenCount":3}`),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := r.Record(ctx, rec); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
		if rec.ID == 0 {
			t.Errorf("record should get an id")
		}
	}

	recent, err := r.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recent))
	}
	if recent[0].AgentID != "doctor" || recent[1].AgentID != "engineer" {
		t.Errorf("expected newest first, got %s, %s", recent[0].AgentID, recent[1].AgentID)
	}
}

func TestRecorder_InvalidUsageStoredAsEmptyObject(t *testing.T) {
	r := NewRecorder(setupLogDB(t))
	rec := &Record{AgentID: "numerology", Usage: datatypes.JSON("not json")}
	if err := r.Record(context.Background(), rec); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if string(rec.Usage) != "{}" {
		t.Errorf("expected {} usage, got %s", rec.Usage)
	}
}

func TestRecorder_CountByAgent(t *testing.T) {
	r := NewRecorder(setupLogDB(t))
	ctx := context.Background()
	for _, agent := range []string{"doctor", "doctor", "engineer"} {
		_ = r.Record(ctx, &Record{AgentID: agent, Status: "ok"})
	}
	counts, err := r.CountByAgent(ctx)
	if err != nil {
		t.Fatalf("CountByAgent failed: %v", err)
	}
	if counts["doctor"] != 2 || counts["engineer"] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}
