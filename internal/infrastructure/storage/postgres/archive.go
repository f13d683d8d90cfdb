package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/klauspost/compress/zstd"

	"frostdesk/internal/core/id"
	"frostdesk/internal/domain/settlement"
)

// Compile-time check.
var _ settlement.Archiver = (*ReportArchiver)(nil)

// ReportArchiver stores zstd-compressed JSON copies of expense report
// snapshots that are about to be destroyed by a rewrite. The archive is an
// audit trail only; nothing reads it back through the report API.
type ReportArchiver struct {
	tm      *TxManager
	encoder *zstd.Encoder
}

// NewReportArchiver creates an archiver. The zstd encoder is reused across
// calls.
func NewReportArchiver(tm *TxManager) (*ReportArchiver, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	return &ReportArchiver{tm: tm, encoder: enc}, nil
}

// Archive compresses the full snapshot and inserts it into report_archive.
func (a *ReportArchiver) Archive(ctx context.Context, report *settlement.ExpenseReport) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report snapshot: %w", err)
	}

	compressed := a.encoder.EncodeAll(raw, nil)

	q := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Insert("report_archive").
		Columns("id", "report_id", "year", "month", "snapshot", "archived_at").
		Values(id.New(), report.ID, report.Year, int(report.Month), compressed, time.Now().UTC())

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build archive insert: %w", err)
	}

	if _, err := a.tm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert report archive: %w", err)
	}
	return nil
}

// decodeSnapshot is used by maintenance tooling and tests to read an
// archived snapshot back.
func decodeSnapshot(compressed []byte) (*settlement.ExpenseReport, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}

	var report settlement.ExpenseReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &report, nil
}
