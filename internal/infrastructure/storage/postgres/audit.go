package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/klauspost/compress/zstd"

	"barinalp/internal/core/id"
	"barinalp/internal/domain/audit"
)

const auditTable = "sys_audit"

// CompressionAlgo specifies the compression algorithm used for a snapshot.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// defaultCompressThreshold is the snapshot size above which it is stored compressed.
const defaultCompressThreshold = 8 * 1024

// auditRow is the stored form of an audit.Entry.
type auditRow struct {
	audit.Entry
	SnapshotCompressed []byte          `db:"snapshot_compressed"`
	CompressionAlgo    CompressionAlgo `db:"compression_algo"`
}

var auditColumns = []string{
	"id", "entity_type", "entity_id", "action", "user_id",
	"snapshot", "snapshot_compressed", "compression_algo", "created_at",
}

// AuditLog implements audit.Trail on the sys_audit table.
// Large invoice snapshots are zstd-compressed.
type AuditLog struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

// NewAuditLog creates a new audit log.
func NewAuditLog(txManager *TxManager) (*AuditLog, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &AuditLog{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: defaultCompressThreshold,
	}, nil
}

func auditBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Record implements audit.Trail.
func (l *AuditLog) Record(ctx context.Context, entry audit.Entry) error {
	row := l.pack(entry)

	sql, args, err := auditBuilder().
		Insert(auditTable).
		Columns(auditColumns...).
		Values(
			row.ID, row.EntityType, row.EntityID, row.Action, row.UserID,
			row.Snapshot, row.SnapshotCompressed, row.CompressionAlgo, row.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := l.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", auditTable, err)
	}
	return nil
}

// History implements audit.Trail.
func (l *AuditLog) History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]audit.Entry, error) {
	sql, args, err := historyQuery(entityType, entityID, limit).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []auditRow
	if err := pgxscan.Select(ctx, l.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}

	entries := make([]audit.Entry, 0, len(rows))
	for _, row := range rows {
		entry, err := l.unpack(row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func historyQuery(entityType string, entityID id.ID, limit int) squirrel.SelectBuilder {
	if limit <= 0 {
		limit = 50
	}
	return auditBuilder().
		Select(auditColumns...).
		From(auditTable).
		Where(squirrel.Eq{"entity_type": entityType, "entity_id": entityID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit))
}

// pack fills defaults and compresses a large snapshot.
func (l *AuditLog) pack(entry audit.Entry) auditRow {
	if id.IsNil(entry.ID) {
		entry.ID = id.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	row := auditRow{Entry: entry, CompressionAlgo: CompressionNone}
	if len(entry.Snapshot) > l.compressThreshold {
		row.SnapshotCompressed = l.encoder.EncodeAll(entry.Snapshot, nil)
		row.Snapshot = nil
		row.CompressionAlgo = CompressionZstd
	}
	return row
}

func (l *AuditLog) unpack(row auditRow) (audit.Entry, error) {
	entry := row.Entry
	if row.CompressionAlgo == CompressionZstd && len(row.SnapshotCompressed) > 0 {
		snapshot, err := l.decoder.DecodeAll(row.SnapshotCompressed, nil)
		if err != nil {
			return audit.Entry{}, fmt.Errorf("decompress snapshot %s: %w", row.ID, err)
		}
		entry.Snapshot = snapshot
	}
	return entry, nil
}

var _ audit.Trail = (*AuditLog)(nil)
