package scantruth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"seacrew/internal/extraction"
	"seacrew/pkg/domain"
)

const pgUniqueViolation = "23505"

// PostgresStore persists scan records in PostgreSQL.
//
// The single-active invariant is enforced by the database itself: a partial
// unique index on (document_id) WHERE superseded_at IS NULL means two
// concurrent writers can both run the close-out UPDATE, but only one INSERT
// of a new active row can commit. The loser surfaces as ErrAlreadySuperseded.
type PostgresStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewPostgres constructs a PostgreSQL-backed scan store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

func (s *PostgresStore) RecordScan(ctx context.Context, record *ScanRecord) error {
	if record == nil {
		return fmt.Errorf("scan record is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record scan: %w", err)
	}
	defer tx.Rollback()

	now := s.now()
	_, err = tx.ExecContext(ctx, `
		UPDATE scan_records
		SET superseded_at = $1, superseded_by = $2
		WHERE document_id = $3 AND superseded_at IS NULL
	`, now, uuid.UUID(record.ID), uuid.UUID(record.DocumentID))
	if err != nil {
		return fmt.Errorf("supersede active scan: %w", err)
	}

	var mrzLine1, mrzLine2 string
	if record.Fields.MRZ != nil {
		mrzLine1 = record.Fields.MRZ.Line1
		mrzLine2 = record.Fields.MRZ.Line2
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO scan_records (
			id, document_id, kind, number, issue_date, expiry_date,
			holder_name, mrz_line1, mrz_line2, confidence,
			provider_id, degraded, owner_validated, recorded_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`,
		uuid.UUID(record.ID),
		uuid.UUID(record.DocumentID),
		string(record.Fields.Kind),
		record.Fields.Number,
		record.Fields.IssueDate,
		record.Fields.ExpiryDate,
		record.Fields.HolderName,
		mrzLine1,
		mrzLine2,
		record.Fields.Confidence,
		record.ProviderID,
		record.Degraded,
		record.OwnerValidated,
		record.RecordedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrAlreadySuperseded
		}
		return fmt.Errorf("insert scan record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrAlreadySuperseded
		}
		return fmt.Errorf("commit record scan: %w", err)
	}
	return nil
}

func (s *PostgresStore) ActiveScan(ctx context.Context, docID domain.DocumentID) (*ScanRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, document_id, kind, number, issue_date, expiry_date,
		       holder_name, mrz_line1, mrz_line2, confidence,
		       provider_id, degraded, owner_validated, recorded_at,
		       superseded_at, superseded_by
		FROM scan_records
		WHERE document_id = $1 AND superseded_at IS NULL
	`, uuid.UUID(docID))

	record, err := scanScanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find active scan: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) History(ctx context.Context, docID domain.DocumentID) ([]*ScanRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, kind, number, issue_date, expiry_date,
		       holder_name, mrz_line1, mrz_line2, confidence,
		       provider_id, degraded, owner_validated, recorded_at,
		       superseded_at, superseded_by
		FROM scan_records
		WHERE document_id = $1
		ORDER BY recorded_at ASC
	`, uuid.UUID(docID))
	if err != nil {
		return nil, fmt.Errorf("list scan history: %w", err)
	}
	defer rows.Close()

	var records []*ScanRecord
	for rows.Next() {
		record, err := scanScanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scan history: %w", err)
	}
	if records == nil {
		records = []*ScanRecord{}
	}
	return records, nil
}

type scanRow interface {
	Scan(dest ...any) error
}

func scanScanRecord(row scanRow) (*ScanRecord, error) {
	var (
		record       ScanRecord
		recordID     uuid.UUID
		docID        uuid.UUID
		kind         string
		issueDate    sql.NullTime
		expiryDate   sql.NullTime
		mrzLine1     string
		mrzLine2     string
		supersededAt sql.NullTime
		supersededBy uuid.NullUUID
	)
	if err := row.Scan(
		&recordID, &docID, &kind, &record.Fields.Number, &issueDate, &expiryDate,
		&record.Fields.HolderName, &mrzLine1, &mrzLine2, &record.Fields.Confidence,
		&record.ProviderID, &record.Degraded, &record.OwnerValidated, &record.RecordedAt,
		&supersededAt, &supersededBy,
	); err != nil {
		return nil, err
	}

	record.ID = domain.ScanID(recordID)
	record.DocumentID = domain.DocumentID(docID)
	record.Fields.Kind = domain.DocumentKind(kind)
	if issueDate.Valid {
		t := issueDate.Time
		record.Fields.IssueDate = &t
	}
	if expiryDate.Valid {
		t := expiryDate.Time
		record.Fields.ExpiryDate = &t
	}
	if supersededAt.Valid {
		t := supersededAt.Time
		record.SupersededAt = &t
	}
	if supersededBy.Valid {
		id := domain.ScanID(supersededBy.UUID)
		record.SupersededBy = &id
	}
	// The MRZ is persisted as its raw lines; reparse on load so stored and
	// freshly extracted records carry identical structure.
	if mrzLine1 != "" && mrzLine2 != "" {
		if mrz, err := extraction.ParseMRZ(mrzLine1, mrzLine2); err == nil {
			record.Fields.MRZ = mrz
		}
	}
	return &record, nil
}

var _ Store = (*PostgresStore)(nil)
