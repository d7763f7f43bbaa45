package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"seacrew/pkg/domain"
)

// PostgresStore persists audit events in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed audit store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	details, err := json.Marshal(event.Details)
	if err != nil {
		return fmt.Errorf("encode audit details: %w", err)
	}
	if event.Details == nil {
		details = []byte("{}")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, occurred_at, category, action, decision, reason, document_id, crew_member_id, contract_id, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		event.ID,
		event.Timestamp,
		event.Category,
		event.Action,
		event.Decision,
		event.Reason,
		nullableID(event.DocumentID),
		nullableCrewID(event.CrewMemberID),
		nullableContractID(event.ContractID),
		details,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByDocument(ctx context.Context, docID domain.DocumentID) ([]Event, error) {
	return s.list(ctx, `WHERE document_id = $1`, uuid.UUID(docID))
}

func (s *PostgresStore) ListByCrewMember(ctx context.Context, crewID domain.CrewMemberID) ([]Event, error) {
	return s.list(ctx, `WHERE crew_member_id = $1`, uuid.UUID(crewID))
}

func (s *PostgresStore) list(ctx context.Context, where string, arg any) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, occurred_at, category, action, decision, reason, document_id, crew_member_id, contract_id, details
		FROM audit_events `+where+` ORDER BY occurred_at ASC
	`, arg)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			event      Event
			docID      uuid.NullUUID
			crewID     uuid.NullUUID
			contractID uuid.NullUUID
			details    []byte
		)
		if err := rows.Scan(
			&event.ID, &event.Timestamp, &event.Category, &event.Action,
			&event.Decision, &event.Reason, &docID, &crewID, &contractID, &details,
		); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		if docID.Valid {
			id := domain.DocumentID(docID.UUID)
			event.DocumentID = &id
		}
		if crewID.Valid {
			id := domain.CrewMemberID(crewID.UUID)
			event.CrewMemberID = &id
		}
		if contractID.Valid {
			id := domain.ContractID(contractID.UUID)
			event.ContractID = &id
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &event.Details); err != nil {
				return nil, fmt.Errorf("decode audit details: %w", err)
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}

func nullableID(id *domain.DocumentID) any {
	if id == nil {
		return nil
	}
	return uuid.UUID(*id)
}

func nullableCrewID(id *domain.CrewMemberID) any {
	if id == nil {
		return nil
	}
	return uuid.UUID(*id)
}

func nullableContractID(id *domain.ContractID) any {
	if id == nil {
		return nil
	}
	return uuid.UUID(*id)
}

var _ Store = (*PostgresStore)(nil)
