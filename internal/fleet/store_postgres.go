package fleet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"seacrew/pkg/domain"
)

// PostgresStore persists fleet records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed fleet store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) SaveDocument(ctx context.Context, doc *Document) error {
	if doc == nil {
		return fmt.Errorf("document is required")
	}
	query := `
		INSERT INTO documents (id, crew_member_id, kind, number, issue_date, expiry_date, issuing_country, last_notified_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			kind = EXCLUDED.kind,
			number = EXCLUDED.number,
			issue_date = EXCLUDED.issue_date,
			expiry_date = EXCLUDED.expiry_date,
			issuing_country = EXCLUDED.issuing_country,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(doc.ID),
		uuid.UUID(doc.CrewMemberID),
		string(doc.Kind),
		doc.Number,
		doc.IssueDate,
		doc.ExpiryDate,
		doc.IssuingCountry,
		doc.LastNotifiedAt,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindDocument(ctx context.Context, docID domain.DocumentID) (*Document, error) {
	row := s.db.QueryRowContext(ctx, documentSelect+` WHERE id = $1`, uuid.UUID(docID))
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find document: %w", err)
	}
	return doc, nil
}

func (s *PostgresStore) ListDocumentsByCrewMember(ctx context.Context, crewID domain.CrewMemberID) ([]*Document, error) {
	rows, err := s.db.QueryContext(ctx, documentSelect+` WHERE crew_member_id = $1 ORDER BY created_at ASC`, uuid.UUID(crewID))
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return collectDocuments(rows)
}

func (s *PostgresStore) FindDocumentsByNumber(ctx context.Context, kind domain.DocumentKind, number string) ([]*Document, error) {
	if number == "" {
		return []*Document{}, nil
	}
	rows, err := s.db.QueryContext(ctx, documentSelect+` WHERE kind = $1 AND number = $2 ORDER BY created_at ASC`, string(kind), number)
	if err != nil {
		return nil, fmt.Errorf("find documents by number: %w", err)
	}
	return collectDocuments(rows)
}

func (s *PostgresStore) MarkNotified(ctx context.Context, docID domain.DocumentID, at time.Time) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE documents SET last_notified_at = $1, updated_at = $1 WHERE id = $2`,
		at, uuid.UUID(docID),
	)
	if err != nil {
		return fmt.Errorf("mark document notified: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) SaveCrewMember(ctx context.Context, member *CrewMember) error {
	if member == nil {
		return fmt.Errorf("crew member is required")
	}
	query := `
		INSERT INTO crew_members (id, full_name, nationality, rank, officer, on_board, competency_waived, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			nationality = EXCLUDED.nationality,
			rank = EXCLUDED.rank,
			officer = EXCLUDED.officer,
			on_board = EXCLUDED.on_board,
			competency_waived = EXCLUDED.competency_waived,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(member.ID),
		member.FullName,
		member.Nationality,
		member.Rank,
		member.Officer,
		member.OnBoard,
		member.CompetencyWaived,
		member.CreatedAt,
		member.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save crew member: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindCrewMember(ctx context.Context, crewID domain.CrewMemberID) (*CrewMember, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, full_name, nationality, rank, officer, on_board, competency_waived, created_at, updated_at
		FROM crew_members WHERE id = $1
	`, uuid.UUID(crewID))

	var member CrewMember
	var memberID uuid.UUID
	if err := row.Scan(
		&memberID, &member.FullName, &member.Nationality, &member.Rank,
		&member.Officer, &member.OnBoard, &member.CompetencyWaived,
		&member.CreatedAt, &member.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find crew member: %w", err)
	}
	member.ID = domain.CrewMemberID(memberID)
	member.Nationality = trimChar(member.Nationality)
	return &member, nil
}

func (s *PostgresStore) SaveContract(ctx context.Context, contract *Contract) error {
	if contract == nil {
		return fmt.Errorf("contract is required")
	}
	query := `
		INSERT INTO contracts (id, crew_member_id, vessel_id, start_date, end_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(contract.ID),
		uuid.UUID(contract.CrewMemberID),
		uuid.UUID(contract.VesselID),
		contract.StartDate,
		contract.EndDate,
		string(contract.Status),
		contract.CreatedAt,
		contract.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save contract: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindContract(ctx context.Context, contractID domain.ContractID) (*Contract, error) {
	row := s.db.QueryRowContext(ctx, contractSelect+` WHERE id = $1`, uuid.UUID(contractID))
	contract, err := scanContract(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find contract: %w", err)
	}
	return contract, nil
}

func (s *PostgresStore) ListContractsByCrewMember(ctx context.Context, crewID domain.CrewMemberID) ([]*Contract, error) {
	rows, err := s.db.QueryContext(ctx, contractSelect+` WHERE crew_member_id = $1 ORDER BY start_date ASC`, uuid.UUID(crewID))
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	defer rows.Close()

	var contracts []*Contract
	for rows.Next() {
		contract, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contract: %w", err)
		}
		contracts = append(contracts, contract)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contracts: %w", err)
	}
	if contracts == nil {
		contracts = []*Contract{}
	}
	return contracts, nil
}

func (s *PostgresStore) SaveVessel(ctx context.Context, vessel *Vessel) error {
	if vessel == nil {
		return fmt.Errorf("vessel is required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vessels (id, name, imo_number, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, imo_number = EXCLUDED.imo_number
	`, uuid.UUID(vessel.ID), vessel.Name, vessel.IMONumber, vessel.CreatedAt)
	if err != nil {
		return fmt.Errorf("save vessel: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindVessel(ctx context.Context, vesselID domain.VesselID) (*Vessel, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, imo_number, created_at FROM vessels WHERE id = $1`,
		uuid.UUID(vesselID),
	)

	var vessel Vessel
	var id uuid.UUID
	if err := row.Scan(&id, &vessel.Name, &vessel.IMONumber, &vessel.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find vessel: %w", err)
	}
	vessel.ID = domain.VesselID(id)
	return &vessel, nil
}

const documentSelect = `
	SELECT id, crew_member_id, kind, number, issue_date, expiry_date, issuing_country, last_notified_at, created_at, updated_at
	FROM documents
`

const contractSelect = `
	SELECT id, crew_member_id, vessel_id, start_date, end_date, status, created_at, updated_at
	FROM contracts
`

type fleetRow interface {
	Scan(dest ...any) error
}

func scanDocument(row fleetRow) (*Document, error) {
	var (
		doc          Document
		docID        uuid.UUID
		crewID       uuid.UUID
		kind         string
		issueDate    sql.NullTime
		expiryDate   sql.NullTime
		lastNotified sql.NullTime
	)
	if err := row.Scan(
		&docID, &crewID, &kind, &doc.Number, &issueDate, &expiryDate,
		&doc.IssuingCountry, &lastNotified, &doc.CreatedAt, &doc.UpdatedAt,
	); err != nil {
		return nil, err
	}
	doc.ID = domain.DocumentID(docID)
	doc.CrewMemberID = domain.CrewMemberID(crewID)
	doc.Kind = domain.DocumentKind(kind)
	doc.IssuingCountry = trimChar(doc.IssuingCountry)
	if issueDate.Valid {
		t := issueDate.Time
		doc.IssueDate = &t
	}
	if expiryDate.Valid {
		t := expiryDate.Time
		doc.ExpiryDate = &t
	}
	if lastNotified.Valid {
		t := lastNotified.Time
		doc.LastNotifiedAt = &t
	}
	return &doc, nil
}

func scanContract(row fleetRow) (*Contract, error) {
	var (
		contract   Contract
		contractID uuid.UUID
		crewID     uuid.UUID
		vesselID   uuid.UUID
		status     string
	)
	if err := row.Scan(
		&contractID, &crewID, &vesselID, &contract.StartDate, &contract.EndDate,
		&status, &contract.CreatedAt, &contract.UpdatedAt,
	); err != nil {
		return nil, err
	}
	contract.ID = domain.ContractID(contractID)
	contract.CrewMemberID = domain.CrewMemberID(crewID)
	contract.VesselID = domain.VesselID(vesselID)
	contract.Status = ContractStatus(status)
	return &contract, nil
}

func collectDocuments(rows *sql.Rows) ([]*Document, error) {
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	if docs == nil {
		docs = []*Document{}
	}
	return docs, nil
}

// trimChar strips the space padding CHAR(3) columns carry back from Postgres.
func trimChar(s string) string {
	for len(s) > 0 && s[len(s)-1] == ' ' {
		s = s[:len(s)-1]
	}
	return s
}
