//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"seacrew/migrations"
	"seacrew/pkg/domain"
)

// PostgresContainer wraps a testcontainers Postgres instance.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts a new Postgres container with migrations applied.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:18-alpine",
		postgres.WithDatabase("seacrew_test"),
		postgres.WithUsername("seacrew"),
		postgres.WithPassword("seacrew_test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to connect to postgres: %v", err)
	}

	pc := &PostgresContainer{
		Container: container,
		DSN:       dsn,
		DB:        db,
	}

	if err := pc.runMigrations(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Note: We don't register t.Cleanup here because the container is managed
	// by the singleton Manager and shared across test suites. Ryuk (testcontainers'
	// cleanup sidecar) handles container cleanup when the test process exits.

	return pc
}

// runMigrations executes all *.up.sql migrations from the embedded migrations.FS.
func (p *PostgresContainer) runMigrations(ctx context.Context) error {
	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := fs.ReadFile(migrations.FS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}

		if _, err := p.DB.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("execute migration %s: %w", file, err)
		}
	}

	return nil
}

// TruncateTables clears all data from the specified tables.
// Use between tests to ensure isolation without restarting the container.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		_, err := p.DB.ExecContext(ctx, "TRUNCATE TABLE "+table+" CASCADE")
		if err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}

// TruncateModuleTables truncates all module tables for full integration test
// isolation. Tables are truncated with CASCADE to handle foreign key
// dependencies.
func (p *PostgresContainer) TruncateModuleTables(ctx context.Context) error {
	tables := []string{
		"audit_events",
		"scan_records",
		"documents",
		"contracts",
		"crew_members",
		"vessels",
	}
	return p.TruncateTables(ctx, tables...)
}

// Exec runs a SQL statement and returns the result.
func (p *PostgresContainer) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return p.DB.ExecContext(ctx, query, args...)
}

// Query runs a SQL query and returns rows.
func (p *PostgresContainer) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return p.DB.QueryContext(ctx, query, args...)
}

// QueryRow runs a SQL query expected to return a single row.
func (p *PostgresContainer) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return p.DB.QueryRowContext(ctx, query, args...)
}

// CreateTestVessel inserts a test vessel and returns its ID.
// Fails the test if insertion fails.
func (p *PostgresContainer) CreateTestVessel(ctx context.Context, t testing.TB) domain.VesselID {
	t.Helper()
	vesselID := domain.VesselID(uuid.New())
	_, err := p.Exec(ctx, `
		INSERT INTO vessels (id, name, imo_number)
		VALUES ($1, $2, $3)
	`, uuid.UUID(vesselID), "Test Vessel "+uuid.NewString(), "IMO0000000")
	if err != nil {
		t.Fatalf("CreateTestVessel: %v", err)
	}
	return vesselID
}

// CreateTestCrewMember inserts a test crew member and returns its ID.
// Fails the test if insertion fails.
func (p *PostgresContainer) CreateTestCrewMember(ctx context.Context, t testing.TB) domain.CrewMemberID {
	t.Helper()
	crewID := domain.CrewMemberID(uuid.New())
	_, err := p.Exec(ctx, `
		INSERT INTO crew_members (id, full_name, nationality, rank)
		VALUES ($1, $2, 'IDN', 'Able Seaman')
	`, uuid.UUID(crewID), "Test Crew "+uuid.NewString())
	if err != nil {
		t.Fatalf("CreateTestCrewMember: %v", err)
	}
	return crewID
}

// CreateTestDocument inserts a test document for the crew member and returns its ID.
// Fails the test if insertion fails.
func (p *PostgresContainer) CreateTestDocument(ctx context.Context, t testing.TB, crewID domain.CrewMemberID, kind, number string, expiry time.Time) domain.DocumentID {
	t.Helper()
	docID := domain.DocumentID(uuid.New())
	_, err := p.Exec(ctx, `
		INSERT INTO documents (id, crew_member_id, kind, number, expiry_date, issuing_country)
		VALUES ($1, $2, $3, $4, $5, 'IDN')
	`, uuid.UUID(docID), uuid.UUID(crewID), kind, number, expiry)
	if err != nil {
		t.Fatalf("CreateTestDocument: %v", err)
	}
	return docID
}
