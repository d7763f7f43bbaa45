//go:build integration

package scantruth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"seacrew/internal/extraction"
	"seacrew/internal/scantruth"
	"seacrew/pkg/domain"
	"seacrew/pkg/testutil"
	"seacrew/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *scantruth.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = scantruth.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "scan_records")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) newRecord(docID domain.DocumentID) *scantruth.ScanRecord {
	expiry := time.Date(2030, 5, 20, 0, 0, 0, 0, time.UTC)
	return &scantruth.ScanRecord{
		ID:         domain.NewScanID(),
		DocumentID: docID,
		Fields: extraction.FieldSet{
			Kind:       domain.KindPassport,
			Number:     "U1234567",
			ExpiryDate: &expiry,
			HolderName: "MARIA SILVA",
			Confidence: 0.9,
		},
		ProviderID: "deepscan-v1",
		RecordedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func (s *PostgresStoreSuite) TestRecordAndActiveScan() {
	ctx := context.Background()
	docID := domain.DocumentID(uuid.New())

	record := s.newRecord(docID)
	s.Require().NoError(s.store.RecordScan(ctx, record))

	active, err := s.store.ActiveScan(ctx, docID)
	s.Require().NoError(err)
	s.Equal(record.ID, active.ID)
	s.True(active.Active())
	s.Equal("U1234567", active.Fields.Number)
}

func (s *PostgresStoreSuite) TestActiveScanUnknownDocument() {
	_, err := s.store.ActiveScan(context.Background(), domain.DocumentID(uuid.New()))
	s.ErrorIs(err, scantruth.ErrNotFound)
}

func (s *PostgresStoreSuite) TestSupersessionChain() {
	ctx := context.Background()
	docID := domain.DocumentID(uuid.New())

	const n = 4
	ids := make([]domain.ScanID, 0, n)
	for i := 0; i < n; i++ {
		record := s.newRecord(docID)
		record.RecordedAt = record.RecordedAt.Add(time.Duration(i) * time.Second)
		s.Require().NoError(s.store.RecordScan(ctx, record))
		ids = append(ids, record.ID)
	}

	history, err := s.store.History(ctx, docID)
	s.Require().NoError(err)
	s.Require().Len(history, n)

	for i, record := range history {
		s.Equal(ids[i], record.ID)
		if i < n-1 {
			s.Require().NotNil(record.SupersededAt)
			s.Require().NotNil(record.SupersededBy)
			s.Equal(ids[i+1], *record.SupersededBy)
		} else {
			s.True(record.Active())
		}
	}
}

func (s *PostgresStoreSuite) TestMRZRoundTrip() {
	ctx := context.Background()
	docID := domain.DocumentID(uuid.New())

	record := s.newRecord(docID)
	mrz, err := extraction.ParseMRZ(
		"P<IDNSILVA<<MARIA<<<<<<<<<<<<<<<<<<<<<<<<<<<",
		"U1234567<6IDN9001011F3005202<<<<<<<<<<<<<<00",
	)
	s.Require().NoError(err)
	record.Fields.MRZ = mrz
	s.Require().NoError(s.store.RecordScan(ctx, record))

	active, err := s.store.ActiveScan(ctx, docID)
	s.Require().NoError(err)
	s.Require().NotNil(active.Fields.MRZ)
	s.Equal("U1234567", active.Fields.MRZ.DocumentNumber)
	s.Equal("IDN", active.Fields.MRZ.Nationality)
}

func (s *PostgresStoreSuite) TestConcurrentScansSingleActive() {
	ctx := context.Background()
	docID := domain.DocumentID(uuid.New())

	const writers = 16
	result := testutil.RunConcurrent(writers, func(idx int) error {
		return s.store.RecordScan(ctx, s.newRecord(docID))
	})

	// Some writers may lose the supersession race; that is the invariant
	// doing its job. Every operation must either succeed or report the
	// conflict, never fail some other way.
	s.Equal(int32(0), result.Errors)
	s.Equal(int32(writers), result.Successes+result.Superseded)

	var activeCount int
	err := s.postgres.QueryRow(ctx,
		`SELECT COUNT(*) FROM scan_records WHERE document_id = $1 AND superseded_at IS NULL`,
		uuid.UUID(docID),
	).Scan(&activeCount)
	s.Require().NoError(err)
	s.Equal(1, activeCount)
}
