package scantruth

import (
	"context"

	"seacrew/internal/sentinel"
	"seacrew/pkg/domain"
	domerrors "seacrew/pkg/domain-errors"
)

// Store-level sentinels. Implementations return these (wrapped or not) so
// the service layer can translate them exactly once.
var (
	// ErrNotFound means the document has no scan history at all.
	ErrNotFound = domerrors.Wrap(sentinel.ErrNotFound, domerrors.CodeNotFound, "no scan records for document")

	// ErrAlreadySuperseded means the record targeted for supersession was
	// closed out by a concurrent writer. The caller lost the race; the
	// winning record is the truth.
	ErrAlreadySuperseded = domerrors.Wrap(sentinel.ErrSuperseded, domerrors.CodeConflict, "scan record already superseded")
)

// Store persists scan records with supersession semantics.
//
// Implementations must guarantee that, per document, at most one record has
// a nil SupersededAt at any observable moment, including under concurrent
// RecordScan calls for the same document.
type Store interface {
	// RecordScan appends a new scan record for its document and closes out
	// the previously active record, if any, stamping it with the new
	// record's ID and timestamp. The new record becomes the active scan.
	RecordScan(ctx context.Context, record *ScanRecord) error

	// ActiveScan returns the document's current (non-superseded) record.
	// Errors: ErrNotFound when the document has no scan history.
	ActiveScan(ctx context.Context, docID domain.DocumentID) (*ScanRecord, error)

	// History returns all records for a document, oldest first. The last
	// element is the active record. Returns an empty slice, not an error,
	// for unknown documents.
	History(ctx context.Context, docID domain.DocumentID) ([]*ScanRecord, error)
}
