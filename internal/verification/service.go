package verification

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"seacrew/internal/audit"
	"seacrew/internal/extraction"
	"seacrew/internal/extraction/providers"
	"seacrew/internal/fleet"
	"seacrew/internal/platform/privacy"
	"seacrew/internal/scantruth"
	"seacrew/internal/verification/metrics"
	"seacrew/pkg/domain"
	domerrors "seacrew/pkg/domain-errors"
)

// gatherTimeout bounds the parallel evidence gathering phase.
const gatherTimeout = 30 * time.Second

// Service reconciles declared document data against scan evidence.
type Service struct {
	documents DocumentReader
	scans     ScanStore
	extractor Extractor
	auditor   AuditPublisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithMetrics sets the metrics collector for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the logger for the service.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock overrides the timestamp source for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a verification service with required dependencies.
// Panics if required dependencies are nil - fail fast at startup.
func New(documents DocumentReader, scans ScanStore, extractor Extractor, auditor AuditPublisher, opts ...Option) *Service {
	if documents == nil {
		panic("verification.New: document reader is required")
	}
	if scans == nil {
		panic("verification.New: scan store is required")
	}
	if extractor == nil {
		panic("verification.New: extractor is required")
	}
	if auditor == nil {
		panic("verification.New: auditor is required for the compliance trail")
	}

	s := &Service{
		documents: documents,
		scans:     scans,
		extractor: extractor,
		auditor:   auditor,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// gatheredEvidence holds results from the parallel gather phase. Each
// goroutine writes to its own field, avoiding data races.
type gatheredEvidence struct {
	crew       *fleet.CrewMember
	duplicates []*fleet.Document
}

// Verify reconciles the declared document against scan evidence.
//
// Evidence selection: a request carrying file data gets a fresh extraction,
// which is also recorded as the document's new active scan. Otherwise the
// cached active scan is used. When the request names its edited fields,
// untouched fields keep comparing against the prior active scan so a new
// upload cannot wash out the shadow-truth cross-check. A document with no
// evidence at all yields an invalid result with a warning, not an error;
// absence of evidence is a verdict.
//
// Errors: CodeNotFound when the document or its crew member does not exist;
// store faults pass through wrapped.
func (s *Service) Verify(ctx context.Context, req Request) (*Result, error) {
	start := s.now()

	doc, err := s.documents.FindDocument(ctx, req.DocumentID)
	if err != nil {
		return nil, err
	}

	ev, evidenceWarning, err := s.obtainEvidence(ctx, doc, req)
	if err != nil {
		return nil, err
	}

	gathered, err := s.gatherContext(ctx, doc)
	if err != nil {
		return nil, err
	}

	result := &Result{
		DocumentID:     req.DocumentID,
		EvidenceSource: ev.source,
		Degraded:       ev.degraded,
	}
	if evidenceWarning != "" {
		result.Warnings = append(result.Warnings, evidenceWarning)
	}

	// Only another crew member's claim on the number is a conflict. The same
	// member's retained older records share the number legitimately; nothing
	// is ever hard-deleted.
	for _, dup := range gathered.duplicates {
		if dup.ID == doc.ID || dup.CrewMemberID == doc.CrewMemberID {
			continue
		}
		result.DuplicateOf = append(result.DuplicateOf, dup.ID)
	}
	if len(result.DuplicateOf) > 0 {
		s.metrics.RecordDuplicate()
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"document number %s is already claimed by another crew member on %d document(s)",
			privacy.MaskDocumentNumber(doc.Number), len(result.DuplicateOf),
		))
	}

	if ev.primary != nil {
		result.Comparisons = s.compare(doc, gathered.crew, ev, editedSet(req.EditedFields))
		result.MatchScore = scoreComparisons(result.Comparisons)
		if ev.degraded {
			result.Warnings = append(result.Warnings, "evidence produced by offline extraction tier")
		}
		for _, c := range result.Comparisons {
			if !c.Match {
				s.metrics.RecordFieldMismatch(c.Field)
			}
			if c.Evidence == "" {
				result.Warnings = append(result.Warnings, fmt.Sprintf("field %s not extractable from scan", c.Field))
			}
		}
	}

	result.IsValid = s.verdict(result, ev.primary)

	outcome := "valid"
	switch {
	case ev.primary == nil:
		outcome = "no_evidence"
	case !result.IsValid:
		outcome = "invalid"
	}
	s.metrics.RecordVerification(outcome, result.MatchScore, s.now().Sub(start).Seconds())
	if ev.source != "" {
		s.metrics.RecordEvidenceSource(ev.source)
	}

	s.emitVerified(ctx, doc, result, outcome, req.RequestID)
	return result, nil
}

// evidenceSet is what the comparison phase works against: the primary
// evidence plus, during a partial edit with a fresh upload, the prior
// active scan for the fields the caller did not touch.
type evidenceSet struct {
	primary  *extraction.FieldSet
	source   string
	degraded bool
	cached   *extraction.FieldSet
}

// pick returns the field set and source label one comparison should use.
// Edited fields and fields the prior scan could not provide fall through
// to the primary evidence.
func (ev *evidenceSet) pick(field string, edited map[string]bool) (*extraction.FieldSet, string) {
	if ev.cached == nil || edited[field] || !hasField(ev.cached, field) {
		return ev.primary, ev.source
	}
	return ev.cached, SourceCachedScan
}

func hasField(fields *extraction.FieldSet, field string) bool {
	switch field {
	case FieldDocumentNumber:
		return fields.Number != ""
	case FieldExpiryDate:
		return fields.ExpiryDate != nil
	case FieldIssueDate:
		return fields.IssueDate != nil
	case FieldHolderName:
		return fields.HolderName != ""
	}
	return false
}

// editedSet normalizes the request's edited-field names. An empty input
// yields nil, which pick treats as "everything edited".
func editedSet(fields []string) map[string]bool {
	if len(fields) == 0 {
		return nil
	}
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[strings.TrimSpace(f)] = true
	}
	return set
}

// obtainEvidence selects or produces the scan evidence for a verification.
func (s *Service) obtainEvidence(ctx context.Context, doc *fleet.Document, req Request) (ev *evidenceSet, warning string, err error) {
	if len(req.FileData) > 0 {
		// During a partial edit the prior active scan stays around as the
		// cross-check for untouched fields, so it has to be read before
		// the fresh extraction supersedes it.
		var prior *extraction.FieldSet
		if len(req.EditedFields) > 0 {
			scan, scanErr := s.scans.ActiveScan(ctx, doc.ID)
			switch {
			case scanErr == nil:
				prior = &scan.Fields
			case !domerrors.HasCode(scanErr, domerrors.CodeNotFound):
				return nil, "", scanErr
			}
		}

		extracted, extractErr := s.extractor.Extract(ctx, providers.Input{
			Data:             req.FileData,
			Media:            req.Media,
			Kind:             doc.Kind,
			JurisdictionHint: doc.IssuingCountry,
		})
		if extractErr != nil {
			if domerrors.HasCode(extractErr, domerrors.CodeExtractionFailed) ||
				domerrors.HasCode(extractErr, domerrors.CodeExtractionUnavailable) {
				// Terminal extraction failure is a verdict, not an error.
				return &evidenceSet{}, "scan extraction failed; document cannot be verified", nil
			}
			return nil, "", extractErr
		}

		if recordErr := s.recordScan(ctx, doc, extracted, req.RequestID); recordErr != nil {
			s.logger.WarnContext(ctx, "failed to record fresh scan",
				"document_id", doc.ID,
				"error", recordErr,
			)
		}
		return &evidenceSet{
			primary:  &extracted.Fields,
			source:   SourceFreshScan,
			degraded: extracted.Degraded,
			cached:   prior,
		}, "", nil
	}

	scan, scanErr := s.scans.ActiveScan(ctx, doc.ID)
	if scanErr != nil {
		if domerrors.HasCode(scanErr, domerrors.CodeNotFound) {
			return &evidenceSet{}, "no scan evidence on record for this document", nil
		}
		return nil, "", scanErr
	}
	return &evidenceSet{
		primary:  &scan.Fields,
		source:   SourceCachedScan,
		degraded: scan.Degraded,
	}, "", nil
}

// gatherContext fetches the crew member and duplicate candidates in parallel.
func (s *Service) gatherContext(ctx context.Context, doc *fleet.Document) (*gatheredEvidence, error) {
	ctx, cancel := context.WithTimeout(ctx, gatherTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	gathered := &gatheredEvidence{}

	g.Go(func() error {
		crew, err := s.documents.FindCrewMember(ctx, doc.CrewMemberID)
		if err != nil {
			return err
		}
		gathered.crew = crew
		return nil
	})

	g.Go(func() error {
		if !doc.Kind.IndividuallyIssued() || doc.Number == "" {
			return nil
		}
		dups, err := s.documents.FindDocumentsByNumber(ctx, doc.Kind, doc.Number)
		if err != nil {
			return err
		}
		gathered.duplicates = dups
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return gathered, nil
}

// compare builds the field-by-field comparison set, choosing fresh or
// cached evidence per field via pick. Fields the evidence could not
// provide keep an empty Evidence value and are excluded from scoring by
// scoreComparisons.
func (s *Service) compare(doc *fleet.Document, crew *fleet.CrewMember, ev *evidenceSet, edited map[string]bool) []FieldComparison {
	comparisons := make([]FieldComparison, 0, 4)

	fields, source := ev.pick(FieldDocumentNumber, edited)
	comparisons = append(comparisons, FieldComparison{
		Field:    FieldDocumentNumber,
		Claimed:  doc.Number,
		Evidence: fields.Number,
		Source:   source,
		Match:    fields.Number != "" && normalizeNumber(doc.Number) == normalizeNumber(fields.Number),
		Blocking: true,
	})

	fields, source = ev.pick(FieldExpiryDate, edited)
	comparisons = append(comparisons, FieldComparison{
		Field:    FieldExpiryDate,
		Claimed:  formatDate(doc.ExpiryDate),
		Evidence: formatDate(fields.ExpiryDate),
		Source:   source,
		Match:    datesMatch(doc.ExpiryDate, fields.ExpiryDate),
		Blocking: true,
	})

	fields, source = ev.pick(FieldIssueDate, edited)
	comparisons = append(comparisons, FieldComparison{
		Field:    FieldIssueDate,
		Claimed:  formatDate(doc.IssueDate),
		Evidence: formatDate(fields.IssueDate),
		Source:   source,
		Match:    datesMatch(doc.IssueDate, fields.IssueDate),
	})

	fields, source = ev.pick(FieldHolderName, edited)
	comparisons = append(comparisons, FieldComparison{
		Field:    FieldHolderName,
		Claimed:  crew.FullName,
		Evidence: fields.HolderName,
		Source:   source,
		Match:    fields.HolderName != "" && namesMatch(crew.FullName, fields.HolderName),
	})

	return comparisons
}

// verdict decides validity: blocking mismatches, duplicate numbers, and
// missing evidence all invalidate.
func (s *Service) verdict(result *Result, evidence *extraction.FieldSet) bool {
	if evidence == nil {
		return false
	}
	if len(result.DuplicateOf) > 0 {
		return false
	}
	for _, c := range result.Comparisons {
		if c.Blocking && c.Evidence != "" && !c.Match {
			return false
		}
	}
	return true
}

// recordScan persists a fresh extraction as the new active scan.
func (s *Service) recordScan(ctx context.Context, doc *fleet.Document, extracted *extraction.Result, requestID string) error {
	record := &scantruth.ScanRecord{
		ID:         domain.NewScanID(),
		DocumentID: doc.ID,
		Fields:     extracted.Fields,
		ProviderID: extracted.ProviderID,
		Degraded:   extracted.Degraded,
		RecordedAt: s.now(),
	}
	if err := s.scans.RecordScan(ctx, record); err != nil {
		return err
	}

	docID := doc.ID
	crewID := doc.CrewMemberID
	_ = s.auditor.Emit(ctx, audit.Event{
		Category:     audit.CategoryExtraction,
		Action:       audit.ActionScanRecorded,
		DocumentID:   &docID,
		CrewMemberID: &crewID,
		RequestID:    requestID,
		Details: map[string]string{
			"provider": extracted.ProviderID,
			"degraded": fmt.Sprintf("%t", extracted.Degraded),
			"number":   privacy.MaskDocumentNumber(extracted.Fields.Number),
		},
	})
	return nil
}

// RecordScanAsync runs extraction and scan recording in the background.
// Used by upload endpoints that must return before OCR completes. The
// passed context's values are not reused; the background work gets its own
// deadline detached from the request.
func (s *Service) RecordScanAsync(docID domain.DocumentID, data []byte, media providers.MediaType, requestID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), gatherTimeout)
		defer cancel()

		doc, err := s.documents.FindDocument(ctx, docID)
		if err != nil {
			s.metrics.RecordAsyncScan("document_not_found")
			s.logger.Warn("async scan: document lookup failed", "document_id", docID, "error", err)
			return
		}

		extracted, err := s.extractor.Extract(ctx, providers.Input{
			Data:             data,
			Media:            media,
			Kind:             doc.Kind,
			JurisdictionHint: doc.IssuingCountry,
		})
		if err != nil {
			s.metrics.RecordAsyncScan("extraction_failed")
			s.logger.Warn("async scan: extraction failed", "document_id", docID, "error", err)
			return
		}

		if err := s.recordScan(ctx, doc, extracted, requestID); err != nil {
			s.metrics.RecordAsyncScan("record_failed")
			s.logger.Warn("async scan: record failed", "document_id", docID, "error", err)
			return
		}
		s.metrics.RecordAsyncScan("success")
	}()
}

func (s *Service) emitVerified(ctx context.Context, doc *fleet.Document, result *Result, outcome, requestID string) {
	docID := doc.ID
	crewID := doc.CrewMemberID
	_ = s.auditor.Emit(ctx, audit.Event{
		Category:     audit.CategoryVerification,
		Action:       audit.ActionDocumentVerified,
		Decision:     outcome,
		DocumentID:   &docID,
		CrewMemberID: &crewID,
		RequestID:    requestID,
		Details: map[string]string{
			"match_score": fmt.Sprintf("%.1f", result.MatchScore),
			"source":      result.EvidenceSource,
			"number":      privacy.MaskDocumentNumber(doc.Number),
		},
	})
}

// scoreComparisons computes matched over performed, excluding comparisons
// whose evidence value is absent.
func scoreComparisons(comparisons []FieldComparison) float64 {
	performed := 0
	matched := 0
	for _, c := range comparisons {
		if c.Evidence == "" {
			continue
		}
		performed++
		if c.Match {
			matched++
		}
	}
	if performed == 0 {
		return 0
	}
	return float64(matched) / float64(performed) * 100
}

func normalizeNumber(number string) string {
	return strings.ToUpper(strings.TrimSpace(number))
}

// namesMatch compares names after case folding and whitespace collapse.
// MRZ names arrive fully uppercased, so exact-case comparison is useless.
func namesMatch(a, b string) bool {
	return foldName(a) == foldName(b)
}

func foldName(name string) string {
	return strings.Join(strings.Fields(strings.ToUpper(name)), " ")
}

func datesMatch(claimed, evidence *time.Time) bool {
	if claimed == nil || evidence == nil {
		return false
	}
	return domain.SameDay(claimed.UTC(), evidence.UTC())
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
