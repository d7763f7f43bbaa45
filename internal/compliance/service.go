package compliance

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"seacrew/internal/audit"
	"seacrew/internal/compliance/metrics"
	"seacrew/internal/fleet"
	"seacrew/pkg/domain"
	pstrings "seacrew/pkg/platform/strings"
)

// Check names used for metrics and audit decisions.
const (
	checkSignOn    = "sign_on"
	checkExtension = "extension"
	checkSignOff   = "sign_off"
)

// Service runs the gating checks against live crew data and records each
// decision on the audit trail.
type Service struct {
	crew            CrewReader
	auditor         AuditPublisher
	metrics         *metrics.Metrics
	logger          *slog.Logger
	now             func() time.Time
	gracePeriodDays int
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

// WithGracePeriod overrides the at-sea sign-off grace period in days.
func WithGracePeriod(days int) Option {
	return func(s *Service) { s.gracePeriodDays = days }
}

// DefaultGracePeriodDays is the at-sea sign-off grace period.
const DefaultGracePeriodDays = 7

// New creates a compliance service with required dependencies.
// Panics if required dependencies are nil - fail fast at startup.
func New(crew CrewReader, auditor AuditPublisher, opts ...Option) *Service {
	if crew == nil {
		panic("compliance.New: crew reader is required")
	}
	if auditor == nil {
		panic("compliance.New: auditor is required for the compliance trail")
	}

	s := &Service{
		crew:            crew,
		auditor:         auditor,
		logger:          slog.Default(),
		now:             time.Now,
		gracePeriodDays: DefaultGracePeriodDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateSignOn gates a crew member joining a vessel for a contract window.
func (s *Service) ValidateSignOn(ctx context.Context, crewID domain.CrewMemberID, contractStart time.Time, durationDays int, requestID string) (*Result, error) {
	start := s.now()

	member, docs, err := s.loadCrew(ctx, crewID)
	if err != nil {
		return nil, err
	}

	result := EvaluateSignOn(member, docs, contractStart, durationDays, s.now())

	outcome := "allowed"
	if !result.IsValid {
		outcome = "blocked"
	}
	s.metrics.RecordCheck(checkSignOn, outcome, s.now().Sub(start).Seconds())
	for _, issue := range result.Blockers {
		s.metrics.RecordBlocker(string(issue.Code), string(issue.Kind))
	}
	for _, issue := range result.Warnings {
		s.metrics.RecordWarning(string(issue.Code), string(issue.Kind))
	}

	s.emit(ctx, audit.Event{
		Category:     audit.CategoryCompliance,
		Action:       audit.ActionSignOnEvaluated,
		Decision:     outcome,
		Reason:       firstReason(result.Blockers, result.Warnings),
		CrewMemberID: &crewID,
		RequestID:    requestID,
		Details: map[string]string{
			"blockers": issueCodes(result.Blockers),
			"warnings": issueCodes(result.Warnings),
		},
	})
	return &result, nil
}

// ValidateExtension gates extending a contract to a new end date.
func (s *Service) ValidateExtension(ctx context.Context, contractID domain.ContractID, newEnd time.Time, requestID string) (*Decision, error) {
	start := s.now()

	contract, err := s.crew.FindContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	member, docs, err := s.loadCrew(ctx, contract.CrewMemberID)
	if err != nil {
		return nil, err
	}

	decision := EvaluateExtension(member, docs, newEnd, s.now())
	s.recordDecision(checkExtension, decision, start)

	crewID := contract.CrewMemberID
	s.emit(ctx, audit.Event{
		Category:     audit.CategoryCompliance,
		Action:       audit.ActionExtensionEvaluated,
		Decision:     decisionOutcome(decision),
		Reason:       decision.Reason,
		CrewMemberID: &crewID,
		ContractID:   &contractID,
		RequestID:    requestID,
		Details: map[string]string{
			"new_end":  domain.Midnight(newEnd).Format("2006-01-02"),
			"severity": string(decision.Severity),
		},
	})
	return &decision, nil
}

// CheckSignOff decides whether a serving crew member must be signed off.
// Whether the vessel is at sea comes from the caller; this engine has no
// access to vessel movement data.
func (s *Service) CheckSignOff(ctx context.Context, crewID domain.CrewMemberID, atSea bool, requestID string) (*Decision, error) {
	start := s.now()

	member, docs, err := s.loadCrew(ctx, crewID)
	if err != nil {
		return nil, err
	}

	decision := EvaluateSignOff(member, docs, atSea, s.gracePeriodDays, s.now())
	s.recordDecision(checkSignOff, decision, start)
	if decision.GracePeriodAvailable {
		s.metrics.RecordWarning(string(IssueGracePeriodActive), string(decision.Kind))
	}

	s.emit(ctx, audit.Event{
		Category:     audit.CategoryCompliance,
		Action:       audit.ActionSignOffEvaluated,
		Decision:     decisionOutcome(decision),
		Reason:       decision.Reason,
		CrewMemberID: &crewID,
		RequestID:    requestID,
		Details: map[string]string{
			"at_sea":                 boolString(atSea),
			"severity":               string(decision.Severity),
			"grace_period_available": boolString(decision.GracePeriodAvailable),
		},
	})
	return &decision, nil
}

// loadCrew fetches the member and their documents in parallel.
func (s *Service) loadCrew(ctx context.Context, crewID domain.CrewMemberID) (*fleet.CrewMember, []*fleet.Document, error) {
	var (
		member *fleet.CrewMember
		docs   []*fleet.Document
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := s.crew.FindCrewMember(ctx, crewID)
		member = m
		return err
	})
	g.Go(func() error {
		d, err := s.crew.ListDocumentsByCrewMember(ctx, crewID)
		docs = d
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return member, docs, nil
}

func (s *Service) recordDecision(check string, decision Decision, start time.Time) {
	s.metrics.RecordCheck(check, decisionOutcome(decision), s.now().Sub(start).Seconds())
	if !decision.Allowed && decision.Severity == SeverityError {
		s.metrics.RecordBlocker(string(decision.Code), string(decision.Kind))
	}
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit compliance audit event",
			"action", event.Action,
			"error", err,
		)
	}
}

func decisionOutcome(d Decision) string {
	if d.Allowed {
		return "allowed"
	}
	return "blocked"
}

func firstReason(blockers, warnings []Issue) string {
	if len(blockers) > 0 {
		return blockers[0].Detail
	}
	if len(warnings) > 0 {
		return warnings[0].Detail
	}
	return ""
}

// issueCodes renders the distinct codes for audit metadata. A member missing
// three documents raises the same code three times; once is enough here.
func issueCodes(issues []Issue) string {
	codes := make([]string, 0, len(issues))
	for _, issue := range issues {
		codes = append(codes, string(issue.Code))
	}
	return strings.Join(pstrings.DedupeAndTrim(codes), ",")
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
