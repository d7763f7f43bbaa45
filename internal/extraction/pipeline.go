package extraction

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"seacrew/internal/extraction/metrics"
	"seacrew/internal/extraction/providers"
	"seacrew/internal/extraction/tracer"
	domerrors "seacrew/pkg/domain-errors"
	"seacrew/pkg/platform/circuit"
)

// defaultProviderTimeout bounds a single provider call, not the whole
// pipeline run. The caller's context still applies across the chain.
const defaultProviderTimeout = 15 * time.Second

// Pipeline orchestrates OCR providers with media-aware ordering and fallback.
//
// Ordering policy:
//   - PDF inputs prefer the full tier (layout-aware engines), then fast.
//   - Image inputs prefer the fast tier, then full.
//   - The offline tier is always last and terminal: its results are marked
//     Degraded and it never errors, so a chain that reaches it still yields
//     a (possibly empty) field set.
//
// A ProviderError from one provider triggers fallback to the next; only a
// chain with no usable output at all surfaces as an extraction failure.
//
// Networked providers run behind a circuit breaker. A provider whose circuit
// is open is skipped outright rather than burning its timeout on a dependency
// known to be down; the offline tier never trips and keeps the chain terminal.
type Pipeline struct {
	providers   []providers.Provider
	breakers    map[string]*circuit.Breaker
	breakerOpts []circuit.Option
	rules       []CorrectionRule
	timeout     time.Duration
	metrics     *metrics.Metrics
	tracer      tracer.Tracer
	logger      *slog.Logger
}

// Option configures the Pipeline.
type Option func(*Pipeline)

// WithMetrics attaches Prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithTracer attaches a tracer. Defaults to the no-op tracer.
func WithTracer(t tracer.Tracer) Option {
	return func(p *Pipeline) { p.tracer = t }
}

// WithLogger attaches a structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithCorrectionRules overrides the default misread correction rules.
func WithCorrectionRules(rules []CorrectionRule) Option {
	return func(p *Pipeline) { p.rules = rules }
}

// WithProviderTimeout bounds each individual provider call.
func WithProviderTimeout(d time.Duration) Option {
	return func(p *Pipeline) { p.timeout = d }
}

// WithBreakerOptions configures the circuit breakers guarding networked
// providers.
func WithBreakerOptions(opts ...circuit.Option) Option {
	return func(p *Pipeline) { p.breakerOpts = opts }
}

// NewPipeline creates an extraction pipeline over the given providers.
// Panics if no providers are supplied; a pipeline with nothing to call is a
// wiring bug, not a runtime condition.
func NewPipeline(provs []providers.Provider, opts ...Option) *Pipeline {
	if len(provs) == 0 {
		panic("extraction: NewPipeline requires at least one provider")
	}

	p := &Pipeline{
		providers: provs,
		rules:     DefaultCorrectionRules(),
		timeout:   defaultProviderTimeout,
		tracer:    tracer.NewNoop(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.breakers = make(map[string]*circuit.Breaker)
	for _, prov := range provs {
		if prov.Capabilities().Networked {
			p.breakers[prov.ID()] = circuit.New(prov.ID(), p.breakerOpts...)
		}
	}
	return p
}

// Extract runs the provider chain over one document file and returns the
// normalized field set.
//
// Errors:
//   - CodeExtractionUnavailable when no registered provider supports the
//     input media type.
//   - CodeExtractionFailed when every supporting provider failed.
func (p *Pipeline) Extract(ctx context.Context, in providers.Input) (*Result, error) {
	ctx, span := p.tracer.Start(ctx, tracer.SpanExtract,
		tracer.String(tracer.AttrMediaType, string(in.Media)),
		tracer.String(tracer.AttrDocumentKind, string(in.Kind)),
	)

	chain := p.orderedFor(in.Media)
	if len(chain) == 0 {
		err := domerrors.Wrap(providers.ErrNoProvidersAvailable, domerrors.CodeExtractionUnavailable,
			"no provider supports media type "+string(in.Media))
		p.metrics.RecordExtraction(string(in.Kind), "unavailable", false)
		span.End(err)
		return nil, err
	}

	var lastErr error
	for i, prov := range chain {
		if br := p.breakers[prov.ID()]; br != nil && !br.Allow() {
			p.metrics.RecordBreakerSkip(prov.ID())
			p.logger.WarnContext(ctx, "skipping provider, circuit open",
				"provider", prov.ID(),
			)
			continue
		}

		raw, err := p.callProvider(ctx, prov, in)
		if err != nil {
			lastErr = err
			if i < len(chain)-1 {
				p.metrics.RecordFallback(prov.ID())
				span.AddEvent(tracer.EventProviderFallback,
					tracer.String(tracer.AttrProviderID, prov.ID()),
				)
			}
			p.logger.WarnContext(ctx, "provider failed, falling back",
				"provider", prov.ID(),
				"category", string(providers.GetCategory(err)),
				"error", err,
			)
			continue
		}

		result := p.assemble(ctx, prov, raw, in, span)
		p.metrics.RecordExtraction(string(in.Kind), "success", result.Degraded)
		span.SetAttributes(
			tracer.String(tracer.AttrProviderID, result.ProviderID),
			tracer.Bool(tracer.AttrDegraded, result.Degraded),
			tracer.Float64(tracer.AttrConfidence, result.Fields.Confidence),
			tracer.Int64(tracer.AttrCorrections, int64(len(result.Corrections))),
		)
		span.End(nil)
		return result, nil
	}

	err := domerrors.Wrap(lastErr, domerrors.CodeExtractionFailed, "all extraction providers failed")
	p.metrics.RecordExtraction(string(in.Kind), "failed", false)
	span.End(err)
	return nil, err
}

// callProvider invokes one provider under its own timeout and records metrics.
func (p *Pipeline) callProvider(ctx context.Context, prov providers.Provider, in providers.Input) (*providers.RawExtraction, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	ctx, span := p.tracer.Start(ctx, tracer.SpanProviderCall,
		tracer.String(tracer.AttrProviderID, prov.ID()),
		tracer.String(tracer.AttrProviderTier, prov.Capabilities().Tier.String()),
	)

	start := time.Now()
	raw, err := prov.Extract(ctx, in)
	elapsed := time.Since(start).Seconds()

	br := p.breakers[prov.ID()]

	if err != nil {
		p.metrics.RecordProviderCall(prov.ID(), "error", elapsed)
		p.metrics.RecordProviderError(prov.ID(), string(providers.GetCategory(err)))
		if br != nil {
			if change := br.RecordFailure(); change.Opened {
				p.logger.WarnContext(ctx, "provider circuit opened",
					"provider", prov.ID(),
				)
			}
		}
		span.End(err)
		return nil, err
	}

	p.metrics.RecordProviderCall(prov.ID(), "success", elapsed)
	if br != nil {
		if change := br.RecordSuccess(); change.Closed {
			p.logger.InfoContext(ctx, "provider circuit closed",
				"provider", prov.ID(),
			)
		}
	}
	span.End(nil)
	return raw, nil
}

// assemble normalizes a raw provider result into the pipeline output.
func (p *Pipeline) assemble(ctx context.Context, prov providers.Provider, raw *providers.RawExtraction, in providers.Input, span tracer.Span) *Result {
	fields := FieldSet{
		Kind:       in.Kind,
		Number:     strings.TrimSpace(raw.Number),
		HolderName: strings.TrimSpace(raw.HolderName),
		Confidence: raw.Confidence,
	}
	if t, ok := parseDocumentDate(raw.IssueDate); ok {
		fields.IssueDate = &t
	}
	if t, ok := parseDocumentDate(raw.ExpiryDate); ok {
		fields.ExpiryDate = &t
	}

	if in.Kind.HasMRZ() && raw.MRZLine1 != "" && raw.MRZLine2 != "" {
		mrz, err := ParseMRZ(raw.MRZLine1, raw.MRZLine2)
		if err != nil {
			p.metrics.RecordMRZChecksumError()
			p.logger.WarnContext(ctx, "discarding unparseable mrz",
				"provider", prov.ID(),
				"error", err,
			)
		} else {
			fields.MRZ = mrz
			fillFromMRZ(&fields, mrz)
		}
	}

	corrections := applyCorrections(&fields, in, p.rules)
	for _, c := range corrections {
		source := "heuristic"
		if c.MRZConfirmed {
			source = "mrz"
		}
		p.metrics.RecordCorrection(c.Field, source)
		span.AddEvent(tracer.EventCorrectionApplied,
			tracer.String("field", c.Field),
			tracer.String("source", source),
		)
	}

	return &Result{
		Fields:      fields,
		ProviderID:  prov.ID(),
		Degraded:    prov.Capabilities().Tier == providers.TierOffline,
		Corrections: corrections,
	}
}

// orderedFor filters the providers to those supporting the media type and
// sorts them by media-aware tier preference. Registration order breaks ties.
func (p *Pipeline) orderedFor(media providers.MediaType) []providers.Provider {
	supported := make([]providers.Provider, 0, len(p.providers))
	for _, prov := range p.providers {
		if prov.Capabilities().Supports(media) {
			supported = append(supported, prov)
		}
	}

	rank := func(t providers.Tier) int {
		switch t {
		case providers.TierOffline:
			return 2
		case providers.TierFull:
			if media == providers.MediaPDF {
				return 0
			}
			return 1
		case providers.TierFast:
			if media == providers.MediaPDF {
				return 1
			}
			return 0
		}
		return 3
	}

	sort.SliceStable(supported, func(i, j int) bool {
		return rank(supported[i].Capabilities().Tier) < rank(supported[j].Capabilities().Tier)
	})
	return supported
}

// fillFromMRZ backfills fields the visual read missed from the parsed MRZ.
// Existing visual values are left alone; reconciling disagreements is the
// correction rules' job, not a blanket overwrite.
func fillFromMRZ(fields *FieldSet, mrz *MRZ) {
	if fields.Number == "" {
		fields.Number = mrz.DocumentNumber
	}
	if fields.HolderName == "" {
		fields.HolderName = mrz.HolderName
	}
	if fields.ExpiryDate == nil && mrz.ExpiryDate != nil {
		fields.ExpiryDate = mrz.ExpiryDate
	}
}

// documentDateLayouts covers the date formats providers emit. ISO first;
// the remainder show up in scanned laminate text.
var documentDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02 Jan 2006",
	"02/01/2006",
}

func parseDocumentDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range documentDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
