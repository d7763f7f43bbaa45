// Package httptransport is the thin HTTP layer over the verification,
// compliance, and status engines. Handlers decode, delegate, and translate;
// business logic stays in the domain packages.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"seacrew/internal/compliance"
	"seacrew/internal/extraction/providers"
	"seacrew/internal/platform/middleware"
	"seacrew/internal/status"
	"seacrew/internal/verification"
	"seacrew/pkg/domain"
	dErrors "seacrew/pkg/domain-errors"
	"seacrew/pkg/platform/httputil"
)

// VerificationService reconciles declared documents against scan evidence.
type VerificationService interface {
	Verify(ctx context.Context, req verification.Request) (*verification.Result, error)
	RecordScanAsync(docID domain.DocumentID, data []byte, media providers.MediaType, requestID string)
}

// ComplianceService gates crew lifecycle transitions.
type ComplianceService interface {
	ValidateSignOn(ctx context.Context, crewID domain.CrewMemberID, contractStart time.Time, durationDays int, requestID string) (*compliance.Result, error)
	ValidateExtension(ctx context.Context, contractID domain.ContractID, newEnd time.Time, requestID string) (*compliance.Decision, error)
	CheckSignOff(ctx context.Context, crewID domain.CrewMemberID, atSea bool, requestID string) (*compliance.Decision, error)
}

// Handler holds the services the HTTP surface delegates to.
type Handler struct {
	verifier        VerificationService
	compliance      ComplianceService
	gracePeriodDays int
	logger          *slog.Logger
	now             func() time.Time
}

// NewHandler creates the HTTP handler. gracePeriodDays is the default grace
// period applied when a classify request does not carry its own.
func NewHandler(verifier VerificationService, compliance ComplianceService, gracePeriodDays int, logger *slog.Logger) *Handler {
	return &Handler{
		verifier:        verifier,
		compliance:      compliance,
		gracePeriodDays: gracePeriodDays,
		logger:          logger,
		now:             time.Now,
	}
}

func (h *Handler) handleVerifyDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[VerifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	docID, err := domain.ParseDocumentID(req.DocumentID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.verifier.Verify(ctx, verification.Request{
		DocumentID:   docID,
		FileData:     req.FileData,
		Media:        providers.MediaType(req.Media),
		EditedFields: req.EditedFields,
		RequestID:    requestID,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "verify document failed", "error", err, "request_id", requestID, "document_id", docID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toVerifyResponse(result))
}

// handleRecordScan accepts a document file upload and schedules extraction in
// the background. The 202 goes out before any OCR work starts so upload
// acknowledgment is never gated on provider latency.
func (h *Handler) handleRecordScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	docID, err := domain.ParseDocumentID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[RecordScanRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	h.verifier.RecordScanAsync(docID, req.FileData, providers.MediaType(req.Media), requestID)

	httputil.WriteJSON(w, http.StatusAccepted, &RecordScanResponse{
		DocumentID: docID.String(),
		Status:     "accepted",
	})
}

func (h *Handler) handleClassifyStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ClassifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	var expiry *time.Time
	if req.ExpiryDate != "" {
		t, err := time.Parse("2006-01-02", req.ExpiryDate)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "expiry_date must be YYYY-MM-DD"))
			return
		}
		expiry = &t
	}

	grace := h.gracePeriodDays
	if req.GracePeriodDays != nil {
		grace = *req.GracePeriodDays
	}

	classification := status.Classify(expiry, grace, h.now())
	httputil.WriteJSON(w, http.StatusOK, toClassifyResponse(classification))
}

func (h *Handler) handleSignOn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SignOnRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	crewID, err := domain.ParseCrewMemberID(req.CrewMemberID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	start, _ := time.Parse("2006-01-02", req.ContractStart)

	result, err := h.compliance.ValidateSignOn(ctx, crewID, start, req.DurationDays, requestID)
	if err != nil {
		h.logger.ErrorContext(ctx, "sign-on validation failed", "error", err, "request_id", requestID, "crew_member_id", crewID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toSignOnResponse(result))
}

func (h *Handler) handleExtension(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ExtensionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	contractID, err := domain.ParseContractID(req.ContractID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	newEnd, _ := time.Parse("2006-01-02", req.NewEndDate)

	decision, err := h.compliance.ValidateExtension(ctx, contractID, newEnd, requestID)
	if err != nil {
		h.logger.ErrorContext(ctx, "extension validation failed", "error", err, "request_id", requestID, "contract_id", contractID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toDecisionResponse(decision))
}

func (h *Handler) handleSignOff(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SignOffRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	crewID, err := domain.ParseCrewMemberID(req.CrewMemberID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	decision, err := h.compliance.CheckSignOff(ctx, crewID, req.AtSea, requestID)
	if err != nil {
		h.logger.ErrorContext(ctx, "sign-off check failed", "error", err, "request_id", requestID, "crew_member_id", crewID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toDecisionResponse(decision))
}
