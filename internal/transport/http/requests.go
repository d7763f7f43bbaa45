package httptransport

import (
	"strings"
	"time"

	"seacrew/internal/verification"
	dErrors "seacrew/pkg/domain-errors"
	pstrings "seacrew/pkg/platform/strings"
	"seacrew/pkg/platform/validation"
)

// HTTP request DTOs. JSON tags live here; these are converted to domain
// inputs before any service call. FileData fields are base64 in the JSON
// body (encoding/json's []byte convention).

// VerifyRequest asks for one document verification. FileData is optional:
// when present the document is re-extracted, otherwise the cached active
// scan serves as evidence.
type VerifyRequest struct {
	DocumentID string `json:"document_id"`
	FileData   []byte `json:"file_data,omitempty"`
	Media      string `json:"media_type,omitempty"`

	// EditedFields names the fields the caller is changing in this request.
	// Untouched fields keep comparing against the prior active scan even
	// when a new file is uploaded.
	EditedFields []string `json:"edited_fields,omitempty"`
}

func (r *VerifyRequest) Normalize() {
	if r == nil {
		return
	}
	r.DocumentID = strings.TrimSpace(r.DocumentID)
	r.Media = strings.ToLower(strings.TrimSpace(r.Media))
	r.EditedFields = pstrings.DedupeAndTrim(r.EditedFields)
}

func (r *VerifyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.DocumentID == "" {
		return dErrors.New(dErrors.CodeValidation, "document_id is required")
	}
	if err := validation.CheckStringLength("document_id", r.DocumentID, validation.MaxIDLength); err != nil {
		return err
	}
	for _, f := range r.EditedFields {
		switch f {
		case verification.FieldDocumentNumber, verification.FieldExpiryDate,
			verification.FieldIssueDate, verification.FieldHolderName:
		default:
			return dErrors.New(dErrors.CodeValidation, "unknown edited field: "+f)
		}
	}
	if len(r.FileData) > 0 {
		if err := validation.CheckBytesSize("file_data", len(r.FileData), validation.MaxFileDataSize); err != nil {
			return err
		}
		return validateMedia(r.Media)
	}
	return nil
}

// RecordScanRequest uploads a document file for background extraction.
type RecordScanRequest struct {
	FileData []byte `json:"file_data"`
	Media    string `json:"media_type"`
}

func (r *RecordScanRequest) Normalize() {
	if r == nil {
		return
	}
	r.Media = strings.ToLower(strings.TrimSpace(r.Media))
}

func (r *RecordScanRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if len(r.FileData) == 0 {
		return dErrors.New(dErrors.CodeValidation, "file_data is required")
	}
	if err := validation.CheckBytesSize("file_data", len(r.FileData), validation.MaxFileDataSize); err != nil {
		return err
	}
	return validateMedia(r.Media)
}

// ClassifyRequest classifies one expiry date. An absent expiry_date means
// the document never expires.
type ClassifyRequest struct {
	ExpiryDate string `json:"expiry_date,omitempty"`
	// GracePeriodDays overrides the server default when set.
	GracePeriodDays *int `json:"grace_period_days,omitempty"`
}

func (r *ClassifyRequest) Normalize() {
	if r == nil {
		return
	}
	r.ExpiryDate = strings.TrimSpace(r.ExpiryDate)
}

func (r *ClassifyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.GracePeriodDays != nil && *r.GracePeriodDays < 0 {
		return dErrors.New(dErrors.CodeValidation, "grace_period_days must not be negative")
	}
	return nil
}

// SignOnRequest validates a crew member against a proposed contract window.
type SignOnRequest struct {
	CrewMemberID  string `json:"crew_member_id"`
	ContractStart string `json:"contract_start"`
	DurationDays  int    `json:"duration_days"`
}

func (r *SignOnRequest) Normalize() {
	if r == nil {
		return
	}
	r.CrewMemberID = strings.TrimSpace(r.CrewMemberID)
	r.ContractStart = strings.TrimSpace(r.ContractStart)
}

func (r *SignOnRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.CrewMemberID == "" {
		return dErrors.New(dErrors.CodeValidation, "crew_member_id is required")
	}
	if err := validation.CheckStringLength("crew_member_id", r.CrewMemberID, validation.MaxIDLength); err != nil {
		return err
	}
	if err := validateDate(r.ContractStart, "contract_start"); err != nil {
		return err
	}
	if r.DurationDays <= 0 {
		return dErrors.New(dErrors.CodeValidation, "duration_days must be positive")
	}
	return nil
}

// ExtensionRequest validates extending a contract to a new end date.
type ExtensionRequest struct {
	ContractID string `json:"contract_id"`
	NewEndDate string `json:"new_end_date"`
}

func (r *ExtensionRequest) Normalize() {
	if r == nil {
		return
	}
	r.ContractID = strings.TrimSpace(r.ContractID)
	r.NewEndDate = strings.TrimSpace(r.NewEndDate)
}

func (r *ExtensionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.ContractID == "" {
		return dErrors.New(dErrors.CodeValidation, "contract_id is required")
	}
	if err := validation.CheckStringLength("contract_id", r.ContractID, validation.MaxIDLength); err != nil {
		return err
	}
	return validateDate(r.NewEndDate, "new_end_date")
}

// SignOffRequest checks whether a serving crew member must be signed off.
// at_sea comes from the caller: vessel movement data lives outside this
// service.
type SignOffRequest struct {
	CrewMemberID string `json:"crew_member_id"`
	AtSea        bool   `json:"at_sea"`
}

func (r *SignOffRequest) Normalize() {
	if r == nil {
		return
	}
	r.CrewMemberID = strings.TrimSpace(r.CrewMemberID)
}

func (r *SignOffRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.CrewMemberID == "" {
		return dErrors.New(dErrors.CodeValidation, "crew_member_id is required")
	}
	return validation.CheckStringLength("crew_member_id", r.CrewMemberID, validation.MaxIDLength)
}

func validateMedia(media string) error {
	switch media {
	case "pdf", "image":
		return nil
	case "":
		return dErrors.New(dErrors.CodeValidation, "media_type is required with file_data")
	default:
		return dErrors.New(dErrors.CodeValidation, "media_type must be pdf or image")
	}
}

func validateDate(value, field string) error {
	if value == "" {
		return dErrors.New(dErrors.CodeValidation, field+" is required")
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return dErrors.New(dErrors.CodeValidation, field+" must be YYYY-MM-DD")
	}
	return nil
}
