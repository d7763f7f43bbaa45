package httptransport

import (
	"time"

	"seacrew/internal/compliance"
	"seacrew/internal/status"
	"seacrew/internal/verification"
)

type FieldComparisonResponse struct {
	Field    string `json:"field"`
	Claimed  string `json:"claimed"`
	Evidence string `json:"evidence"`
	Source   string `json:"source"`
	Match    bool   `json:"match"`
	Blocking bool   `json:"blocking"`
}

type VerifyResponse struct {
	DocumentID     string                    `json:"document_id"`
	IsValid        bool                      `json:"is_valid"`
	MatchScore     float64                   `json:"match_score"`
	Comparisons    []FieldComparisonResponse `json:"field_comparisons"`
	Warnings       []string                  `json:"warnings,omitempty"`
	EvidenceSource string                    `json:"evidence_source,omitempty"`
	Degraded       bool                      `json:"degraded,omitempty"`
	DuplicateOf    []string                  `json:"duplicate_of,omitempty"`
}

func toVerifyResponse(result *verification.Result) *VerifyResponse {
	resp := &VerifyResponse{
		DocumentID:     result.DocumentID.String(),
		IsValid:        result.IsValid,
		MatchScore:     result.MatchScore,
		Comparisons:    make([]FieldComparisonResponse, 0, len(result.Comparisons)),
		Warnings:       result.Warnings,
		EvidenceSource: result.EvidenceSource,
		Degraded:       result.Degraded,
	}
	for _, c := range result.Comparisons {
		resp.Comparisons = append(resp.Comparisons, FieldComparisonResponse{
			Field:    c.Field,
			Claimed:  c.Claimed,
			Evidence: c.Evidence,
			Source:   c.Source,
			Match:    c.Match,
			Blocking: c.Blocking,
		})
	}
	for _, id := range result.DuplicateOf {
		resp.DuplicateOf = append(resp.DuplicateOf, id.String())
	}
	return resp
}

type RecordScanResponse struct {
	DocumentID string `json:"document_id"`
	Status     string `json:"status"`
}

type ClassifyResponse struct {
	Status                 status.Status `json:"status"`
	DaysUntilExpiry        int           `json:"days_until_expiry"`
	InGracePeriod          bool          `json:"is_in_grace_period"`
	BlockedFromAssignments bool          `json:"blocked_from_assignments"`
	NextNotificationAt     *string       `json:"next_notification_at,omitempty"`
}

func toClassifyResponse(c status.Classification) *ClassifyResponse {
	resp := &ClassifyResponse{
		Status:                 c.Status,
		DaysUntilExpiry:        c.DaysUntilExpiry,
		InGracePeriod:          c.InGracePeriod,
		BlockedFromAssignments: c.BlockedFromAssignments,
	}
	if c.NextNotificationAt != nil {
		formatted := c.NextNotificationAt.Format("2006-01-02")
		resp.NextNotificationAt = &formatted
	}
	return resp
}

type IssueResponse struct {
	Code       string  `json:"code"`
	Kind       string  `json:"document_kind"`
	Detail     string  `json:"detail"`
	ExpiryDate *string `json:"expiry_date,omitempty"`
}

type SignOnResponse struct {
	IsValid  bool            `json:"is_valid"`
	Blockers []IssueResponse `json:"blockers"`
	Warnings []IssueResponse `json:"warnings"`
}

func toSignOnResponse(result *compliance.Result) *SignOnResponse {
	return &SignOnResponse{
		IsValid:  result.IsValid,
		Blockers: toIssueResponses(result.Blockers),
		Warnings: toIssueResponses(result.Warnings),
	}
}

func toIssueResponses(issues []compliance.Issue) []IssueResponse {
	out := make([]IssueResponse, 0, len(issues))
	for _, issue := range issues {
		out = append(out, IssueResponse{
			Code:       string(issue.Code),
			Kind:       string(issue.Kind),
			Detail:     issue.Detail,
			ExpiryDate: formatDatePtr(issue.ExpiryDate),
		})
	}
	return out
}

type DecisionResponse struct {
	Allowed              bool   `json:"allowed"`
	Severity             string `json:"severity,omitempty"`
	Code                 string `json:"code,omitempty"`
	Reason               string `json:"reason,omitempty"`
	RequiredAction       string `json:"required_action,omitempty"`
	GracePeriodAvailable bool   `json:"grace_period_available"`
	Kind                 string `json:"document_kind,omitempty"`
}

func toDecisionResponse(decision *compliance.Decision) *DecisionResponse {
	return &DecisionResponse{
		Allowed:              decision.Allowed,
		Severity:             string(decision.Severity),
		Code:                 string(decision.Code),
		Reason:               decision.Reason,
		RequiredAction:       decision.RequiredAction,
		GracePeriodAvailable: decision.GracePeriodAvailable,
		Kind:                 string(decision.Kind),
	}
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format("2006-01-02")
	return &formatted
}
