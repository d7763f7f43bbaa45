package extraction

import (
	"seacrew/internal/extraction/providers"
	"seacrew/pkg/domain"
)

// CorrectionRule describes a known systematic OCR misread for document
// numbers issued under a specific jurisdiction. Rules are deliberately
// narrow: they only fire on the leading character, only for the configured
// number length, and only for passports.
type CorrectionRule struct {
	Jurisdiction string
	Misread      byte
	Likely       byte
	NumberLength int
}

// DefaultCorrectionRules covers the misreads observed in production scans.
// Indonesian passport numbers start with a letter; OCR engines routinely
// read the 'U' prefix as 'J' because of the glyph shapes on the laminate.
func DefaultCorrectionRules() []CorrectionRule {
	return []CorrectionRule{
		{Jurisdiction: "IDN", Misread: 'J', Likely: 'U', NumberLength: 8},
	}
}

// applyCorrections runs the misread rules against the extracted document
// number, using the MRZ as the arbiter when one is present.
//
// Outcomes per rule hit:
//   - MRZ number matches the corrected value: correct, MRZConfirmed.
//   - MRZ number matches the extracted value as-is: the visual read was
//     right, leave it alone.
//   - No MRZ: apply the correction but flag it LowConfidence so reviewers
//     can see the number was adjusted without independent evidence.
func applyCorrections(fields *FieldSet, in providers.Input, rules []CorrectionRule) []Correction {
	if fields.Kind != domain.KindPassport || fields.Number == "" {
		return nil
	}

	var applied []Correction
	for _, rule := range rules {
		if in.JurisdictionHint != rule.Jurisdiction {
			continue
		}
		if len(fields.Number) != rule.NumberLength || fields.Number[0] != rule.Misread {
			continue
		}

		corrected := string(rule.Likely) + fields.Number[1:]

		if fields.MRZ != nil && fields.MRZ.DocumentNumber != "" {
			switch fields.MRZ.DocumentNumber {
			case corrected:
				applied = append(applied, Correction{
					Field:        "documentNumber",
					From:         fields.Number,
					To:           corrected,
					MRZConfirmed: true,
				})
				fields.Number = corrected
			case fields.Number:
				// MRZ agrees with the raw read; the rule does not apply.
			default:
				// MRZ disagrees with both readings. Trust the MRZ, it
				// carries a validated check digit.
				applied = append(applied, Correction{
					Field:        "documentNumber",
					From:         fields.Number,
					To:           fields.MRZ.DocumentNumber,
					MRZConfirmed: true,
				})
				fields.Number = fields.MRZ.DocumentNumber
			}
			continue
		}

		applied = append(applied, Correction{
			Field:         "documentNumber",
			From:          fields.Number,
			To:            corrected,
			LowConfidence: true,
		})
		fields.Number = corrected
	}
	return applied
}
