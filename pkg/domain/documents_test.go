package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "seacrew/pkg/domain-errors"
)

func TestParseDocumentKind(t *testing.T) {
	for _, valid := range []string{
		"passport", "seamans_book", "certificate_of_competency",
		"medical_certificate", "visa",
	} {
		kind, err := ParseDocumentKind(valid)
		assert.NoError(t, err)
		assert.Equal(t, DocumentKind(valid), kind)
	}

	_, err := ParseDocumentKind("drivers_license")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestHasMRZ(t *testing.T) {
	assert.True(t, KindPassport.HasMRZ())
	assert.True(t, KindSeamansBook.HasMRZ())
	assert.False(t, KindMedical.HasMRZ())
	assert.False(t, KindCompetency.HasMRZ())
	assert.False(t, KindVisa.HasMRZ())
}
