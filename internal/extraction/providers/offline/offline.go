// Package offline is the terminal extraction tier. It runs locally with no
// network dependency and returns a best-effort, possibly empty result: it
// never errors, so the pipeline always has somewhere to land.
//
// The only signal it can recover without an OCR model is a machine-readable
// zone embedded as text (text-layer PDFs, sidecar dumps from the upload
// tooling). Anything else comes back empty with zero confidence.
package offline

import (
	"bufio"
	"bytes"
	"context"

	"seacrew/internal/extraction/providers"
)

const providerID = "offline-fallback"

// mrzLineLength is the TD3 (passport booklet) line length.
const mrzLineLength = 44

// Extractor implements providers.Provider without any external dependency.
type Extractor struct{}

var _ providers.Provider = (*Extractor)(nil)

// New creates the offline extractor.
func New() *Extractor { return &Extractor{} }

func (e *Extractor) ID() string { return providerID }

func (e *Extractor) Capabilities() providers.Capabilities {
	return providers.Capabilities{
		Tier:      providers.TierOffline,
		Networked: false,
		Media:     []providers.MediaType{providers.MediaPDF, providers.MediaImage},
	}
}

// Extract scans the payload for two consecutive MRZ-shaped lines. No match is
// not a failure; the result is simply empty.
func (e *Extractor) Extract(_ context.Context, in providers.Input) (*providers.RawExtraction, error) {
	line1, line2 := findMRZ(in.Data)
	if line1 == "" {
		return &providers.RawExtraction{}, nil
	}
	return &providers.RawExtraction{
		MRZLine1:   line1,
		MRZLine2:   line2,
		Confidence: 0.4, // text-layer MRZ is exact but uncorroborated
	}, nil
}

// findMRZ looks for two consecutive 44-character lines in the MRZ alphabet.
func findMRZ(data []byte) (string, string) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 64*1024)

	prev := ""
	for scanner.Scan() {
		line := string(bytes.TrimSpace(scanner.Bytes()))
		if isMRZLine(line) {
			if prev != "" {
				return prev, line
			}
			prev = line
			continue
		}
		prev = ""
	}
	return "", ""
}

func isMRZLine(line string) bool {
	if len(line) != mrzLineLength {
		return false
	}
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '<' || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			continue
		}
		return false
	}
	return true
}
