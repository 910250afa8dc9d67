package analysis

import (
	"fmt"
	"strings"
)

// Mock answer templates. The frontend renders these verbatim, so the exact
// strings are part of the contract and pinned by tests.
const (
	mockCropAndIssues = "This looks like a maize (corn) crop. Potential issues: interveinal yellowing on the lower leaves points to nitrogen deficiency, and the ragged holes in the whorl are consistent with fall armyworm feeding. A soil nitrogen test and whorl scouting are recommended."
	mockCropOnly      = "This looks like a maize (corn) crop, identifiable by the broad alternating leaves and the emerging tassel."
	mockIssuesOnly    = "Visible issues: interveinal yellowing that points to nitrogen deficiency, plus ragged feeding holes consistent with fall armyworm. A soil test and closer scouting are recommended."
	mockGenericFormat = "Analysis of %s: the foliage looks healthy overall, with no obvious signs of disease or pest damage."
)

// MockAnswer maps a question and filename to a canned answer using keyword
// heuristics. It is pure and deterministic: matching is case-insensitive on
// the trimmed question, and the first matching rule wins.
func MockAnswer(question, fileName string) string {
	q := strings.ToLower(strings.TrimSpace(question))

	switch {
	case strings.Contains(q, "what crop") && strings.Contains(q, "issues"):
		return mockCropAndIssues
	case strings.Contains(q, "what crop"):
		return mockCropOnly
	case strings.Contains(q, "issues") || strings.Contains(q, "problems"):
		return mockIssuesOnly
	}

	if fileName == "" {
		fileName = "the uploaded image"
	}
	return fmt.Sprintf(mockGenericFormat, fileName)
}
