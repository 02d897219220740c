package service

import (
	"strings"

	"ai-qa-agent-be/internal/entity"
)

// AssembleContext joins retrieved chunk texts into the grounding block for
// the completion prompt, preserving result order. Matches with empty text
// are skipped; no matches yields the empty string, which is still a valid
// prompt (the model then answers that nothing was found).
func AssembleContext(matches []*entity.VectorMatch) string {
	texts := make([]string, 0, len(matches))
	for _, match := range matches {
		if match == nil || match.Record.Metadata.Text == "" {
			continue
		}
		texts = append(texts, match.Record.Metadata.Text)
	}
	return strings.Join(texts, "\n\n")
}
