package textutil

import (
	"strings"

	"github.com/wrenhall/mailsift/internal/domain/entities"
)

// Classification keywords. Matching is a case-sensitive substring check,
// checked in priority order with the first match winning.
const (
	keywordMarketing = "sale"
	keywordImportant = "urgent"
)

// ClassifyBody assigns a tag to an email body.
// Bodies mentioning a sale are marketing; bodies mentioning urgency are
// important; everything else falls through to the default label. The rule
// is deterministic, so reclassifying an unchanged body yields the same tag.
func ClassifyBody(body string) string {
	switch {
	case strings.Contains(body, keywordMarketing):
		return entities.TagMarketing
	case strings.Contains(body, keywordImportant):
		return entities.TagImportant
	default:
		return entities.TagOther
	}
}
