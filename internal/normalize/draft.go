package normalize

import (
	"strings"

	"email-agent/internal/model"
)

// FallbackReplyBody is used when the provider gave no answer at all.
const FallbackReplyBody = "Thanks — will follow up soon."

// NormalizeDraft never invents a subject; callers decide what an empty one
// becomes.
func NormalizeDraft(resp string, ok bool) model.DraftContent {
	if !ok || strings.TrimSpace(resp) == "" {
		return model.DraftContent{Body: FallbackReplyBody}
	}
	if obj, parsed := ExtractObject(resp); parsed {
		return model.DraftContent{
			Subject: stringify(obj["subject"]),
			Body:    stringify(obj["body"]),
		}
	}
	return model.DraftContent{Body: strings.TrimSpace(resp)}
}
