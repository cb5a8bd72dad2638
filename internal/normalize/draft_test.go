package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"email-agent/internal/model"
)

func TestNormalizeDraft(t *testing.T) {
	cases := []struct {
		name string
		resp string
		ok   bool
		want model.DraftContent
	}{
		{"no response", "", false, model.DraftContent{Body: FallbackReplyBody}},
		{"blank response", "   ", true, model.DraftContent{Body: FallbackReplyBody}},
		{"fenced object", "```json\n{\"subject\": \"Re: Lunch\", \"body\": \"See you\"}\n```", true, model.DraftContent{Subject: "Re: Lunch", Body: "See you"}},
		{"missing subject", "{\"body\": \"Only body\"}", true, model.DraftContent{Body: "Only body"}},
		{"missing both", "{}", true, model.DraftContent{}},
		{"prose", "  Hi Tom, sounds great.  ", true, model.DraftContent{Body: "Hi Tom, sounds great."}},
		{"array is not a draft", "[\"a\"]", true, model.DraftContent{Body: "[\"a\"]"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeDraft(tc.resp, tc.ok))
		})
	}
}
