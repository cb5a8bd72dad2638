package normalize

import (
	"strings"
	"unicode"

	"email-agent/internal/model"
)

var heuristicRules = []struct {
	label    model.Label
	keywords []string
}{
	{model.LabelNewsletter, []string{"newsletter", "unsubscribe", "digest", "mailing list"}},
	{model.LabelImportant, []string{"urgent", "asap", "meeting", "scheduled", "deadline"}},
	{model.LabelSpam, []string{"buy now", "free", "winner", "limited offer", "click here"}},
}

// HeuristicLabel files text by keyword, checking Newsletter, Important and
// Spam in that order. Everything else is To-Do.
func HeuristicLabel(text string) model.Label {
	t := strings.ToLower(text)
	for _, rule := range heuristicRules {
		for _, kw := range rule.keywords {
			if strings.Contains(t, kw) {
				return rule.label
			}
		}
	}
	return model.LabelToDo
}

// FirstToken returns the first whitespace-delimited word of the first
// non-blank line.
func FirstToken(response string) string {
	t := strings.TrimSpace(response)
	if t == "" {
		return ""
	}
	line := strings.SplitN(t, "\n", 2)[0]
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// MatchLabel resolves a provider answer to a label using its first token.
// Comparison ignores case and anything that is not a letter, so "**to-do**"
// and "TODO:" both match To-Do.
func MatchLabel(response string) (model.Label, bool) {
	token := lettersOnly(FirstToken(response))
	if token == "" {
		return "", false
	}
	for _, label := range model.Labels {
		want := lettersOnly(string(label))
		if strings.Contains(token, want) {
			return label, true
		}
		if len(token) >= 4 && strings.Contains(want, token) {
			return label, true
		}
	}
	return "", false
}

// ResolveLabel never fails: an unusable answer falls back to the heuristic
// over the email text.
func ResolveLabel(response string, ok bool, emailText string) model.Label {
	if ok {
		if label, matched := MatchLabel(response); matched {
			return label
		}
	}
	return HeuristicLabel(emailText)
}

func lettersOnly(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
