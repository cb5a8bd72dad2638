package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"email-agent/internal/model"
)

func strPtr(s string) *string { return &s }

func TestNormalizeTasksFencedJSON(t *testing.T) {
	tasks := NormalizeTasks(Text("```json\n[{\"task\":\"Submit report\",\"deadline\":\"2024-05-01\"}]\n```"))

	require.Len(t, tasks, 1)
	assert.Equal(t, "Submit report", tasks[0].Description)
	require.NotNil(t, tasks[0].Deadline)
	assert.Equal(t, "2024-05-01", *tasks[0].Deadline)
	assert.Equal(t, model.TaskSourceLLM, tasks[0].Source)
}

func TestNormalizeTasksSingleSentence(t *testing.T) {
	raw := "Sounds good, I'll send the invoice tomorrow."
	tasks := NormalizeTasks(Text(raw))

	require.Len(t, tasks, 1)
	assert.Equal(t, raw, tasks[0].Description)
	assert.Nil(t, tasks[0].Deadline)
	assert.Equal(t, model.TaskSourceLLM, tasks[0].Source)
}

func TestNormalizeTasksLineSplit(t *testing.T) {
	tasks := NormalizeTasks(Text("- Book the room\n\n2. Send agenda\n  * Confirm with Ana  \n"))

	require.Len(t, tasks, 3)
	assert.Equal(t, "Book the room", tasks[0].Description)
	assert.Equal(t, "Send agenda", tasks[1].Description)
	assert.Equal(t, "Confirm with Ana", tasks[2].Description)
}

func TestNormalizeTasksKeepsLeadingNumbers(t *testing.T) {
	tasks := NormalizeTasks(Text("2024. Year review\n3 people to invite\n12) Book venue"))

	require.Len(t, tasks, 3)
	assert.Equal(t, "2024. Year review", tasks[0].Description)
	assert.Equal(t, "3 people to invite", tasks[1].Description)
	assert.Equal(t, "Book venue", tasks[2].Description)
	assert.Equal(t, model.TaskSourceLLM, tasks[0].Source)
}

func TestNormalizeTasksRawFallback(t *testing.T) {
	tasks := NormalizeTasks(Text("-\n*\n"))

	require.Len(t, tasks, 1)
	assert.Equal(t, RawTaskPrefix+"-\n*", tasks[0].Description)
	assert.Equal(t, model.TaskSourceLLMRaw, tasks[0].Source)
}

func TestNormalizeTasksEmptyShapes(t *testing.T) {
	for _, raw := range []RawOutput{Absent(), Text(""), Text("  \n "), Sequence(nil), Sequence([]any{}), FromValue(42)} {
		tasks := NormalizeTasks(raw)
		assert.NotNil(t, tasks, raw.Kind.String())
		assert.Empty(t, tasks, raw.Kind.String())
	}
}

func TestNormalizeTasksMapping(t *testing.T) {
	tasks := NormalizeTasks(Mapping(map[string]any{"description": "Pay invoice", "due_date": "Friday"}))

	require.Len(t, tasks, 1)
	assert.Equal(t, "Pay invoice", tasks[0].Description)
	assert.Equal(t, strPtr("Friday"), tasks[0].Deadline)
}

func TestNormalizeTasksKeyPriorityAndDeadline(t *testing.T) {
	tasks := NormalizeTasks(Sequence([]any{
		map[string]any{"title": "ignored", "task": "Primary"},
		map[string]any{"action": "Reply to Tom", "deadline": ""},
		map[string]any{"text": "Review PR", "deadline": nil},
		map[string]any{"fragment": "Order lunch", "due": "12:00"},
		"Plain string item",
		nil,
		map[string]any{"task": "   "},
	}))

	require.Len(t, tasks, 5)
	assert.Equal(t, "Primary", tasks[0].Description)
	assert.Equal(t, "Reply to Tom", tasks[1].Description)
	assert.Nil(t, tasks[1].Deadline)
	assert.Equal(t, "Review PR", tasks[2].Description)
	assert.Nil(t, tasks[2].Deadline)
	assert.Equal(t, "Order lunch", tasks[3].Description)
	assert.Equal(t, strPtr("12:00"), tasks[3].Deadline)
	assert.Equal(t, "Plain string item", tasks[4].Description)
}

func TestNormalizeTasksUnknownKeys(t *testing.T) {
	tasks := NormalizeTasks(Mapping(map[string]any{"what": "call"}))

	require.Len(t, tasks, 1)
	assert.Equal(t, `{"what":"call"}`, tasks[0].Description)
}

func TestNormalizeTasksIdempotent(t *testing.T) {
	inputs := []RawOutput{
		Text("```json\n[{\"task\":\"Submit report\",\"deadline\":\"2024-05-01\"}, {\"description\": \"Call\"}]\n```"),
		Text("line one\nline two"),
		Text("-"),
		Sequence([]any{map[string]any{"task": " padded ", "deadline": " soon ", "source": "llm_raw"}}),
	}
	for _, in := range inputs {
		first := NormalizeTasks(in)
		again := NormalizeTasks(FromValue(first))
		assert.Equal(t, first, again)
	}
}

func TestNormalizeTasksKeepsValidSource(t *testing.T) {
	tasks := NormalizeTasks(Sequence([]any{
		map[string]any{"task": "a", "source": "llm_raw"},
		map[string]any{"task": "b", "source": "bogus"},
	}))

	require.Len(t, tasks, 2)
	assert.Equal(t, model.TaskSourceLLMRaw, tasks[0].Source)
	assert.Equal(t, model.TaskSourceLLM, tasks[1].Source)
}

func TestFromResponse(t *testing.T) {
	assert.Equal(t, RawAbsent, FromResponse("anything", false).Kind)
	assert.Equal(t, RawSequence, FromResponse("[\"a\"]", true).Kind)
	assert.Equal(t, RawMapping, FromResponse("{\"task\": \"a\"}", true).Kind)
	assert.Equal(t, RawText, FromResponse("call Bob", true).Kind)
}
