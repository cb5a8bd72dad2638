package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"email-agent/internal/ai"
	"email-agent/internal/model"
)

func TestLLMServiceWithoutProvider(t *testing.T) {
	// Setup
	f := newFixture()
	llm := f.llm(nil)
	ctx := context.Background()

	// Execute & verify
	assert.Equal(t, model.LabelNewsletter, llm.Categorize(ctx, "Click unsubscribe to stop", ""))
	assert.Equal(t, model.LabelToDo, llm.Categorize(ctx, "Hello there", ""))
	assert.Equal(t, []model.Task{}, llm.ExtractTasks(ctx, "Please send the report", ""))

	draft := llm.GenerateReply(ctx, "Can we meet?", "", "")
	assert.Equal(t, "", draft.Subject)
	assert.Equal(t, "Thanks — will follow up soon.", draft.Body)

	reply := llm.Chat(ctx, "Subject: Hi", "what is this?", "")
	assert.Equal(t, "LLM unavailable — here is a summary: Subject: Hi...", reply)
}

func TestLLMServiceCategorizeFirstToken(t *testing.T) {
	f := newFixture()
	llm := f.llm(ai.NewMockProvider("spam, definitely"))

	assert.Equal(t, model.LabelSpam, llm.Categorize(context.Background(), "win money", ""))
}

func TestLLMServiceCategorizeProviderError(t *testing.T) {
	f := newFixture()
	provider := &ai.MockProvider{Err: errors.New("quota exceeded")}
	llm := f.llm(provider)

	assert.Equal(t, model.LabelImportant, llm.Categorize(context.Background(), "Urgent: server down", ""))
}

func TestLLMServiceExtractTasksFencedJSON(t *testing.T) {
	// Setup
	f := newFixture()
	provider := ai.NewMockProvider("```json\n[{\"task\": \"Send report\", \"deadline\": \"Friday\"}]\n```")
	llm := f.llm(provider)

	// Execute
	tasks := llm.ExtractTasks(context.Background(), "Send the report by Friday", "")

	// Verify
	require.Len(t, tasks, 1)
	assert.Equal(t, "Send report", tasks[0].Description)
	require.NotNil(t, tasks[0].Deadline)
	assert.Equal(t, "Friday", *tasks[0].Deadline)
	assert.Equal(t, model.TaskSourceLLM, tasks[0].Source)
}

func TestLLMServiceExtractTasksPlainText(t *testing.T) {
	f := newFixture()
	llm := f.llm(ai.NewMockProvider("- Book the venue\n\n2. Email the guests"))

	tasks := llm.ExtractTasks(context.Background(), "body", "")

	require.Len(t, tasks, 2)
	assert.Equal(t, "Book the venue", tasks[0].Description)
	assert.Equal(t, "Email the guests", tasks[1].Description)
	assert.Equal(t, model.TaskSourceLLM, tasks[1].Source)
}

func TestLLMServiceExtractTasksMarkerOnly(t *testing.T) {
	f := newFixture()
	llm := f.llm(ai.NewMockProvider("-\n*"))

	tasks := llm.ExtractTasks(context.Background(), "body", "")

	require.Len(t, tasks, 1)
	assert.Equal(t, model.TaskSourceLLMRaw, tasks[0].Source)
	assert.True(t, strings.HasPrefix(tasks[0].Description, "RAW_LLM_OUTPUT: "))
}

func TestLLMServiceUsesStoredPrompt(t *testing.T) {
	// Setup
	f := newFixture()
	ctx := context.Background()
	_, err := f.prompts.Upsert(ctx, model.NewPrompt(model.PromptCategorization, "Label this please."))
	require.NoError(t, err)
	provider := ai.NewMockProvider("Important")
	llm := f.llm(provider)

	// Execute
	label := llm.Categorize(ctx, "Subject: hi\n\nbody", "")

	// Verify
	assert.Equal(t, model.LabelImportant, label)
	prompts := provider.Prompts()
	require.Len(t, prompts, 1)
	assert.Equal(t, "Label this please.\n\nEMAIL:\nSubject: hi\n\nbody", prompts[0])
}

func TestLLMServiceCustomPromptWins(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.prompts.Upsert(ctx, model.NewPrompt(model.PromptAutoReply, "stored"))
	require.NoError(t, err)
	provider := ai.NewMockProvider(`{"subject": "Re: hi", "body": "Sure."}`)
	llm := f.llm(provider)

	draft := llm.GenerateReply(ctx, "hi", "custom", "friendly")

	assert.Equal(t, model.DraftContent{Subject: "Re: hi", Body: "Sure."}, draft)
	assert.Equal(t, "custom\n\nEMAIL:\nhi", provider.Prompts()[0])
}

func TestChatFallbackTruncates(t *testing.T) {
	long := strings.Repeat("é", 400)

	out := ChatFallback(long)

	assert.Equal(t, "LLM unavailable — here is a summary: "+strings.Repeat("é", 350)+"...", out)
}
