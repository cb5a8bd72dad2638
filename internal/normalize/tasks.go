package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"email-agent/internal/model"
)

// RawTaskPrefix marks a task holding an unparsed provider dump.
const RawTaskPrefix = "RAW_LLM_OUTPUT: "

var (
	descriptionKeys = []string{"task", "description", "text", "title", "action", "fragment"}
	deadlineKeys    = []string{"deadline", "due_date", "due"}

	listMarker = regexp.MustCompile(`^(?:[-*•+]|\d{1,2}[.)])(?:\s+|$)`)
)

// NormalizeTasks maps any raw extraction output to an ordered, never nil
// task list. Feeding the result back in returns the same list.
func NormalizeTasks(raw RawOutput) []model.Task {
	switch raw.Kind {
	case RawSequence:
		return normalizeItems(raw.Items)
	case RawMapping:
		return normalizeItems([]any{raw.Fields})
	case RawText:
		return normalizeText(raw.Text)
	default:
		return []model.Task{}
	}
}

func normalizeItems(items []any) []model.Task {
	tasks := make([]model.Task, 0, len(items))
	for _, item := range items {
		if task, ok := normalizeItem(item); ok {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

func normalizeText(text string) []model.Task {
	if strings.TrimSpace(text) == "" {
		return []model.Task{}
	}
	if items, ok := ExtractArray(text); ok {
		return normalizeItems(items)
	}

	tasks := []model.Task{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		tasks = append(tasks, model.Task{Description: line, Source: model.TaskSourceLLM})
	}
	if len(tasks) == 0 {
		tasks = append(tasks, model.Task{
			Description: RawTaskPrefix + strings.TrimSpace(text),
			Source:      model.TaskSourceLLMRaw,
		})
	}
	return tasks
}

func normalizeItem(item any) (model.Task, bool) {
	var task model.Task
	switch x := item.(type) {
	case nil:
		return task, false
	case model.Task:
		task = x
	case *model.Task:
		if x == nil {
			return task, false
		}
		task = *x
	case map[string]any:
		task = taskFromFields(x)
	default:
		task = model.Task{Description: stringify(x)}
	}

	task.Description = strings.TrimSpace(task.Description)
	if task.Description == "" {
		return task, false
	}
	if task.Deadline != nil {
		d := strings.TrimSpace(*task.Deadline)
		if d == "" {
			task.Deadline = nil
		} else {
			task.Deadline = &d
		}
	}
	if !task.Source.Valid() {
		task.Source = model.TaskSourceLLM
	}
	return task, true
}

func taskFromFields(fields map[string]any) model.Task {
	var task model.Task
	described := false
	for _, key := range descriptionKeys {
		v, present := fields[key]
		if !present {
			continue
		}
		described = true
		if s := stringify(v); strings.TrimSpace(s) != "" {
			task.Description = s
			break
		}
	}
	if rest := leftoverFields(fields); !described && rest != nil {
		task.Description = stringify(rest)
	}
	for _, key := range deadlineKeys {
		if s := strings.TrimSpace(stringify(fields[key])); s != "" {
			task.Deadline = &s
			break
		}
	}
	if src, ok := fields["source"].(string); ok {
		task.Source = model.TaskSource(src)
	}
	return task
}

// leftoverFields drops the keys that are not a description, so an element
// made only of a deadline does not become a task.
func leftoverFields(fields map[string]any) map[string]any {
	rest := make(map[string]any, len(fields))
	for k, v := range fields {
		rest[k] = v
	}
	for _, key := range deadlineKeys {
		delete(rest, key)
	}
	delete(rest, "source")
	if len(rest) == 0 {
		return nil
	}
	return rest
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
