package normalize

import "email-agent/internal/model"

type RawKind int

const (
	RawAbsent RawKind = iota
	RawText
	RawSequence
	RawMapping
)

func (k RawKind) String() string {
	switch k {
	case RawText:
		return "text"
	case RawSequence:
		return "sequence"
	case RawMapping:
		return "mapping"
	default:
		return "absent"
	}
}

// RawOutput is whatever came back from a provider call, resolved once into
// one of four shapes.
type RawOutput struct {
	Kind   RawKind
	Text   string
	Items  []any
	Fields map[string]any
}

func Absent() RawOutput {
	return RawOutput{Kind: RawAbsent}
}

func Text(s string) RawOutput {
	return RawOutput{Kind: RawText, Text: s}
}

func Sequence(items []any) RawOutput {
	return RawOutput{Kind: RawSequence, Items: items}
}

func Mapping(fields map[string]any) RawOutput {
	return RawOutput{Kind: RawMapping, Fields: fields}
}

// FromValue classifies an arbitrary value. Anything it does not recognise is
// Absent.
func FromValue(v any) RawOutput {
	switch x := v.(type) {
	case nil:
		return Absent()
	case string:
		return Text(x)
	case *string:
		if x == nil {
			return Absent()
		}
		return Text(*x)
	case []any:
		return Sequence(x)
	case []string:
		items := make([]any, len(x))
		for i, s := range x {
			items[i] = s
		}
		return Sequence(items)
	case []model.Task:
		items := make([]any, len(x))
		for i, t := range x {
			items[i] = t
		}
		return Sequence(items)
	case map[string]any:
		return Mapping(x)
	case model.Task:
		return Sequence([]any{x})
	default:
		return Absent()
	}
}

// FromResponse classifies provider text: a parsed array or object becomes a
// Sequence or Mapping, anything else stays Text. ok=false means no response.
func FromResponse(resp string, ok bool) RawOutput {
	if !ok {
		return Absent()
	}
	v, parsed := ExtractJSON(resp)
	if !parsed {
		return Text(resp)
	}
	return FromValue(v)
}
