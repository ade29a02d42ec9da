package domain

import "strings"

// Kind identifies which of the three entity collections an entity lives in.
type Kind string

const (
	KindTask    Kind = "TASK"
	KindEpic    Kind = "EPIC"
	KindSubtask Kind = "SUBTASK"
)

// AllKinds returns every entity kind in snapshot order.
func AllKinds() []Kind {
	return []Kind{KindTask, KindEpic, KindSubtask}
}

// ParseKind converts a snapshot type tag into a Kind.
func ParseKind(s string) (Kind, error) {
	switch normalizeEnum(s) {
	case string(KindTask):
		return KindTask, nil
	case string(KindEpic):
		return KindEpic, nil
	case string(KindSubtask):
		return KindSubtask, nil
	default:
		return "", ErrInvalidKind
	}
}

// Name returns the lowercase singular name used in messages.
func (k Kind) Name() string {
	return strings.ToLower(string(k))
}

// Plural returns the collection name used in routes and messages.
func (k Kind) Plural() string {
	switch k {
	case KindTask:
		return "tasks"
	case KindEpic:
		return "epics"
	case KindSubtask:
		return "subtasks"
	default:
		return strings.ToLower(string(k))
	}
}

func normalizeEnum(s string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), "-", "_")
}
