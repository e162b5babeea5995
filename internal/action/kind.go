package action

import "fmt"

// Kind identifies an action offered by the floating panel.
type Kind int

const (
	Translate Kind = iota + 1
	Summarize
	Format
)

// Kinds lists the actions in panel order.
var Kinds = []Kind{Translate, Summarize, Format}

func (k Kind) String() string {
	switch k {
	case Translate:
		return "translate"
	case Summarize:
		return "summarize"
	case Format:
		return "format"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Label is the button text for the action.
func (k Kind) Label() string {
	switch k {
	case Translate:
		return "Translate Text"
	case Summarize:
		return "Summarize Text"
	case Format:
		return "Improve Formatting"
	default:
		return k.String()
	}
}

// ParseKind converts a command-line name to a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown action %q (want translate, summarize or format)", s)
}
