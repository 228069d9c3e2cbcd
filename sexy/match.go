package sexy

import "fmt"

// Wildcard is the symbol that matches any single datum in a pattern.
const Wildcard = "_"

// MatchError describes where actual first diverged from a pattern.
type MatchError struct {
	Path     string // e.g. "root[1][2]"
	Expected string
	Actual   string
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("at %s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

// Match reports whether actual matches pattern. In a pattern, the symbol _
// matches any datum and a trailing ... matches the remaining items of a list.
func Match(pattern, actual *Node) error {
	return match(pattern, actual, "root")
}

func match(pattern, actual *Node, path string) error {
	if pattern.Type == NodeSymbol && pattern.Text == Wildcard {
		return nil
	}
	if pattern.Type != actual.Type {
		return &MatchError{Path: path, Expected: pattern.String(), Actual: actual.String()}
	}
	if pattern.IsAtom() {
		if pattern.Text != actual.Text {
			return &MatchError{Path: path, Expected: pattern.String(), Actual: actual.String()}
		}
		return nil
	}

	for i, item := range pattern.Items {
		if item.Type == NodeEllipsis {
			if i != len(pattern.Items)-1 {
				return fmt.Errorf("at %s: ... must be the last item of a pattern list", path)
			}
			return nil
		}
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		if i >= len(actual.Items) {
			return &MatchError{Path: itemPath, Expected: item.String(), Actual: "end of list"}
		}
		if err := match(item, actual.Items[i], itemPath); err != nil {
			return err
		}
	}
	if len(actual.Items) > len(pattern.Items) {
		return &MatchError{
			Path:     fmt.Sprintf("%s[%d]", path, len(pattern.Items)),
			Expected: "end of list",
			Actual:   actual.Items[len(pattern.Items)].String(),
		}
	}
	return nil
}
