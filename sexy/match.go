package sexy

import "fmt"

// Wildcard is the symbol that matches any single datum in a pattern.
const Wildcard = "_"

// Match reports whether actual has the shape of pattern. Within a list
// pattern, "..." matches zero or more items and "_" matches any one datum.
// The returned error names the path of the first mismatch.
func Match(pattern, actual *Node) error {
	return match(pattern, actual, "root")
}

func match(pattern, actual *Node, path string) error {
	if pattern.Type == NodeSymbol && pattern.Text == Wildcard {
		return nil
	}
	if pattern.Type != actual.Type {
		return fmt.Errorf("at %s: expected %s %s, got %s %s", path, pattern.Type, pattern, actual.Type, actual)
	}
	if pattern.IsAtom() {
		if pattern.Text != actual.Text {
			return fmt.Errorf("at %s: expected %s, got %s", path, pattern, actual)
		}
		return nil
	}
	if !matchItems(pattern.Items, actual.Items, path) {
		return firstItemMismatch(pattern, actual, path)
	}
	return nil
}

// matchItems matches a list body, backtracking over ellipses.
func matchItems(patterns, actuals []*Node, path string) bool {
	if len(patterns) == 0 {
		return len(actuals) == 0
	}
	if patterns[0].Type == NodeEllipsis {
		for skip := 0; skip <= len(actuals); skip++ {
			if matchItems(patterns[1:], actuals[skip:], path) {
				return true
			}
		}
		return false
	}
	if len(actuals) == 0 {
		return false
	}
	if match(patterns[0], actuals[0], path) != nil {
		return false
	}
	return matchItems(patterns[1:], actuals[1:], path)
}

// firstItemMismatch produces a readable error for a failed list match.
// Lists with ellipses are reported as a whole.
func firstItemMismatch(pattern, actual *Node, path string) error {
	for _, item := range pattern.Items {
		if item.Type == NodeEllipsis {
			return fmt.Errorf("at %s: expected %s, got %s", path, pattern, actual)
		}
	}
	for i, item := range pattern.Items {
		if i >= len(actual.Items) {
			return fmt.Errorf("at %s: expected %d items, got %d in %s", path, len(pattern.Items), len(actual.Items), actual)
		}
		if err := match(item, actual.Items[i], fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	return fmt.Errorf("at %s: expected %d items, got %d in %s", path, len(pattern.Items), len(actual.Items), actual)
}
