package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/quill/pkg/domain"
)

// GraphOverlay contains session data to highlight on the graph.
type GraphOverlay struct {
	VisitedPassages []string
	CurrentPassage  string
}

// GenerateMermaid produces a Mermaid flowchart for a story, passages in id order.
// It applies semantic styling:
// - Entry passage: ((Circle))
// - Ending (no choices): ([Stadium])
// - Default: [Rectangle]
// Conditional choices are labeled with their condition and dead links are drawn dotted.
func GenerateMermaid(story domain.Story, entryID string, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	ids := make([]string, 0, len(story.Passages))
	for id := range story.Passages {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		passage := story.Passages[id]
		safeID := sanitizeMermaidID(id)

		opener, closer := "[", "]"
		switch {
		case id == entryID:
			opener, closer = "((", "))"
		case len(passage.Choices) == 0:
			opener, closer = "([", "])"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(id), closer)

		for _, c := range passage.Choices {
			safeTo := sanitizeMermaidID(c.Target)
			_, exists := story.Passages[c.Target]

			label := escapeLabel(c.Text)
			if c.Condition != "" {
				label = fmt.Sprintf("%s <br/> if %s", label, escapeLabel(c.Condition))
			}

			arrow := fmt.Sprintf("-- \"%s\" -->", label)
			if !exists {
				arrow = fmt.Sprintf("-. \"%s\" .->", label)
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", safeID, arrow, safeTo)
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedPassages {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}

		if overlay.CurrentPassage != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentPassage))
		}
	}

	return sb.String()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	var sb strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}
