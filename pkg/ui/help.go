package ui

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// helpContent is the markdown source for the help overlay.
const helpContent = `# treeview

## Navigate

| Key | Action |
|-----|--------|
| j / ↓, k / ↑ | move cursor |
| h / ←        | collapse node or jump to parent |
| l / →        | expand node or descend |
| g / G        | first / last row |
| p            | jump to parent |
| ctrl+u / ctrl+d | half page up / down |

## Edit

| Key | Action |
|-----|--------|
| space, x | toggle tri-state selection |
| enter, o | open / close node |
| z / Z    | fold / expand whole subtree |
| a        | add child under cursor |
| e        | edit label |
| d        | delete node (root is protected) |
| D        | delete all selected subtrees |
| r        | re-root at cursor |
| R        | reset to a fresh tree |
| u        | undo last change |
| y        | copy label to clipboard |

Press q or esc to close this help.
`

// helpModel renders the markdown help overlay. The glamour renderer is
// rebuilt on resize so word wrap follows the terminal width.
type helpModel struct {
	theme    Theme
	rendered string
	width    int
	height   int
}

func newHelpModel(theme Theme) helpModel {
	return helpModel{theme: theme}
}

// SetSize updates dimensions and re-renders the content.
func (h *helpModel) SetSize(width, height int) {
	h.width = width
	h.height = height

	wrap := width - 8
	if wrap > 72 {
		wrap = 72
	}
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		h.rendered = helpContent
		return
	}
	out, err := r.Render(helpContent)
	if err != nil {
		h.rendered = helpContent
		return
	}
	h.rendered = out
}

// View renders the help content inside a centered bordered box.
func (h helpModel) View() string {
	box := h.theme.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(h.theme.Border).
		Padding(0, 2).
		Render(h.rendered)

	return lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center, box)
}
