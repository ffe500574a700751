package ui

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rertyy/treeview/pkg/loader"
	"github.com/rertyy/treeview/pkg/tree"
	"github.com/rertyy/treeview/pkg/watcher"
)

// mode is the interaction mode of the top-level model
type mode int

const (
	modeBrowse mode = iota
	modeAddChild
	modeEditLabel
	modeHelp
)

// FileChangedMsg signals that the seed file changed on disk.
type FileChangedMsg struct{}

// WatchCmd blocks on the watcher's change channel and emits a
// FileChangedMsg. Re-issued after every reload.
func WatchCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

// Model is the top-level Bubble Tea model: the tree view plus the input
// prompts, help overlay, and status bar around it.
type Model struct {
	store    *tree.Store
	treeview TreeModel
	theme    Theme

	// Input prompt state (add child / edit label)
	input       textinput.Model
	inputTarget string // node the prompt applies to

	mode mode
	help helpModel
	undo history

	// Live reload
	seedPath    string
	fileWatcher *watcher.Watcher

	// Status bar
	statusMsg     string
	statusIsError bool

	ready  bool
	width  int
	height int
}

// NewModel creates the top-level model. seedPath may be empty; when set,
// the file is watched and the tree reloads on change.
func NewModel(store *tree.Store, seedPath string) Model {
	theme := DefaultTheme(lipgloss.DefaultRenderer())

	input := textinput.New()
	input.CharLimit = 200

	m := Model{
		store:    store,
		treeview: NewTreeModel(store, theme),
		theme:    theme,
		input:    input,
		help:     newHelpModel(theme),
		seedPath: seedPath,
	}

	if seedPath != "" {
		w, err := watcher.New(seedPath)
		if err == nil && w.Start() == nil {
			m.fileWatcher = w
		}
	}

	return m
}

// Stop releases the file watcher. Call on program exit.
func (m *Model) Stop() {
	if m.fileWatcher != nil {
		m.fileWatcher.Stop()
	}
}

func (m Model) Init() tea.Cmd {
	if m.fileWatcher != nil {
		return WatchCmd(m.fileWatcher)
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FileChangedMsg:
		m.reloadSeed()
		if m.fileWatcher != nil {
			return m, WatchCmd(m.fileWatcher)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.treeview.SetSize(msg.Width, msg.Height-1) // footer takes a line
		m.help.SetSize(msg.Width, msg.Height)
		m.input.Width = msg.Width - 4
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeAddChild, modeEditLabel:
			return m.updateInput(msg)
		case modeHelp:
			switch msg.String() {
			case "q", "esc", "?":
				m.mode = modeBrowse
			}
			return m, nil
		default:
			return m.updateBrowse(msg)
		}
	}

	return m, nil
}

// updateBrowse handles keys in the normal browsing mode.
func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.clearStatus()
	before := m.store.Snapshot()

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		m.treeview.MoveUp()
	case "down", "j":
		m.treeview.MoveDown()
	case "left", "h":
		m.treeview.CollapseOrJumpToParent()
	case "right", "l":
		m.treeview.ExpandOrMoveToChild()
	case "pgup", "ctrl+u":
		m.treeview.PageUp()
	case "pgdown", "ctrl+d":
		m.treeview.PageDown()
	case "g", "home":
		m.treeview.JumpToTop()
	case "G", "end":
		m.treeview.JumpToBottom()
	case "p":
		m.treeview.JumpToParent()

	case " ", "x":
		if id := m.treeview.SelectedID(); id != "" {
			m.applyOp(m.store.SetSelected(id), "")
		}

	case "enter", "o":
		if id := m.treeview.SelectedID(); id != "" {
			m.applyOp(m.store.ToggleOpen(id), "")
		}

	case "z":
		if id := m.treeview.SelectedID(); id != "" {
			m.applyOp(m.store.FoldAll(id), "Folded subtree")
		}
	case "Z":
		if id := m.treeview.SelectedID(); id != "" {
			m.applyOp(m.store.ExpandAll(id), "Expanded subtree")
		}

	case "a":
		if id := m.treeview.SelectedID(); id != "" {
			m.mode = modeAddChild
			m.inputTarget = id
			m.input.Placeholder = "new node label"
			m.input.SetValue("")
			m.input.Focus()
			return m, textinput.Blink
		}

	case "e":
		if n := m.treeview.SelectedNode(); n != nil {
			m.mode = modeEditLabel
			m.inputTarget = n.ID
			m.input.Placeholder = ""
			m.input.SetValue(n.Label)
			m.input.CursorEnd()
			m.input.Focus()
			return m, textinput.Blink
		}

	case "d":
		if id := m.treeview.SelectedID(); id != "" {
			m.applyOp(m.store.DeleteNode(id), "Deleted node")
		}

	case "D":
		m.applyOp(m.store.DeleteSelected(), "Deleted selected nodes")

	case "r":
		if id := m.treeview.SelectedID(); id != "" {
			m.applyOp(m.store.SetRoot(id), "Re-rooted tree")
			m.treeview.SelectByID(id)
		}

	case "R":
		m.store.Reset()
		m.treeview.Rebuild()
		m.treeview.JumpToTop()
		m.setStatus("Tree reset", false)

	case "y":
		if n := m.treeview.SelectedNode(); n != nil {
			if err := clipboard.WriteAll(n.Label); err != nil {
				m.setStatus(fmt.Sprintf("Clipboard error: %v", err), true)
			} else {
				m.setStatus(fmt.Sprintf("Copied %q to clipboard", n.Label), false)
			}
		}

	case "u":
		if snap := m.undo.Pop(); snap != nil {
			m.store.Restore(snap)
			m.treeview.Rebuild()
			m.setStatus("Undid last change", false)
		} else {
			m.setStatus("Nothing to undo", false)
		}
		return m, nil

	case "?":
		m.mode = modeHelp
	}

	// Any key that mutated the tree leaves a new snapshot installed;
	// remember the old one as an undo point.
	if m.store.Snapshot() != before {
		m.undo.Push(before)
	}
	return m, nil
}

// updateInput handles keys while an add/edit prompt is open.
func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil

	case "enter":
		value := m.input.Value()
		before := m.store.Snapshot()
		switch m.mode {
		case modeAddChild:
			id, err := m.store.AddChild(m.inputTarget, value)
			if err != nil {
				m.setStatus(err.Error(), true)
			} else {
				m.treeview.Rebuild()
				m.treeview.SelectByID(id)
				m.setStatus("Added node", false)
			}
		case modeEditLabel:
			m.applyOp(m.store.EditLabel(m.inputTarget, value), "Label updated")
		}
		if m.store.Snapshot() != before {
			m.undo.Push(before)
		}
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// applyOp rebuilds the view after a store operation and routes its error,
// if any, to the status bar. Rejected operations never crash the UI.
func (m *Model) applyOp(err error, okMsg string) {
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.treeview.Rebuild()
	if okMsg != "" {
		m.setStatus(okMsg, false)
	}
}

// reloadSeed re-reads the seed file and swaps in the new tree, keeping
// the cursor on the same node where possible.
func (m *Model) reloadSeed() {
	if m.seedPath == "" {
		return
	}
	st, err := loader.LoadFile(m.seedPath)
	if err != nil {
		m.setStatus(fmt.Sprintf("Reload failed: %v", err), true)
		return
	}
	keep := m.treeview.SelectedID()
	m.store = st
	m.undo.Clear()
	m.treeview = NewTreeModel(st, m.theme)
	m.treeview.SetSize(m.width, m.height-1)
	m.treeview.SelectByID(keep)
	m.setStatus("Tree reloaded from "+m.seedPath, false)
}

func (m *Model) setStatus(msg string, isError bool) {
	m.statusMsg = msg
	m.statusIsError = isError
}

func (m *Model) clearStatus() {
	m.statusMsg = ""
	m.statusIsError = false
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.mode == modeHelp {
		return m.help.View()
	}

	body := m.treeview.View()
	if m.mode == modeAddChild || m.mode == modeEditLabel {
		prompt := "New label: "
		if m.mode == modeAddChild {
			prompt = "Add child: "
		}
		body = lipgloss.JoinVertical(lipgloss.Left,
			body,
			m.theme.Base.Render(prompt)+m.input.View(),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Height(m.height-1).MaxHeight(m.height-1).Render(body),
		m.renderFooter(),
	)
}

// renderFooter renders the single-line status bar: counts on the left,
// status or key hints on the right.
func (m *Model) renderFooter() string {
	snap := m.store.Snapshot()

	selected := 0
	snap.Walk(snap.RootID(), func(n *tree.Node) {
		if n.Selection == tree.Selected {
			selected++
		}
	})

	// Pad the counts to a stable width so the hints do not shift as the
	// digit counts change.
	counts := padRight(fmt.Sprintf(" %d nodes • %d selected", snap.Len(), selected), 24)
	countSection := m.theme.Status.Render(counts)

	var right string
	switch {
	case m.statusMsg != "" && m.statusIsError:
		right = m.theme.Error.Render(m.statusMsg + " ")
	case m.statusMsg != "":
		right = m.theme.Status.Render(m.statusMsg + " ")
	case m.mode == modeAddChild || m.mode == modeEditLabel:
		right = m.theme.Help.Render("enter: confirm • esc: cancel ")
	default:
		right = m.theme.Help.Render("space: select • a: add • d: delete • r: re-root • ?: help • q: quit ")
	}

	remaining := m.width - lipgloss.Width(countSection) - lipgloss.Width(right)
	if remaining < 0 {
		remaining = 0
	}
	filler := m.theme.Status.Width(remaining).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, countSection, filler, right)
}

// SelectedID exposes the cursor position for tests and callers.
func (m Model) SelectedID() string {
	return m.treeview.SelectedID()
}

// Store exposes the backing store for tests.
func (m Model) Store() *tree.Store {
	return m.store
}

// StatusMessage returns the current status line and whether it is an error.
func (m Model) StatusMessage() (string, bool) {
	return m.statusMsg, m.statusIsError
}
