package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/store/jsonstore"
	"github.com/idilsaglam/tasks/internal/ui"
)

// listItem adapts model.Task to bubbles/list.Item.
type listItem struct {
	task model.Task
}

func (i listItem) Title() string       { return i.task.Label }
func (i listItem) Description() string { return string(i.task.Status) }
func (i listItem) FilterValue() string { return i.task.Label }

// itemDelegate renders one task per line.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	t := ui.Current()
	box := ui.MutedStyle.Render(t.BoxUnchecked)
	text := it.task.Label
	if it.task.Status.Done() {
		box = ui.SuccessStyle.Render(t.BoxChecked)
		text = ui.DoneStyle.Render(text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = ui.SelectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+box+" "+text)
}

var (
	toggleBind = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "complete/reopen"))
	addBind    = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
)

type listModel struct {
	store   *jsonstore.Store
	list    list.Model
	changed bool

	// Inline add
	adding bool
	ti     textinput.Model
	addErr string

	width, height int
}

func newListModel(s *jsonstore.Store) listModel {
	l := list.New(toListItems(s.Tasks()), itemDelegate{}, 80, 20)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = ui.TitleStyle
	l.Styles.HelpStyle = ui.HelpStyle
	l.Styles.PaginationStyle = ui.HelpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{toggleBind, addBind} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{toggleBind, addBind} }

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New task..."
	ti.CharLimit = 200

	m := listModel{store: s, list: l, ti: ti, width: 80, height: 24}
	m.list.Title = m.header()
	return m
}

func toListItems(tasks []model.Task) []list.Item {
	out := make([]list.Item, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, listItem{task: t})
	}
	return out
}

// header shows live counts.
func (m listModel) header() string {
	d, p := m.store.Counts()
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		ui.TitleStyle.Render("Tasks"),
		ui.SuccessStyle.Render("✔"), d,
		ui.PendingStyle.Render("•"), p,
		ui.AccentStyle.Render("Total"), m.store.Len(),
	)
}

// refresh rebuilds the list from the store and keeps label selected.
func (m *listModel) refresh(label string) tea.Cmd {
	tasks := m.store.Tasks()
	cmd := m.list.SetItems(toListItems(tasks))
	m.list.Title = m.header()
	for i, t := range tasks {
		if t.Label == label {
			m.list.Select(i)
			break
		}
	}
	return cmd
}

// runInteractiveList runs the Bubble Tea list and reports whether the store changed.
func runInteractiveList(s *jsonstore.Store) (bool, error) {
	p := tea.NewProgram(newListModel(s), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	fm, ok := final.(listModel)
	return ok && fm.changed, nil
}

func (m listModel) Init() tea.Cmd { return nil }

func (m listModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.resize()
		return m, nil
	}

	if m.adding {
		return m.updateAdding(msg)
	}

	// Let the filter input own the keyboard while typing.
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.list.FilterState() != list.FilterApplied {
				return m, tea.Quit
			}
		case " ", "space":
			cmd := m.toggleSelected()
			return m, cmd
		case "a":
			m.adding = true
			m.addErr = ""
			m.ti.SetValue("")
			m.resize()
			cmd := m.ti.Focus()
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *listModel) toggleSelected() tea.Cmd {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return nil
	}
	label := it.task.Label
	if it.task.Status.Done() {
		m.store.Insert(model.Label(label))
	} else {
		m.store.Complete(label)
	}
	m.changed = true
	if m.list.FilterState() == list.FilterApplied {
		// Rebuilding items would drop the filter; update in place instead.
		it.task.Status = m.store.List()[label]
		m.list.Title = m.header()
		return m.list.SetItem(m.list.GlobalIndex(), it)
	}
	return m.refresh(label)
}

func (m listModel) updateAdding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			label, err := model.NewLabel(m.ti.Value())
			if err != nil {
				m.addErr = "Label cannot be empty"
				return m, nil
			}
			m.store.Insert(label)
			m.changed = true
			m.stopAdding()
			cmd := m.refresh(label.String())
			return m, cmd
		case "esc":
			m.stopAdding()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *listModel) stopAdding() {
	m.adding = false
	m.addErr = ""
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize()
}

func (m *listModel) resize() {
	h := m.height - 4
	if m.adding {
		h -= 3
	}
	if h < 3 {
		h = 3
	}
	w := m.width - 4
	if w < 10 {
		w = 10
	}
	m.list.SetSize(w, h)
}

func (m listModel) View() string {
	content := m.list.View()
	if m.adding {
		bar := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
		title := "Add task"
		if m.addErr != "" {
			title += " - " + ui.ErrorStyle.Render(m.addErr)
		}
		content += "\n" + bar.Render(title+"\n"+m.ti.View())
	}
	return ui.FrameStyle.Render(strings.TrimRight(content, "\n"))
}
