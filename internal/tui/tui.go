// Package tui is the interactive card list.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/cards/internal/model"
	"github.com/idilsaglam/cards/internal/notify"
)

// Controller is what the screen drives. *catalog.Controller implements it.
type Controller interface {
	Records() []model.Record
	Load(ctx context.Context) error
	CreateBatch(ctx context.Context, drafts []model.Draft) error
	Update(ctx context.Context, id int, p model.Patch) error
	Delete(ctx context.Context, id int) error
}

// Notifier forwards notices to the running program through a channel.
type Notifier chan notify.Notice

func NewNotifier() Notifier { return make(Notifier, 16) }

func (n Notifier) Notify(x notify.Notice) { n <- x }

// messages
type (
	opDoneMsg struct{ op notify.Op }
	noticeMsg notify.Notice
)

type keyMap struct {
	add, update, remove, reload key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add cats")),
		update: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "update")),
		remove: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	}
}

func (k keyMap) bindings() []key.Binding {
	return []key.Binding{k.add, k.update, k.remove, k.reload}
}

type Model struct {
	ctrl    Controller
	notices Notifier
	ctx     context.Context

	list    list.Model
	spinner spinner.Model
	keys    keyMap

	inFlight int
	last     *notify.Notice
	width    int
	height   int
}

// New builds the screen. notices must be the notifier the controller reports to.
func New(ctx context.Context, ctrl Controller, notices Notifier, title string) Model {
	keys := newKeyMap()

	l := list.New(nil, cardDelegate{}, 80-4, 24-4)
	l.Title = title
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("card", "cards")
	l.AdditionalShortHelpKeys = keys.bindings
	l.AdditionalFullHelpKeys = keys.bindings

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	return Model{
		ctrl:    ctrl,
		notices: notices,
		ctx:     ctx,
		list:    l,
		spinner: sp,
		keys:    keys,

		inFlight: 1,
		width:    80,
		height:   24,
	}
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(ctx context.Context, ctrl Controller, notices Notifier, title string) error {
	p := tea.NewProgram(New(ctx, ctrl, notices, title), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init starts the first load; New already counts it as in flight.
func (m Model) Init() tea.Cmd {
	return tea.Batch(opCmd(m.ctx, notify.OpLoad, m.ctrl.Load), m.spinner.Tick, m.waitForNotice())
}

// opCmd wraps one controller call in a command.
func opCmd(ctx context.Context, op notify.Op, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		// failures already reached the user as a notice
		_ = fn(ctx)
		return opDoneMsg{op: op}
	}
}

// run starts a call. Calls are not queued: pressing keys quickly leaves
// several in flight.
func (m *Model) run(op notify.Op, fn func(context.Context) error) tea.Cmd {
	m.inFlight++
	return opCmd(m.ctx, op, fn)
}

func (m Model) waitForNotice() tea.Cmd {
	if m.notices == nil {
		return nil
	}
	ch := m.notices
	return func() tea.Msg { return noticeMsg(<-ch) }
}

func (m Model) selectedID() (int, bool) {
	it, ok := m.list.SelectedItem().(cardItem)
	if !ok {
		return 0, false
	}
	return it.rec.ID, true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case opDoneMsg:
		if m.inFlight > 0 {
			m.inFlight--
		}
		m.refresh()
		return m, nil

	case noticeMsg:
		n := notify.Notice(msg)
		m.last = &n
		return m, m.waitForNotice()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		// while the filter prompt is open every key belongs to it
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case msg.String() == "q" || msg.String() == "ctrl+c":
			return m, tea.Quit
		case key.Matches(msg, m.keys.add):
			ctrl := m.ctrl
			cmd := m.run(notify.OpCreate, func(ctx context.Context) error {
				return ctrl.CreateBatch(ctx, model.DefaultBatch())
			})
			return m, cmd
		case key.Matches(msg, m.keys.update):
			id, ok := m.selectedID()
			if !ok {
				return m, nil
			}
			ctrl := m.ctrl
			cmd := m.run(notify.OpUpdate, func(ctx context.Context) error {
				return ctrl.Update(ctx, id, model.DefaultUpdate())
			})
			return m, cmd
		case key.Matches(msg, m.keys.remove):
			id, ok := m.selectedID()
			if !ok {
				return m, nil
			}
			ctrl := m.ctrl
			cmd := m.run(notify.OpDelete, func(ctx context.Context) error {
				return ctrl.Delete(ctx, id)
			})
			return m, cmd
		case key.Matches(msg, m.keys.reload):
			cmd := m.run(notify.OpLoad, m.ctrl.Load)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// refresh copies controller state into the list, keeping the cursor in range.
func (m *Model) refresh() {
	idx := m.list.Index()
	m.list.SetItems(toItems(m.ctrl.Records()))
	if n := len(m.list.Items()); n > 0 {
		if idx >= n {
			idx = n - 1
		}
		m.list.Select(idx)
	}
}

func (m *Model) resize() {
	// border, padding and the status line
	m.list.SetSize(m.width-4, m.height-4)
}

func (m Model) statusLine() string {
	var parts []string
	if m.inFlight > 0 {
		parts = append(parts, m.spinner.View()+" "+mutedStyle.Render(fmt.Sprintf("%d request(s) in flight", m.inFlight)))
	}
	if m.last != nil {
		if m.last.Kind == notify.Failure {
			parts = append(parts, errorStyle.Render("✖ "+m.last.String()))
		} else {
			parts = append(parts, successStyle.Render("✔ "+m.last.String()))
		}
	}
	if len(parts) == 0 {
		return mutedStyle.Render("ready")
	}
	return strings.Join(parts, "  ")
}

func (m Model) View() string {
	return panelStyle.Render(m.list.View() + "\n" + m.statusLine())
}
