package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/cards/internal/model"
	"github.com/idilsaglam/cards/internal/ui"
)

// cardItem adapts a Record to bubbles/list.Item
type cardItem struct {
	rec model.Record
}

func (i cardItem) Title() string       { return i.rec.Title }
func (i cardItem) Description() string { return i.rec.Note }
func (i cardItem) FilterValue() string { return i.rec.Title + " " + i.rec.Note }

func toItems(records []model.Record) []list.Item {
	out := make([]list.Item, 0, len(records))
	for _, r := range records {
		out = append(out, cardItem{rec: r})
	}
	return out
}

// cardDelegate renders each record as a three-line card.
type cardDelegate struct{}

func (d cardDelegate) Height() int                               { return 3 }
func (d cardDelegate) Spacing() int                              { return 1 }
func (d cardDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d cardDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ci, ok := item.(cardItem)
	if !ok {
		return
	}
	it := ci.rec
	width := m.Width() - 4
	if width < 20 {
		width = 20
	}

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render(">") + " "
	}
	head := fmt.Sprintf("%s %s  %s",
		mutedStyle.Render(fmt.Sprintf("#%d", it.ID)),
		titleStyle.Render(ui.Truncate(it.Title, width/2)),
		priceStyle.Render(it.Subtitle))

	fmt.Fprintln(w, prefix+head)
	fmt.Fprintln(w, "  "+ui.Truncate(it.Note, width))
	fmt.Fprint(w, "  "+mutedStyle.Render("▣ "+ui.Truncate(it.ImageRef, width-2)))
}
