package tui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/cards/internal/catalog"
	"github.com/idilsaglam/cards/internal/mockapi"
	"github.com/idilsaglam/cards/internal/notify"
	"github.com/idilsaglam/cards/internal/remote"
)

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func setup(t *testing.T, h http.Handler) (Model, Notifier) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	notices := NewNotifier()
	ctrl := catalog.New(remote.New(srv.URL+"/api"), notices)
	return New(context.Background(), ctrl, notices, "Cards"), notices
}

func mockHandler(store *mockapi.Store) http.Handler {
	return mockapi.NewRouter("/api", store, zerolog.Nop())
}

// step feeds msg to m and runs the resulting command once.
func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd != nil {
		next, _ = m.Update(cmd())
		m = next.(Model)
	}
	return m
}

func loadedModel(t *testing.T, store *mockapi.Store) (Model, Notifier) {
	t.Helper()
	m, notices := setup(t, mockHandler(store))
	assert.Equal(t, 1, m.inFlight, "the first load starts with the program")

	next, _ := m.Update(opCmd(m.ctx, notify.OpLoad, m.ctrl.Load)())
	m = next.(Model)
	require.Len(t, m.list.Items(), 2)
	assert.Zero(t, m.inFlight)
	return m, notices
}

func TestLoadAndCreate(t *testing.T) {
	store := mockapi.NewStore(mockapi.DefaultSeed()...)
	m, notices := loadedModel(t, store)
	assert.Contains(t, m.View(), "Cat Luna")

	store.SetNextID(10)
	m = step(t, m, keyPress("a"))
	require.Len(t, m.list.Items(), 5)
	assert.Equal(t, 12, m.list.Items()[4].(cardItem).rec.ID)

	next, cmd := m.Update(noticeMsg(<-notices))
	m = next.(Model)
	assert.NotNil(t, cmd, "keeps listening for notices")
	assert.Contains(t, m.statusLine(), "Records Created")
}

func TestUpdateAndDeleteSelected(t *testing.T) {
	store := mockapi.NewStore(mockapi.DefaultSeed()...)
	m, notices := loadedModel(t, store)

	m.list.Select(1)
	m = step(t, m, keyPress("u"))
	assert.Equal(t, "Cat Lovers", m.list.Items()[1].(cardItem).rec.Title)
	assert.Equal(t, "Cat Luna", m.list.Items()[0].(cardItem).rec.Title)
	n := <-notices
	assert.Equal(t, 2, n.ID)

	m = step(t, m, keyPress("d"))
	require.Len(t, m.list.Items(), 1)
	assert.Equal(t, 1, m.list.Items()[0].(cardItem).rec.ID)
	assert.Equal(t, 0, m.list.Index())
	n = <-notices
	assert.Equal(t, notify.OpDelete, n.Op)
}

func TestFailureShowsNotice(t *testing.T) {
	m, notices := setup(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))

	m = step(t, m, keyPress("r"))
	assert.Empty(t, m.list.Items())

	next, _ := m.Update(noticeMsg(<-notices))
	m = next.(Model)
	assert.Contains(t, m.statusLine(), "Failed to fetch records")
}

func TestKeysWithoutSelection(t *testing.T) {
	m, _ := setup(t, mockHandler(mockapi.NewStore()))

	for _, k := range []string{"u", "d"} {
		next, cmd := m.Update(keyPress(k))
		assert.Nil(t, cmd)
		m = next.(Model)
	}
	assert.Equal(t, 1, m.inFlight)
}

func TestQuit(t *testing.T) {
	m, _ := setup(t, mockHandler(mockapi.NewStore()))
	_, cmd := m.Update(keyPress("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestWindowSize(t *testing.T) {
	m, _ := setup(t, mockHandler(mockapi.NewStore()))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(Model)
	assert.Equal(t, 96, m.list.Width())
	assert.Equal(t, 36, m.list.Height())
}
