package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/cards/internal/mockapi"
	"github.com/idilsaglam/cards/internal/model"
	"github.com/idilsaglam/cards/internal/notify"
	"github.com/idilsaglam/cards/internal/remote"
)

// fakeRemote answers from fixed values and counts calls.
type fakeRemote struct {
	page    remote.Page
	baseID  int
	err     error
	calls   atomic.Int32
	mu      sync.Mutex
	created []model.Draft
	updated []model.Draft
}

func (f *fakeRemote) List(ctx context.Context, perPage int) (remote.Page, error) {
	f.calls.Add(1)
	return f.page, f.err
}

func (f *fakeRemote) Create(ctx context.Context, d model.Draft) (remote.Created, error) {
	f.calls.Add(1)
	if f.err != nil {
		return remote.Created{}, f.err
	}
	f.mu.Lock()
	f.created = append(f.created, d)
	f.mu.Unlock()
	return remote.Created{Record: d.WithID(f.baseID)}, nil
}

func (f *fakeRemote) Update(ctx context.Context, id int, d model.Draft) error {
	f.calls.Add(1)
	if f.err == nil {
		f.mu.Lock()
		f.updated = append(f.updated, d)
		f.mu.Unlock()
	}
	return f.err
}

func (f *fakeRemote) Delete(ctx context.Context, id int) error {
	f.calls.Add(1)
	return f.err
}

var errBoom = &remote.RequestError{Op: "test", Status: 500, Err: errors.New("boom")}

func twoRecords() []model.Record {
	return []model.Record{
		{ID: 1, Title: "Cat Luna", Subtitle: "$180", Note: "calm", ImageRef: "1.jpg"},
		{ID: 2, Title: "Cat Milo", Subtitle: "$120", Note: "playful", ImageRef: "2.jpg"},
	}
}

func loaded(t *testing.T, f *fakeRemote, rec *notify.Recorder) *Controller {
	t.Helper()
	f.page = remote.Page{Records: twoRecords()}
	c := New(f, rec)
	require.NoError(t, c.Load(context.Background()))
	f.calls.Store(0)
	return c
}

func TestLoadReplacesState(t *testing.T) {
	f := &fakeRemote{page: remote.Page{Records: twoRecords()}}
	rec := &notify.Recorder{}
	c := New(f, rec)
	assert.Empty(t, c.Records())

	require.NoError(t, c.Load(context.Background()))
	assert.Equal(t, twoRecords(), c.Records())
	assert.Empty(t, rec.Notices(), "a successful load is silent")

	f.page = remote.Page{Records: []model.Record{{ID: 9, Title: "Cat Nala"}}}
	require.NoError(t, c.Load(context.Background()))
	assert.Equal(t, []model.Record{{ID: 9, Title: "Cat Nala"}}, c.Records())
}

func TestCreateBatch(t *testing.T) {
	f := &fakeRemote{baseID: 10}
	rec := &notify.Recorder{}
	c := loaded(t, f, rec)

	batch := model.DefaultBatch()
	require.NoError(t, c.CreateBatch(context.Background(), batch))

	assert.EqualValues(t, 1, f.calls.Load(), "one request per batch")
	require.Len(t, f.created, 1)
	assert.Equal(t, batch[2], f.created[0], "the last candidate is sent")

	got := c.Records()
	require.Len(t, got, 5)
	assert.Equal(t, twoRecords(), got[:2])
	for i, d := range batch {
		assert.Equal(t, d.WithID(10+i), got[2+i])
	}

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, notify.Success, last.Kind)
	assert.Equal(t, notify.OpCreate, last.Op)
}

func TestCreateBatchEmpty(t *testing.T) {
	f := &fakeRemote{baseID: 10}
	rec := &notify.Recorder{}
	c := loaded(t, f, rec)

	require.NoError(t, c.CreateBatch(context.Background(), nil))
	assert.EqualValues(t, 0, f.calls.Load())
	assert.Equal(t, twoRecords(), c.Records())
	assert.Empty(t, rec.Notices())
}

func TestUpdateMerges(t *testing.T) {
	f := &fakeRemote{}
	rec := &notify.Recorder{}
	c := loaded(t, f, rec)

	price := "$250"
	require.NoError(t, c.Update(context.Background(), 1, model.Patch{Subtitle: &price}))

	got := c.Records()
	want := twoRecords()
	want[0].Subtitle = "$250"
	assert.Equal(t, want, got)

	require.Len(t, f.updated, 1)
	assert.Equal(t, "Cat Luna", f.updated[0].Title, "unset patch fields are sent from the local record")
	assert.Equal(t, "$250", f.updated[0].Subtitle)

	last, _ := rec.Last()
	assert.Equal(t, "Record ID: 1 successfully updated", last.Message)
	assert.Equal(t, 1, last.ID)
}

func TestUpdateFullPatchKeepsID(t *testing.T) {
	f := &fakeRemote{}
	c := loaded(t, f, &notify.Recorder{})

	require.NoError(t, c.Update(context.Background(), 2, model.DefaultUpdate()))
	r, ok := c.Find(2)
	require.True(t, ok)
	assert.Equal(t, 2, r.ID)
	assert.Equal(t, "Cat Lovers", r.Title)
	assert.Equal(t, twoRecords()[0], c.Records()[0])
}

func TestUpdateUnknownID(t *testing.T) {
	f := &fakeRemote{}
	rec := &notify.Recorder{}
	c := loaded(t, f, rec)

	price := "$250"
	p := model.Patch{Subtitle: &price}
	require.NoError(t, c.Update(context.Background(), 42, p))

	assert.Equal(t, twoRecords(), c.Records())
	require.Len(t, f.updated, 1)
	assert.Equal(t, p.Apply(model.Record{}).Draft(), f.updated[0])

	require.Len(t, rec.Notices(), 1)
	n := rec.Notices()[0]
	assert.Equal(t, notify.Success, n.Kind)
	assert.Equal(t, notify.OpUpdate, n.Op)
	assert.Equal(t, 42, n.ID)
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name    string
		id      int
		wantIDs []int
	}{
		{name: "existing", id: 2, wantIDs: []int{1}},
		{name: "unknown id is a no-op", id: 42, wantIDs: []int{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeRemote{}
			rec := &notify.Recorder{}
			c := loaded(t, f, rec)

			require.NoError(t, c.Delete(context.Background(), tt.id))
			assert.Equal(t, tt.wantIDs, ids(c.Records()))

			require.Len(t, rec.Notices(), 1)
			assert.Equal(t, notify.Success, rec.Notices()[0].Kind)
		})
	}
}

func TestFailuresLeaveStateUnchanged(t *testing.T) {
	tests := []struct {
		name    string
		op      notify.Op
		id      int
		message string
		run     func(*Controller) error
	}{
		{
			name:    "load",
			op:      notify.OpLoad,
			message: "Failed to fetch records",
			run:     func(c *Controller) error { return c.Load(context.Background()) },
		},
		{
			name:    "create",
			op:      notify.OpCreate,
			message: "Failed to add records",
			run:     func(c *Controller) error { return c.CreateBatch(context.Background(), model.DefaultBatch()) },
		},
		{
			name:    "update",
			op:      notify.OpUpdate,
			id:      1,
			message: "Failed to update record ID: 1",
			run:     func(c *Controller) error { return c.Update(context.Background(), 1, model.DefaultUpdate()) },
		},
		{
			name:    "delete",
			op:      notify.OpDelete,
			id:      2,
			message: "Failed to delete record ID: 2",
			run:     func(c *Controller) error { return c.Delete(context.Background(), 2) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeRemote{}
			rec := &notify.Recorder{}
			c := loaded(t, f, rec)
			before := c.Records()

			f.err = errBoom
			err := tt.run(c)
			require.Error(t, err)
			assert.ErrorIs(t, err, remote.ErrRequestFailed)

			assert.Equal(t, before, c.Records())
			notices := rec.Notices()
			require.Len(t, notices, 1)
			assert.Equal(t, notify.Failure, notices[0].Kind)
			assert.Equal(t, tt.op, notices[0].Op)
			assert.Equal(t, tt.id, notices[0].ID)
			assert.Equal(t, tt.message, notices[0].Message)
		})
	}
}

func TestRecordsReturnsCopy(t *testing.T) {
	c := loaded(t, &fakeRemote{}, &notify.Recorder{})
	got := c.Records()
	got[0].Title = "changed"
	assert.Equal(t, "Cat Luna", c.Records()[0].Title)
}

func TestConcurrentOperations(t *testing.T) {
	f := &fakeRemote{baseID: 100}
	c := loaded(t, f, &notify.Recorder{})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Update(context.Background(), 1, model.DefaultUpdate())
		}()
		go func() {
			defer wg.Done()
			c.Delete(context.Background(), 2)
		}()
	}
	wg.Wait()

	assert.Equal(t, []int{1}, ids(c.Records()))
	assert.Equal(t, "Cat Lovers", c.Records()[0].Title)
}

// The walk-through against the in-memory collection: load two, create a batch
// at id 10, update one, delete one.
func TestScenarioAgainstMockCollection(t *testing.T) {
	store := mockapi.NewStore(mockapi.DefaultSeed()...)
	var requests atomic.Int32
	router := mockapi.NewRouter("/api", store, zerolog.Nop())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		router.ServeHTTP(w, r)
	}))
	defer srv.Close()

	rec := &notify.Recorder{}
	c := New(remote.New(srv.URL+"/api"), rec, WithPageSize(2))
	ctx := context.Background()

	require.NoError(t, c.Load(ctx))
	assert.Equal(t, []int{1, 2}, ids(c.Records()))

	store.SetNextID(10)
	requests.Store(0)
	require.NoError(t, c.CreateBatch(ctx, model.DefaultBatch()))
	assert.EqualValues(t, 1, requests.Load())
	assert.Equal(t, []int{1, 2, 10, 11, 12}, ids(c.Records()))

	price := "$250"
	require.NoError(t, c.Update(ctx, 1, model.Patch{Subtitle: &price}))
	r, _ := c.Find(1)
	assert.Equal(t, "$250", r.Subtitle)
	assert.Equal(t, "Cat Luna", r.Title)

	require.NoError(t, c.Delete(ctx, 2))
	assert.Equal(t, []int{1, 10, 11, 12}, ids(c.Records()))
	assert.Equal(t, 4, c.Len())

	assert.Len(t, rec.Notices(), 3)
}

func ids(rs []model.Record) []int {
	out := make([]int, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}
