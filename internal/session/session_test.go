package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"gss-dashboard/internal/dataset"
	"gss-dashboard/internal/model"
	"gss-dashboard/internal/options"
	"gss-dashboard/internal/store"
)

func testData() *dataset.Dataset {
	var records []model.Record
	for i, sex := range []string{"male", "female", "male", "female"} {
		r := model.NewRecord()
		r.Values["sex"] = sex
		r.Values["region"] = []string{"pacific", "mountain"}[i%2]
		r.Values["satjob"] = []string{"very satisfied", "a little dissat"}[i/2]
		records = append(records, r)
	}
	return dataset.New(records)
}

type fakeRecorder struct {
	mu       sync.Mutex
	sessions map[string]model.Selection
	events   []model.SessionEvent
	deleted  []string
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{sessions: make(map[string]model.Selection)}
}

func (f *fakeRecorder) SaveSession(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[id] = model.Selection{}
	return nil
}

func (f *fakeRecorder) UpdateSelection(_ context.Context, id string, sel model.Selection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[id] = sel
	return nil
}

func (f *fakeRecorder) SaveEvent(_ context.Context, ev model.SessionEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeRecorder) DeleteSession(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func strp(s string) *string { return &s }

func TestSessionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	m := NewManager(testData(), options.Default(), nil, nil)

	a, err := m.Create(ctx)
	require.NoError(t, err)
	b, err := m.Create(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, m.Len())

	_, err = m.Change(ctx, a.ID, model.AxisCategory, strp("job_satisfaction"))
	require.NoError(t, err)
	out, err := m.Change(ctx, a.ID, model.AxisGroup, strp("sex"))
	require.NoError(t, err)
	assert.True(t, out.Rendered)

	_, ok := a.Chart()
	assert.True(t, ok)
	_, ok = b.Chart()
	assert.False(t, ok, "other session untouched")
	assert.Nil(t, b.Snapshot().Selection.Category)

	snap := a.Snapshot()
	assert.Equal(t, 1, snap.Renders)
	require.NotNil(t, snap.Chart)
	assert.Len(t, snap.Chart.Series, 2)
}

func TestChangeRecordsEvents(t *testing.T) {
	ctx := context.Background()
	rec := newFakeRecorder()
	m := NewManager(testData(), options.Default(), rec, nil)
	s, err := m.Create(ctx)
	require.NoError(t, err)

	_, err = m.Change(ctx, s.ID, model.AxisGroup, strp("region"))
	require.NoError(t, err)
	out, err := m.Change(ctx, s.ID, model.AxisGroup, strp("nope"))
	require.NoError(t, err)
	assert.False(t, out.Accepted)

	require.Len(t, rec.events, 2)
	assert.True(t, rec.events[0].Accepted)
	assert.False(t, rec.events[1].Accepted)
	require.NotNil(t, rec.sessions[s.ID].Group)
	assert.Equal(t, "region", *rec.sessions[s.ID].Group, "rejected write not persisted")
}

func TestChangeUnknownSession(t *testing.T) {
	m := NewManager(testData(), options.Default(), nil, nil)
	_, err := m.Change(context.Background(), "missing", model.AxisGroup, strp("sex"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	rec := newFakeRecorder()
	m := NewManager(testData(), options.Default(), rec, nil)
	s, err := m.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, s.ID))
	_, err = m.Get(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []string{s.ID}, rec.deleted)
	assert.ErrorIs(t, m.Delete(ctx, s.ID), ErrNotFound)
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	ctx := context.Background()
	m := NewManager(testData(), options.Default(), nil, nil)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	idle, err := m.Create(ctx)
	require.NoError(t, err)
	now = now.Add(20 * time.Minute)
	active, err := m.Create(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, m.Sweep(ctx, 10*time.Minute))
	_, err = m.Get(idle.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Get(active.ID)
	assert.NoError(t, err)
}

func TestRunStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	m := NewManager(testData(), options.Default(), nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, time.Millisecond, time.Hour)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()
	<-done
}

func TestManagerWithSQLiteStore(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open("file:session_test?mode=memory&cache=shared")
	require.NoError(t, err)
	defer st.Close()

	m := NewManager(testData(), options.Default(), st, nil)
	s, err := m.Create(ctx)
	require.NoError(t, err)
	_, err = m.Change(ctx, s.ID, model.AxisCategory, strp("job_satisfaction"))
	require.NoError(t, err)
	_, err = m.Change(ctx, s.ID, model.AxisGroup, nil)
	require.NoError(t, err)

	events, err := st.ListEvents(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Nil(t, events[1].Value)

	sel, err := st.GetSelection(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, sel.Category)
	assert.Equal(t, "job_satisfaction", *sel.Category)
}
