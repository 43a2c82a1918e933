package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gss-dashboard/internal/model"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	s, err := Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func strp(s string) *string { return &s }

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	require.NoError(t, s.SaveSession(ctx, "s1"))
	sel, err := s.GetSelection(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, sel.Category)
	assert.Nil(t, sel.Group)

	require.NoError(t, s.UpdateSelection(ctx, "s1", model.Selection{Category: strp("relationship")}))
	sel, err = s.GetSelection(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, sel.Category)
	assert.Equal(t, "relationship", *sel.Category)
	assert.Nil(t, sel.Group)

	n, err := s.CountSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, s.DeleteSession(ctx, "s1"))
	_, err = s.GetSelection(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateMissingSession(t *testing.T) {
	s := openTest(t)
	err := s.UpdateSelection(context.Background(), "nope", model.Selection{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEvents(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	require.NoError(t, s.SaveSession(ctx, "s1"))

	require.NoError(t, s.SaveEvent(ctx, model.SessionEvent{SessionID: "s1", Axis: "category", Value: strp("child_suffer"), Accepted: true}))
	require.NoError(t, s.SaveEvent(ctx, model.SessionEvent{SessionID: "s1", Axis: "group", Value: strp("bogus")}))
	require.NoError(t, s.SaveEvent(ctx, model.SessionEvent{SessionID: "s1", Axis: "group", Value: nil, Accepted: true}))
	require.NoError(t, s.SaveEvent(ctx, model.SessionEvent{SessionID: "other", Axis: "group", Value: strp("sex"), Accepted: true}))

	events, err := s.ListEvents(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "child_suffer", *events[0].Value)
	assert.True(t, events[0].Accepted)
	assert.False(t, events[1].Accepted)
	assert.Nil(t, events[2].Value)
	assert.False(t, events[2].CreatedAt.IsZero())

	require.NoError(t, s.DeleteSession(ctx, "s1"))
	events, err = s.ListEvents(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, events)
}
