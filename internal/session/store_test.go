package session

import (
	"testing"
	"time"

	"haloscope/internal/explore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestStore(ttl time.Duration) (*Store, *clock) {
	c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := NewStore(ttl, explore.DefaultView(""))
	s.now = c.now
	return s, c
}

func TestStore_GetCreatesSession(t *testing.T) {
	s, _ := newTestStore(time.Hour)

	id, view := s.Get("")
	require.NotEmpty(t, id)
	assert.Equal(t, explore.DefaultView(""), view)

	same, _ := s.Get(id)
	assert.Equal(t, id, same)
	assert.Equal(t, 1, s.Len())

	other, _ := s.Get("not-a-session")
	assert.NotEqual(t, id, other)
}

func TestStore_UpdateAndReset(t *testing.T) {
	s, _ := newTestStore(time.Hour)
	id, _ := s.Get("")

	_, view := s.Update(id, func(v *explore.View) {
		v.X = "dist"
		v.LogY = true
	})
	assert.Equal(t, "dist", view.X)
	assert.True(t, view.LogY)

	_, view = s.Get(id)
	assert.Equal(t, "dist", view.X)

	assert.Equal(t, explore.DefaultView(""), s.Reset(id))
	_, view = s.Get(id)
	assert.Equal(t, "vmax", view.X)
}

func TestStore_Expiry(t *testing.T) {
	s, c := newTestStore(time.Hour)
	idle, _ := s.Get("")
	active, _ := s.Get("")

	c.t = c.t.Add(45 * time.Minute)
	s.Get(active)
	c.t = c.t.Add(30 * time.Minute)

	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.Len())

	fresh, _ := s.Get(idle)
	assert.NotEqual(t, idle, fresh)
}
