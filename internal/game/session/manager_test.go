package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/campredict/internal/game/camping"
	"github.com/cory-johannsen/campredict/internal/game/ruleset"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestManager() (*Manager, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	m := NewManager()
	m.now = clock.Now
	return m, clock
}

func loadTables(t testing.TB) *camping.Tables {
	t.Helper()
	tables, _, err := ruleset.Load("../../../content")
	require.NoError(t, err)
	return tables
}

func TestManager_Create(t *testing.T) {
	m, clock := newTestManager()
	sess := m.Create()
	assert.NotEqual(t, uuid.Nil, sess.ID)
	assert.Equal(t, clock.Now(), sess.CreatedAt)
	assert.Equal(t, clock.Now(), sess.LastSeen())
	assert.Equal(t, 1, m.Count())
	assert.False(t, sess.Warning().Active)

	_, ok := sess.Last()
	assert.False(t, ok)
}

func TestManager_CreateUniqueIDs(t *testing.T) {
	m, _ := newTestManager()
	a := m.Create()
	b := m.Create()
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, m.Count())
}

func TestManager_Get(t *testing.T) {
	m, clock := newTestManager()
	sess := m.Create()
	clock.Advance(time.Minute)

	got, err := m.Get(sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)
	assert.Equal(t, clock.Now(), got.LastSeen(), "Get marks the session as seen")
}

func TestManager_GetUnknown(t *testing.T) {
	m, _ := newTestManager()
	_, err := m.Get(uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_Remove(t *testing.T) {
	m, _ := newTestManager()
	sess := m.Create()
	require.NoError(t, m.Remove(sess.ID))
	assert.Equal(t, 0, m.Count())

	_, err := m.Get(sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, m.Remove(sess.ID), ErrSessionNotFound)
}

func TestManager_Prune(t *testing.T) {
	m, clock := newTestManager()
	stale := m.Create()
	clock.Advance(30 * time.Minute)
	fresh := m.Create()
	clock.Advance(45 * time.Minute)

	removed := m.Prune(clock.Now(), time.Hour)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, m.Count())

	_, err := m.Get(stale.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestManager_PruneKeepsRecentlyUsed(t *testing.T) {
	m, clock := newTestManager()
	sess := m.Create()
	clock.Advance(50 * time.Minute)
	sess.ObserveDefence(0, 0, 0)
	clock.Advance(50 * time.Minute)

	assert.Equal(t, 0, m.Prune(clock.Now(), time.Hour))
}

func TestManager_PruneRejectsNonPositiveTTL(t *testing.T) {
	m, clock := newTestManager()
	assert.Panics(t, func() { m.Prune(clock.Now(), 0) })
}

func TestSession_PredictSetsWarning(t *testing.T) {
	tables := loadTables(t)
	m, _ := newTestManager()
	sess := m.Create()

	in := camping.DefaultInput()
	in.Distance = 13
	in.OD = 2
	in.Improvements = 3
	in.PreviousCarry = 7.4

	out, err := sess.Predict(in, tables)
	require.NoError(t, err)
	assert.Equal(t, camping.Defence{Current: 11.0, Maximum: 11.2}, out.Prediction.Defence)
	assert.Equal(t, Warning{Active: true, Limit: 11.0}, out.Warning)

	last, ok := sess.Last()
	require.True(t, ok)
	assert.Equal(t, out.Prediction, last)
}

func TestSession_PredictInvalidLeavesStateUnchanged(t *testing.T) {
	tables := loadTables(t)
	m, _ := newTestManager()
	sess := m.Create()

	_, w := sess.ObserveDefence(6, 0, 0)
	require.True(t, w.Active)

	in := camping.DefaultInput()
	in.OD = 99
	_, err := sess.Predict(in, tables)
	var verrs camping.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	assert.Equal(t, Warning{Active: true, Limit: 10.8}, sess.Warning())
	_, ok := sess.Last()
	assert.False(t, ok)
}

func TestSession_ObserveDefenceHysteresis(t *testing.T) {
	m, _ := newTestManager()
	sess := m.Create()

	d, w := sess.ObserveDefence(6, 0, 0)
	assert.Equal(t, 10.8, d.Current)
	assert.Equal(t, Warning{Active: true, Limit: 10.8}, w)

	_, w = sess.ObserveDefence(6, 1, 0)
	assert.Equal(t, Warning{Active: true, Limit: 10.8}, w, "a higher value keeps the latched limit")

	_, w = sess.ObserveDefence(5, 0, 0)
	assert.Equal(t, Warning{}, w)

	_, w = sess.ObserveDefence(0, 0, 0)
	assert.Equal(t, Warning{}, w)
}

func TestSession_ResetWarningRelatchesAtNextValue(t *testing.T) {
	m, clock := newTestManager()
	sess := m.Create()

	_, w := sess.ObserveDefence(6, 0, 0)
	require.True(t, w.Active)

	clock.Advance(time.Minute)
	assert.Equal(t, Warning{}, sess.ResetWarning())
	assert.Equal(t, Warning{}, sess.Warning())
	assert.Equal(t, clock.Now(), sess.LastSeen())

	_, w = sess.ObserveDefence(6, 1, 0)
	assert.Equal(t, Warning{Active: true, Limit: 11.8}, w)
}

func TestSession_ObserveDefencePermissive(t *testing.T) {
	m, _ := newTestManager()
	sess := m.Create()

	d, w := sess.ObserveDefence(-1, 3, 2)
	assert.Equal(t, camping.NeutralDefence(), d)
	assert.False(t, w.Active)
}

func TestSession_ConcurrentUse(t *testing.T) {
	m, _ := newTestManager()
	sess := m.Create()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(od int) {
			defer wg.Done()
			sess.ObserveDefence(od%7, 0, 0)
			_, _ = m.Get(sess.ID)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, m.Count())
}

// Property: sessions never share warning state.
func TestProperty_SessionsAreIsolated(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		m, _ := newTestManager()
		a := m.Create()
		b := m.Create()

		od := rapid.IntRange(0, camping.MaxOD).Draw(rt, "od")
		imp := rapid.IntRange(0, camping.MaxImprovements).Draw(rt, "improvements")
		a.ObserveDefence(od, imp, 0)

		assert.Equal(rt, Warning{}, b.Warning())
	})
}

// Property: Prune removes exactly the sessions idle longer than ttl.
func TestProperty_PruneCount(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		m, clock := newTestManager()
		ages := rapid.SliceOfN(rapid.IntRange(0, 120), 0, 20).Draw(rt, "ages")

		// Each session is opened age minutes before now.
		maxAge := 120
		start := clock.Now()
		expired := 0
		for _, age := range ages {
			clock.now = start.Add(time.Duration(maxAge-age) * time.Minute)
			m.Create()
			if age > 60 {
				expired++
			}
		}
		now := start.Add(time.Duration(maxAge) * time.Minute)
		assert.Equal(rt, expired, m.Prune(now, time.Hour))
		assert.Equal(rt, len(ages)-expired, m.Count())
	})
}
