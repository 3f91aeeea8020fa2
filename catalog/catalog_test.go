package catalog

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Empty(t *testing.T) {
	c := New()
	assert.NotNil(t, c.Activities())
	assert.Empty(t, c.Activities())
	assert.Empty(t, c.Events())
}

func TestCreate(t *testing.T) {
	c := New()

	a, err := c.Create("  Running ", nil)
	require.NoError(t, err)
	assert.Equal(t, Activity{ID: 1, Name: "Running"}, a)

	child, err := c.Create("Intervals", &a.ID)
	require.NoError(t, err)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, 1, *child.ParentID)

	assert.Len(t, c.Activities(), 2)
}

func TestCreate_Errors(t *testing.T) {
	c := New()

	_, err := c.Create("   ", nil)
	assert.ErrorIs(t, err, ErrEmptyName)

	missing := 42
	_, err = c.Create("Orphan", &missing)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "parent activity 42")

	assert.Empty(t, c.Activities())
}

func TestFindOrCreate_CollapsesWhitespaceAndCase(t *testing.T) {
	c := New()

	var ids []int
	for _, name := range []string{"boom", "boom ", " boom", "bOOm"} {
		a, err := c.FindOrCreate(name, nil)
		require.NoError(t, err)
		ids = append(ids, a.ID)
	}

	assert.Equal(t, []int{1, 1, 1, 1}, ids)
	require.Len(t, c.Activities(), 1)
	assert.Equal(t, "boom", c.Activities()[0].Name)
}

func TestFindOrCreate_ScopedByParent(t *testing.T) {
	c := New()

	workout, err := c.FindOrCreate("Workout", nil)
	require.NoError(t, err)
	cardio, err := c.FindOrCreate("Cardio", nil)
	require.NoError(t, err)

	squat1, err := c.FindOrCreate("Squat", &workout.ID)
	require.NoError(t, err)
	squat2, err := c.FindOrCreate("squat", &cardio.ID)
	require.NoError(t, err)
	squat3, err := c.FindOrCreate("SQUAT", &workout.ID)
	require.NoError(t, err)
	top, err := c.FindOrCreate("Squat", nil)
	require.NoError(t, err)

	assert.NotEqual(t, squat1.ID, squat2.ID)
	assert.Equal(t, squat1.ID, squat3.ID)
	assert.NotEqual(t, squat1.ID, top.ID)
	assert.Len(t, c.Activities(), 5)
}

func TestFindOrCreate_UnicodeFolding(t *testing.T) {
	c := New()

	a, err := c.FindOrCreate("Straße", nil)
	require.NoError(t, err)
	b, err := c.FindOrCreate("STRASSE", nil)
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)
}

func TestFindOrCreate_EmptyName(t *testing.T) {
	_, err := New().FindOrCreate("\t", nil)
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestCreateEvent(t *testing.T) {
	c := New()
	workout, err := c.Create("Workout", nil)
	require.NoError(t, err)

	day, err := c.CreateEvent(workout.ID, "Workout 2020-04-01", nil)
	require.NoError(t, err)
	assert.Equal(t, Event{ID: 1, ActivityID: workout.ID, Notes: "Workout 2020-04-01"}, day)

	set, err := c.CreateEvent(workout.ID, "25, 30", &day.ID)
	require.NoError(t, err)
	require.NotNil(t, set.ParentID)
	assert.Equal(t, day.ID, *set.ParentID)

	_, err = c.CreateEvent(99, "x", nil)
	assert.ErrorIs(t, err, ErrNotFound)

	missing := 99
	_, err = c.CreateEvent(workout.ID, "x", &missing)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Len(t, c.Events(), 2)
}

func TestReturnedSlicesAreCopies(t *testing.T) {
	c := New()
	_, err := c.Create("A", nil)
	require.NoError(t, err)

	got := c.Activities()
	got[0].Name = "modified"

	assert.Equal(t, "A", c.Activities()[0].Name)
}

func TestParentIDNotAliased(t *testing.T) {
	c := New()
	parent, err := c.Create("Parent", nil)
	require.NoError(t, err)

	id := parent.ID
	child, err := c.Create("Child", &id)
	require.NoError(t, err)
	id = 1000

	assert.Equal(t, parent.ID, *child.ParentID)
}

func TestReset(t *testing.T) {
	c := New()
	a, err := c.Create("A", nil)
	require.NoError(t, err)
	_, err = c.CreateEvent(a.ID, "", nil)
	require.NoError(t, err)

	c.Reset()
	activities, events := c.Counts()
	assert.Zero(t, activities)
	assert.Zero(t, events)

	b, err := c.Create("B", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, b.ID)
}

func TestFindOrCreate_Concurrent(t *testing.T) {
	c := New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.FindOrCreate("Bench Press", nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, c.Activities(), 1)
}
