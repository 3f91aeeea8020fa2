package importer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnsco/potential/catalog"
)

func sheetServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestImporter_Run(t *testing.T) {
	ts := sheetServer(t, http.StatusOK, testSheet)
	cat := catalog.New()

	result, err := New(cat, ts.URL).Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID.String())
	assert.Equal(t, 2, result.Days)
	assert.Equal(t, 4, result.Activities)
	assert.Equal(t, 5, result.Events)
	assert.False(t, result.EndedAt.Before(result.StartedAt))

	activities := cat.Activities()
	require.Len(t, activities, 4)
	workout := activities[0]
	assert.Equal(t, WorkoutActivity, workout.Name)
	assert.Nil(t, workout.ParentID)
	for _, a := range activities[1:] {
		require.NotNil(t, a.ParentID)
		assert.Equal(t, workout.ID, *a.ParentID)
	}

	events := cat.Events()
	require.Len(t, events, 5)

	assert.Equal(t, "Workout 2020-04-01", events[0].Notes)
	assert.Nil(t, events[0].ParentID)
	assert.Equal(t, workout.ID, events[0].ActivityID)

	assert.Equal(t, "25, 30, 35, 37.5 (cheat at 5)", events[1].Notes)
	require.NotNil(t, events[1].ParentID)
	assert.Equal(t, events[0].ID, *events[1].ParentID)

	assert.Equal(t, "Workout 2020-04-02", events[3].Notes)
	require.NotNil(t, events[4].ParentID)
	assert.Equal(t, events[3].ID, *events[4].ParentID)
}

func TestImporter_Run_Twice(t *testing.T) {
	ts := sheetServer(t, http.StatusOK, testSheet)
	cat := catalog.New()
	imp := New(cat, ts.URL)

	first, err := imp.Run(context.Background())
	require.NoError(t, err)
	second, err := imp.Run(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	activities, events := cat.Counts()
	assert.Equal(t, 4, activities, "activities are reused across imports")
	assert.Equal(t, 10, events, "events are recorded per import")
}

func TestImporter_Run_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{
			name:    "http error",
			status:  http.StatusBadGateway,
			body:    "bad gateway",
			wantErr: "unexpected status code 502: bad gateway",
		},
		{
			name:    "bad header",
			status:  http.StatusOK,
			body:    "Day\tLift\n",
			wantErr: "parsing sheet",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := sheetServer(t, tt.status, tt.body)
			cat := catalog.New()

			result, err := New(cat, ts.URL).Run(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.False(t, result.EndedAt.IsZero())

			activities, events := cat.Counts()
			assert.Zero(t, activities)
			assert.Zero(t, events)
		})
	}
}

func TestImporter_Run_NoSheetURL(t *testing.T) {
	_, err := New(catalog.New(), "").Run(context.Background())
	assert.ErrorIs(t, err, ErrNoSheetURL)
}

func TestImporter_Run_Canceled(t *testing.T) {
	ts := sheetServer(t, http.StatusOK, testSheet)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(catalog.New(), ts.URL).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
