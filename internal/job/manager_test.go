package job

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beatcut/beatcut/internal/domain"
	"github.com/beatcut/beatcut/internal/progress"
)

func TestCreateAndGetJob(t *testing.T) {
	manager := NewManager()

	created := manager.CreateJob()
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, StatusPending, created.Status)

	fetched, err := manager.GetJob(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
}

func TestGetJobNotFound(t *testing.T) {
	manager := NewManager()

	_, err := manager.GetJob("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJobLifecycle(t *testing.T) {
	manager := NewManager()
	created := manager.CreateJob()

	require.NoError(t, manager.StartJob(created.ID))

	assignments := []domain.Assignment{{IntervalIndex: 0, AssetID: "a"}}
	assets := []domain.MediaAsset{{ID: "a", IsValid: true}}
	require.NoError(t, manager.CompleteJob(created.ID, "out/final.mp4", assignments, assets))

	fetched, err := manager.GetJob(created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, fetched.Status)
	assert.Equal(t, 100.0, fetched.Progress)
	assert.Equal(t, "out/final.mp4", fetched.OutputRef)
	assert.Len(t, fetched.Assignments, 1)
	require.NotNil(t, fetched.EndTime)
}

func TestStartJobTwiceFails(t *testing.T) {
	manager := NewManager()
	created := manager.CreateJob()

	require.NoError(t, manager.StartJob(created.ID))
	err := manager.StartJob(created.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestFailJob(t *testing.T) {
	manager := NewManager()
	created := manager.CreateJob()
	require.NoError(t, manager.StartJob(created.ID))

	require.NoError(t, manager.FailJob(created.ID, errors.New("ffmpeg exploded")))

	fetched, err := manager.GetJob(created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, fetched.Status)
	assert.Equal(t, "ffmpeg exploded", fetched.Error)
}

func TestRecordEventUpdatesProgress(t *testing.T) {
	manager := NewManager()
	created := manager.CreateJob()

	manager.RecordEvent(created.ID, progress.Event{
		Type:           progress.TypeProgressUpdate,
		Message:        "Validated a.mp4",
		OverallPercent: 25,
	})
	manager.RecordEvent(created.ID, progress.Event{
		Type:           progress.TypeProgressUpdate,
		Message:        "Validated b.mp4",
		OverallPercent: 50,
	})

	fetched, err := manager.GetJob(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, fetched.Progress)
	assert.Equal(t, "Validated b.mp4", fetched.Message)
	assert.Len(t, fetched.Events, 2)
}

func TestGetJobReturnsSnapshot(t *testing.T) {
	manager := NewManager()
	created := manager.CreateJob()

	first, err := manager.GetJob(created.ID)
	require.NoError(t, err)

	manager.RecordEvent(created.ID, progress.Event{OverallPercent: 10})

	assert.Empty(t, first.Events, "earlier snapshot should not see later events")
}

func TestListJobsPagination(t *testing.T) {
	manager := NewManager()
	for i := 0; i < 25; i++ {
		manager.CreateJob()
	}

	resp := manager.ListJobs(1, 10)
	assert.Len(t, resp.Jobs, 10)
	assert.Equal(t, 25, resp.TotalJobs)
	assert.Equal(t, 3, resp.TotalPages)

	resp = manager.ListJobs(3, 10)
	assert.Len(t, resp.Jobs, 5)

	resp = manager.ListJobs(4, 10)
	assert.Empty(t, resp.Jobs)
}

func TestListJobsClampsPageSize(t *testing.T) {
	manager := NewManager()
	manager.CreateJob()

	resp := manager.ListJobs(0, 0)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, DefaultPageSize, resp.PageSize)

	resp = manager.ListJobs(1, MaxPageSize+1)
	assert.Equal(t, DefaultPageSize, resp.PageSize)
}
