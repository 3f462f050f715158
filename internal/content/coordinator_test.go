package content_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"selam/internal/content"
	"selam/internal/store/local"
	"selam/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errPrimaryDown = errors.New("connection refused")

// fakePrimary is an in-memory primary store whose failure can be toggled
// per test.
type fakePrimary struct {
	mu      sync.Mutex
	down    bool
	records map[string]*types.Application
	order   []string
}

func newFakePrimary() *fakePrimary {
	return &fakePrimary{records: map[string]*types.Application{}}
}

func (f *fakePrimary) Insert(_ context.Context, app *types.Application) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return errPrimaryDown
	}
	f.records[app.ID] = app
	f.order = append(f.order, app.ID)
	return nil
}

func (f *fakePrimary) FindAll(_ context.Context, filter content.Filter) ([]*types.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, errPrimaryDown
	}
	out := make([]*types.Application, 0, len(f.order))
	for i := len(f.order) - 1; i >= 0; i-- {
		app, ok := f.records[f.order[i]]
		if !ok {
			continue
		}
		if want, filtered := filter["type"]; filtered && app.Type != want {
			continue
		}
		out = append(out, app)
	}
	return out, nil
}

func (f *fakePrimary) FindOne(_ context.Context, id string) (*types.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, errPrimaryDown
	}
	app, ok := f.records[id]
	if !ok {
		return nil, content.ErrNotFound
	}
	return app, nil
}

func (f *fakePrimary) UpdateOne(_ context.Context, id string, patch types.ApplicationPatch) (*types.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, errPrimaryDown
	}
	app, ok := f.records[id]
	if !ok {
		return nil, content.ErrNotFound
	}
	if patch.Status != nil {
		app.Status = *patch.Status
	}
	if patch.Name != nil {
		app.Name = *patch.Name
	}
	return app, nil
}

func (f *fakePrimary) DeleteOne(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return false, errPrimaryDown
	}
	if _, ok := f.records[id]; !ok {
		return false, nil
	}
	delete(f.records, id)
	return true, nil
}

func (f *fakePrimary) setDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down = down
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newCoordinator(t *testing.T, primary *fakePrimary) (*content.Coordinator[*types.Application, types.ApplicationPatch], string) {
	t.Helper()

	dir := t.TempDir()
	localStore := local.New[types.Application, types.ApplicationPatch](dir, "applications", quietLogger())

	var p content.PrimaryStore[*types.Application, types.ApplicationPatch]
	if primary != nil {
		p = primary
	}

	return content.NewCoordinator("applications", p, localStore, quietLogger(), 0), dir
}

func sampleApplication() *types.Application {
	return &types.Application{
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Type:     types.ApplicationVolunteer,
		Interest: "field",
		Status:   types.StatusPending,
	}
}

func TestSaveCommitsToPrimary(t *testing.T) {
	primary := newFakePrimary()
	coord, _ := newCoordinator(t, primary)

	app := sampleApplication()
	source, err := coord.Save(context.Background(), app)
	require.NoError(t, err)
	assert.Equal(t, content.SourcePrimary, source)
	assert.NotEmpty(t, app.ID)
	assert.False(t, app.CreatedAt.IsZero())

	apps, source, err := coord.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, content.SourcePrimary, source)
	require.Len(t, apps, 1)
	assert.Equal(t, app.ID, apps[0].ID)
}

func TestSaveFallsBackToLocalWhenPrimaryDown(t *testing.T) {
	primary := newFakePrimary()
	primary.setDown(true)
	coord, _ := newCoordinator(t, primary)

	app := sampleApplication()
	source, err := coord.Save(context.Background(), app)
	require.NoError(t, err)
	assert.Equal(t, content.SourceLocal, source)

	// primary still down: the record has to be recoverable from local
	apps, source, err := coord.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, content.SourceLocal, source)
	require.Len(t, apps, 1)
	assert.Equal(t, app.ID, apps[0].ID)
	assert.Equal(t, types.StatusPending, apps[0].Status)
}

func TestSaveFailsWhenBothStoresDown(t *testing.T) {
	primary := newFakePrimary()
	primary.setDown(true)

	// a data "dir" that is actually a file makes every local write fail
	dir := t.TempDir()
	blocked := filepath.Join(dir, "data")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0o644))

	localStore := local.New[types.Application, types.ApplicationPatch](
		filepath.Join(blocked, "nested"), "applications", quietLogger())
	coord := content.NewCoordinator[*types.Application, types.ApplicationPatch](
		"applications", primary, localStore, quietLogger(), 0)

	_, err := coord.Save(context.Background(), sampleApplication())
	require.ErrorIs(t, err, content.ErrStoreUnavailable)
}

func TestListPrefersPrimaryWhenItAnswers(t *testing.T) {
	primary := newFakePrimary()
	coord, _ := newCoordinator(t, primary)

	// one record lands locally while the primary is down
	primary.setDown(true)
	localOnly := sampleApplication()
	_, err := coord.Save(context.Background(), localOnly)
	require.NoError(t, err)

	// primary recovers: its empty answer is authoritative
	primary.setDown(false)
	apps, source, err := coord.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, content.SourcePrimary, source)
	assert.Empty(t, apps)
}

func TestSaveThenListNoDuplicates(t *testing.T) {
	primary := newFakePrimary()
	coord, _ := newCoordinator(t, primary)

	app := sampleApplication()
	_, err := coord.Save(context.Background(), app)
	require.NoError(t, err)

	apps, _, err := coord.List(context.Background(), nil)
	require.NoError(t, err)

	count := 0
	for _, got := range apps {
		if got.ID == app.ID {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestUpdateLocalOnlyRecord(t *testing.T) {
	primary := newFakePrimary()
	primary.setDown(true)
	coord, _ := newCoordinator(t, primary)

	app := sampleApplication()
	_, err := coord.Save(context.Background(), app)
	require.NoError(t, err)

	status := types.StatusApproved
	updated, source, err := coord.Update(context.Background(), app.ID, types.ApplicationPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, content.SourceLocal, source)
	assert.Equal(t, types.StatusApproved, updated.Status)

	apps, _, err := coord.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, types.StatusApproved, apps[0].Status)
}

func TestUpdateMissingRecordNotFound(t *testing.T) {
	for _, down := range []bool{false, true} {
		primary := newFakePrimary()
		primary.setDown(down)
		coord, _ := newCoordinator(t, primary)

		status := types.StatusReviewed
		_, _, err := coord.Update(context.Background(), "missing", types.ApplicationPatch{Status: &status})
		assert.ErrorIs(t, err, content.ErrNotFound)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	primary := newFakePrimary()
	coord, _ := newCoordinator(t, primary)

	app := sampleApplication()
	_, err := coord.Save(context.Background(), app)
	require.NoError(t, err)

	_, err = coord.Delete(context.Background(), app.ID)
	require.NoError(t, err)

	_, err = coord.Delete(context.Background(), app.ID)
	assert.ErrorIs(t, err, content.ErrNotFound)
}

func TestGetFallsBackToLocalOnPrimaryFailure(t *testing.T) {
	primary := newFakePrimary()
	primary.setDown(true)
	coord, _ := newCoordinator(t, primary)

	app := sampleApplication()
	_, err := coord.Save(context.Background(), app)
	require.NoError(t, err)

	got, source, err := coord.Get(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, content.SourceLocal, source)
	assert.Equal(t, "Jane Doe", got.Name)
}

func TestListFiltersLocally(t *testing.T) {
	coord, _ := newCoordinator(t, nil)

	volunteer := sampleApplication()
	_, err := coord.Save(context.Background(), volunteer)
	require.NoError(t, err)

	partner := sampleApplication()
	partner.Type = types.ApplicationPartner
	partner.Organization = "Acme"
	_, err = coord.Save(context.Background(), partner)
	require.NoError(t, err)

	apps, source, err := coord.List(context.Background(), content.Filter{"type": types.ApplicationPartner})
	require.NoError(t, err)
	assert.Equal(t, content.SourceLocal, source)
	require.Len(t, apps, 1)
	assert.Equal(t, "Acme", apps[0].Organization)
}
