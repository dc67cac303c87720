package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shellbox/internal/auth"
	"shellbox/internal/testutil"
)

func TestGet_OwnerAndAdmin(t *testing.T) {
	mgr, _, _, reg := newTestManager(5)
	reg.Insert(testutil.TestSession("s1", "alice"))

	info, err := mgr.Get(context.Background(), "s1", alice)
	require.NoError(t, err)
	assert.Equal(t, "s1", info.ID)

	_, err = mgr.Get(context.Background(), "s1", auth.Identity{Name: "bob"})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = mgr.Get(context.Background(), "s1", auth.Identity{Name: "root", Admin: true})
	require.NoError(t, err)
}

func TestList_ScopedByOwner(t *testing.T) {
	mgr, _, _, reg := newTestManager(5)
	reg.Insert(testutil.TestSession("s1", "alice"))
	reg.Insert(testutil.TestSession("s2", "alice"))
	reg.Insert(testutil.TestSession("s3", "bob"))

	assert.Len(t, mgr.List(context.Background(), alice), 2)
	assert.Len(t, mgr.List(context.Background(), auth.Identity{Name: "bob"}), 1)
	assert.Len(t, mgr.List(context.Background(), auth.Identity{Name: "root", Admin: true}), 3)
	assert.Empty(t, mgr.List(context.Background(), auth.Identity{Name: "carol"}))
}

func TestTerminate_Idempotent(t *testing.T) {
	mgr, real, _, reg := newTestManager(5)
	reg.Insert(testutil.TestSession("s1", "alice"))

	real.On("DestroyUnit", mock.Anything, "ctr-s1").Return(nil)

	require.NoError(t, mgr.Terminate(context.Background(), "s1", alice))
	assert.Equal(t, 0, reg.Active())

	// Second terminate, and terminating an unknown id, are no-op successes.
	require.NoError(t, mgr.Terminate(context.Background(), "s1", alice))
	require.NoError(t, mgr.Terminate(context.Background(), "never-existed", alice))

	real.AssertNumberOfCalls(t, "DestroyUnit", 1)
}

func TestTerminate_Forbidden(t *testing.T) {
	mgr, _, _, reg := newTestManager(5)
	reg.Insert(testutil.TestSession("s1", "alice"))

	err := mgr.Terminate(context.Background(), "s1", auth.Identity{Name: "bob"})
	require.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, 1, reg.Active())
}

func TestTerminate_SwallowsTeardownFailure(t *testing.T) {
	mgr, real, _, reg := newTestManager(5)
	reg.Insert(testutil.TestSession("s1", "alice"))

	real.On("DestroyUnit", mock.Anything, "ctr-s1").Return(assert.AnError)

	require.NoError(t, mgr.Terminate(context.Background(), "s1", alice))
	assert.Equal(t, 0, reg.Active())
}
