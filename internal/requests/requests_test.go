package requests

import (
	"errors"
	"testing"

	"redirector/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerTransitions(t *testing.T) {
	var tr Tracker

	for _, op := range Ops {
		assert.Equal(t, State{}, tr.State(op), op.String())
	}

	tr.Start(Get)
	assert.Equal(t, State{Loading: true}, tr.State(Get))
	assert.Equal(t, State{}, tr.State(GetStatistics), "other operations are untouched")

	tr.Succeed(Get, nil)
	assert.Equal(t, State{Loaded: true}, tr.State(Get))

	boom := errors.New("boom")
	tr.Start(GetStatistics)
	tr.Fail(GetStatistics, boom)
	st := tr.State(GetStatistics)
	assert.False(t, st.Loading)
	assert.False(t, st.Loaded)
	assert.ErrorIs(t, st.Err, boom)
	assert.Equal(t, State{Loaded: true}, tr.State(Get))
}

func TestSucceededWithFailedItems(t *testing.T) {
	var tr Tracker
	tr.Start(Add)
	tr.Succeed(Add, []models.FailedItem{{Path: "/a", Message: "exists"}})

	st := tr.State(Add)
	assert.True(t, st.Loaded)
	var partial *models.PartialFailureError
	require.ErrorAs(t, st.Err, &partial)
	assert.Equal(t, "add", partial.Op)
	assert.Len(t, partial.Failed, 1)
	assert.Contains(t, st.Err.Error(), "/a (exists)")
}

func TestPendingClearsError(t *testing.T) {
	var tr Tracker
	tr.Fail(Remove, errors.New("x"))
	tr.Start(Remove)
	assert.Equal(t, State{Loading: true}, tr.State(Remove))
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "get", Get.String())
	assert.Equal(t, "add", Add.String())
	assert.Equal(t, "remove", Remove.String())
	assert.Equal(t, "getstatistics", GetStatistics.String())
	assert.Equal(t, "unknown", Op(42).String())
	assert.Len(t, (&Tracker{}).Snapshot(), len(Ops))
}
