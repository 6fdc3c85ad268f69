package client_test

import (
	"errors"
	"testing"

	"github.com/finbooks/ledger_backend/pkg/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entryView struct {
	Status   string
	Approved bool
}

func TestApplyOptimistic_KeepsMutationOnSuccess(t *testing.T) {
	view := entryView{Status: "DRAFT"}

	err := client.ApplyOptimistic(&view,
		func(v *entryView) { v.Status = "PENDING_APPROVAL" },
		func() error { return nil })

	require.NoError(t, err)
	assert.Equal(t, "PENDING_APPROVAL", view.Status)
}

func TestApplyOptimistic_RestoresPreImageOnFailure(t *testing.T) {
	view := entryView{Status: "PENDING_APPROVAL", Approved: false}
	callErr := errors.New("entry is already approved")

	err := client.ApplyOptimistic(&view,
		func(v *entryView) { v.Approved = true },
		func() error { return callErr })

	require.Error(t, err)
	assert.ErrorIs(t, err, callErr)
	assert.False(t, view.Approved, "failed call must roll the view back")
	assert.Equal(t, "PENDING_APPROVAL", view.Status)
}

func TestApplyOptimistic_MutationThenFailureRestoresAllFields(t *testing.T) {
	view := entryView{Status: "POSTED"}

	_ = client.ApplyOptimistic(&view,
		func(v *entryView) {
			v.Status = "REVERSED"
			v.Approved = true
		},
		func() error { return errors.New("conflict") })

	assert.Equal(t, entryView{Status: "POSTED"}, view)
}

func TestApplyOptimisticFunc_DeepCopyRestore(t *testing.T) {
	statuses := map[string]string{"e1": "DRAFT", "e2": "DRAFT"}

	snapshot := func() func() {
		saved := make(map[string]string, len(statuses))
		for k, v := range statuses {
			saved[k] = v
		}
		return func() { statuses = saved }
	}

	err := client.ApplyOptimisticFunc(snapshot,
		func() {
			statuses["e1"] = "POSTED"
			statuses["e2"] = "POSTED"
		},
		func() error { return errors.New("batch rejected") })

	require.Error(t, err)
	assert.Equal(t, map[string]string{"e1": "DRAFT", "e2": "DRAFT"}, statuses)
}

func TestApplyOptimisticFunc_SuccessSkipsRestore(t *testing.T) {
	statuses := map[string]string{"e1": "DRAFT"}

	err := client.ApplyOptimisticFunc(
		func() func() {
			return func() { t.Fatal("restore must not run on success") }
		},
		func() { statuses["e1"] = "POSTED" },
		func() error { return nil })

	require.NoError(t, err)
	assert.Equal(t, "POSTED", statuses["e1"])
}
