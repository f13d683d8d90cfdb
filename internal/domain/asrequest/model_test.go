package asrequest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frostdesk/internal/core/apperror"
)

func TestTransition_ForwardOnly(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	t.Run("full forward walk", func(t *testing.T) {
		r := New("CoolAir", "Kim Store")
		require.Equal(t, StatusReceived, r.Status)

		require.NoError(t, r.Transition(StatusInProgress, now))
		require.NoError(t, r.Transition(StatusCompleted, now))
		require.NoError(t, r.Transition(StatusSettled, now))
		assert.Equal(t, StatusSettled, r.Status)
	})

	t.Run("skipping a state fails", func(t *testing.T) {
		r := New("CoolAir", "Kim Store")
		err := r.Transition(StatusCompleted, now)
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeInvalidTransition, appErr.Code)
		assert.Equal(t, StatusReceived, r.Status)
	})

	t.Run("moving backward fails", func(t *testing.T) {
		r := New("CoolAir", "Kim Store")
		require.NoError(t, r.Transition(StatusInProgress, now))
		err := r.Transition(StatusReceived, now)
		require.Error(t, err)
	})

	t.Run("settled is terminal", func(t *testing.T) {
		r := New("CoolAir", "Kim Store")
		require.NoError(t, r.Transition(StatusInProgress, now))
		require.NoError(t, r.Transition(StatusCompleted, now))
		require.NoError(t, r.Transition(StatusSettled, now))
		assert.Error(t, r.Transition(StatusCompleted, now))
	})
}

func TestTransition_SettlementMonthAutoTag(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	t.Run("stamped on entering in_progress", func(t *testing.T) {
		r := New("CoolAir", "Kim Store")
		require.NoError(t, r.Transition(StatusInProgress, now))
		assert.Equal(t, "2025-03", r.SettlementMonthTag)
	})

	t.Run("manual tag is preserved", func(t *testing.T) {
		r := New("CoolAir", "Kim Store")
		r.SettlementMonthTag = "2025-02"
		require.NoError(t, r.Transition(StatusInProgress, now))
		assert.Equal(t, "2025-02", r.SettlementMonthTag)
	})
}

func TestTotalAmount(t *testing.T) {
	r := New("CoolAir", "Kim Store")
	r.ASCost = 50_000
	r.ReceptionFee = 10_000
	assert.Equal(t, int64(60_000), r.TotalAmount())
}

func TestAwaitsSettlement(t *testing.T) {
	cases := []struct {
		status Status
		want   bool
	}{
		{StatusReceived, false},
		{StatusInProgress, false},
		{StatusCompleted, true},
		{StatusSettled, true},
	}
	for _, tc := range cases {
		r := New("CoolAir", "Kim Store")
		r.Status = tc.status
		assert.Equal(t, tc.want, r.AwaitsSettlement(), "status %s", tc.status)
	}
}

func TestSettlementMonth(t *testing.T) {
	assert.Equal(t, "2025-03", SettlementMonth(2025, time.March))
	assert.Equal(t, "2024-12", SettlementMonth(2024, time.December))
}
