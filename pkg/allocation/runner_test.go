package allocation

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner() *Runner {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRunner(NewSolver(nil), logger, RunnerConfig{Seed: 1})
}

func TestRunner_SolveShowRoom_CommitsAcceptedResult(t *testing.T) {
	inv := NewInventory(nil, false)
	_, err := inv.AddProducts([]*Product{
		newTestProduct("A", 1000, 1),
		newTestProduct("B", 1000, 3),
	})
	require.NoError(t, err)

	r := newTestRunner()
	sh := NewShowRoom("SR1", decimal.NewFromInt(1200))

	metrics, solved, err := r.SolveShowRoom(context.Background(), inv, sh, 3, "run-1")
	require.NoError(t, err)
	require.True(t, solved)
	assert.True(t, metrics.Solved())
	assert.Equal(t, "1200", sh.CalculatedTotal().String())
	assert.Equal(t, 1, r.cache.Len(), "an accepted result must be memoized")
}

func TestRunner_SolveShowRoom_ExhaustedLadderLeavesStateUntouched(t *testing.T) {
	inv := NewInventory(nil, false)
	_, err := inv.AddProducts([]*Product{newTestProduct("A", 2, 10)})
	require.NoError(t, err)
	fingerprint := inv.Fingerprint()

	r := newTestRunner()
	sh := NewShowRoom("SR1", decimal.NewFromInt(100))

	metrics, solved, err := r.SolveShowRoom(context.Background(), inv, sh, 3, "run-1")
	require.NoError(t, err)
	assert.False(t, solved)
	assert.Empty(t, sh.Sales)
	assert.Equal(t, fingerprint, inv.Fingerprint(), "a failed sweep must not consume stock")
	assert.Equal(t, "SR1", metrics.ShowRoom.Reference)
	assert.Equal(t, 0, r.cache.Len())
}

func TestRunner_SolveShowRoom_ReplaysCachedResult(t *testing.T) {
	seed := []*Product{
		newTestProduct("A", 1000, 1),
		newTestProduct("B", 1000, 3),
	}
	r := newTestRunner()

	inv1 := NewInventory(nil, false)
	_, err := inv1.AddProducts([]*Product{seed[0].Clone(), seed[1].Clone()})
	require.NoError(t, err)
	sh1 := NewShowRoom("SR1", decimal.NewFromInt(1200))
	_, solved, err := r.SolveShowRoom(context.Background(), inv1, sh1, 3, "run-1")
	require.NoError(t, err)
	require.True(t, solved)
	cached := r.cache.Len()

	inv2 := NewInventory(nil, false)
	_, err = inv2.AddProducts([]*Product{seed[0].Clone(), seed[1].Clone()})
	require.NoError(t, err)
	sh2 := NewShowRoom("SR1", decimal.NewFromInt(1200))
	_, solved, err = r.SolveShowRoom(context.Background(), inv2, sh2, 3, "run-2")
	require.NoError(t, err)
	require.True(t, solved)

	assert.Equal(t, sh1.CalculatedTotal().String(), sh2.CalculatedTotal().String())
	assert.Equal(t, cached, r.cache.Len(), "an identical rerun must hit the cache, not add to it")
}

func TestRunner_RunMonth_ConservesAggregateAcrossShowRooms(t *testing.T) {
	inv := NewInventory(nil, false)
	_, err := inv.AddProducts([]*Product{
		newTestProduct("A", 1000, 1),
		newTestProduct("B", 1000, 3),
	})
	require.NoError(t, err)

	showrooms := []*ShowRoom{
		NewShowRoom("SR1", decimal.NewFromInt(500)),
		NewShowRoom("SR2", decimal.NewFromInt(700)),
		NewShowRoom("SR-ZERO", decimal.Zero),
	}

	r := newTestRunner()
	result, err := r.RunMonth(context.Background(), inv, showrooms, 3)
	require.NoError(t, err)

	require.NotNil(t, result.Aggregate)
	assert.Equal(t, "ALL-MONTH-3", result.Aggregate.Reference)
	assert.Len(t, result.Metrics, 2)
	assert.Empty(t, result.Unsolved)
	assert.Empty(t, showrooms[2].Sales, "a zero-target showroom is skipped")

	distributed := showrooms[0].CalculatedTotal().Add(showrooms[1].CalculatedTotal())
	assert.Equal(t, result.Aggregate.CalculatedTotal().String(), distributed.String(),
		"everything the aggregate sold must reappear on the showrooms")
}

func TestRunner_RunMonth_UnsolvedShowRoomIsReportedNotFatal(t *testing.T) {
	inv := NewInventory(nil, false)
	_, err := inv.AddProducts([]*Product{newTestProduct("A", 10, 1)})
	require.NoError(t, err)

	showrooms := []*ShowRoom{
		NewShowRoom("SR1", decimal.NewFromInt(6)),
		NewShowRoom("SR2", decimal.NewFromInt(1000)),
	}

	r := newTestRunner()
	result, err := r.RunMonth(context.Background(), inv, showrooms, 5)
	require.NoError(t, err)

	require.Len(t, result.Unsolved, 1)
	assert.Equal(t, "SR2", result.Unsolved[0].ShowRoom.Reference)
	require.Len(t, result.Metrics, 1)
	assert.Equal(t, "SR1", result.Metrics[0].ShowRoom.Reference)

	var units Quantity
	for _, sh := range showrooms {
		for _, s := range sh.Sales {
			units += s.UnitsSold
		}
	}
	assert.Equal(t, Quantity(10), units, "the last showroom absorbs whatever stock remains")
}

func TestRunner_RunMonth_EmptyBatch(t *testing.T) {
	inv := NewInventory(nil, false)
	r := newTestRunner()

	result, err := r.RunMonth(context.Background(), inv, []*ShowRoom{NewShowRoom("SR1", decimal.Zero)}, 1)
	require.NoError(t, err)
	assert.Nil(t, result.Aggregate)
	assert.Empty(t, result.Metrics)
}

func TestRunner_SplitOverDays(t *testing.T) {
	sh := NewShowRoom("SR1", decimal.NewFromInt(120))
	src := newTestProduct("A", 12, 10)
	sh.AddSale(Sale{Product: src, UnitsSold: 12})

	r := newTestRunner()
	inv := NewInventory(nil, false)
	require.NoError(t, r.SplitOverDays(inv, sh, 1, 2027, 4, time.Friday))

	require.Len(t, sh.DailySales, 4)

	var units Quantity
	for _, day := range sh.DailySales {
		units += day.TotalUnits()
		assert.NotEqual(t, time.Friday, day.Date.Weekday(), "no sales on the closure day")

		var customerUnits Quantity
		for _, customer := range day.Customers {
			require.NotEmpty(t, customer.Purchases)
			for _, s := range customer.Purchases {
				customerUnits += s.UnitsSold
			}
		}
		assert.Equal(t, day.TotalUnits(), customerUnits, "the customer fan-out must conserve the day's units")
	}
	assert.Equal(t, Quantity(12), units, "the daily fan-out must conserve the month's units")
}

func TestCustomersForUnits(t *testing.T) {
	assert.Equal(t, 1, customersForUnits(1))
	assert.Equal(t, 1, customersForUnits(3))
	assert.Equal(t, 2, customersForUnits(7))
	assert.Equal(t, 10, customersForUnits(30))
}
