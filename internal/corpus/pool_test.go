package corpus

import (
	"errors"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunOrdered_ResultsLandInInputOrder(t *testing.T) {
	items := make([]int, 64)
	for i := range items {
		items[i] = i
	}

	results := runOrdered(items, 8, func(n int) (string, error) {
		return strconv.Itoa(n), nil
	})

	require.Len(t, results, len(items))
	for i, r := range results {
		require.NoError(t, r.Err)
		require.Equal(t, strconv.Itoa(i), r.Value)
	}
}

func TestRunOrdered_ErrorsStayAtTheirSlot(t *testing.T) {
	boom := errors.New("boom")
	results := runOrdered([]int{0, 1, 2}, 2, func(n int) (int, error) {
		if n == 1 {
			return 0, boom
		}
		return n * 10, nil
	})

	require.NoError(t, results[0].Err)
	require.ErrorIs(t, results[1].Err, boom)
	require.Equal(t, 20, results[2].Value)
}

func TestRunOrdered_ConcurrencyIsBounded(t *testing.T) {
	var inFlight, peak atomic.Int32

	runOrdered(make([]struct{}, 32), 3, func(struct{}) (struct{}, error) {
		cur := inFlight.Add(1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		inFlight.Add(-1)
		return struct{}{}, nil
	})

	require.LessOrEqual(t, peak.Load(), int32(3))
}

func TestRunOrdered_EmptyInput_NoResults(t *testing.T) {
	results := runOrdered(nil, 4, func(int) (int, error) { return 0, nil })
	require.Nil(t, results)
}
