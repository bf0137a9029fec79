package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"candleview/event"
)

func TestNormalize(t *testing.T) {
	chunks := []event.RawChunk{
		{ChunkStart: 1000, Bars: []event.RawBar{
			{Time: 0, Open: 1, High: 2, Low: 0.5, Close: 1.5, TickVolume: 10},
			{Time: 60, Open: 1.5, High: 2, Low: 1, Close: 1.2, TickVolume: 4},
		}},
		{ChunkStart: 400, Bars: []event.RawBar{
			{Time: 30, Open: 3, High: 4, Low: 2, Close: 3.5},
		}},
	}

	bars, err := Normalize(chunks)
	require.NoError(t, err)
	require.Len(t, bars, 3)

	// encounter order is kept, offsets are from the earliest chunk start
	assert.Equal(t, int64(600), bars[0].TimeOffset)
	assert.Equal(t, int64(660), bars[1].TimeOffset)
	assert.Equal(t, int64(30), bars[2].TimeOffset)

	assert.Equal(t, int64(1060), bars[1].Time.Unix())
	assert.Equal(t, int64(430), bars[2].Time.Unix())
	assert.Equal(t, uint64(10), bars[0].TickVolume)
	assert.Equal(t, 1.2, bars[1].Close)
}

func TestNormalizeEmpty(t *testing.T) {
	_, err := Normalize(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestNormalizeChunkWithoutBars(t *testing.T) {
	bars, err := Normalize([]event.RawChunk{{ChunkStart: 5}})
	require.NoError(t, err)
	assert.Empty(t, bars)
}

func TestNormalizeSorted(t *testing.T) {
	chunks := []event.RawChunk{
		{ChunkStart: 200, Bars: []event.RawBar{{Time: 0}, {Time: 10}}},
		{ChunkStart: 100, Bars: []event.RawBar{{Time: 0}, {Time: 10}}},
	}

	bars, err := NormalizeSorted(chunks)
	require.NoError(t, err)

	var got []int64
	for _, b := range bars {
		got = append(got, b.TimeOffset)
	}
	assert.Equal(t, []int64{0, 10, 100, 110}, got)
}

func TestSeriesPriceRange(t *testing.T) {
	_, _, ok := NewSeries(nil).PriceRange()
	assert.False(t, ok)

	s := NewSeries([]Bar{
		{Open: 2, High: 3, Low: 1, Close: 2},
		{Open: 5, High: 9, Low: 4, Close: 6},
	})
	low, high, ok := s.PriceRange()
	require.True(t, ok)
	assert.Equal(t, 1.0, low)
	assert.Equal(t, 9.0, high)
	assert.Equal(t, 2, s.Len())
}

func TestBarUp(t *testing.T) {
	assert.True(t, Bar{Open: 1, Close: 2}.Up())
	assert.False(t, Bar{Open: 2, Close: 1}.Up())
	assert.False(t, Bar{Open: 1, Close: 1}.Up())
}

func TestNormalizeOffsets(t *testing.T) {
	tests := []struct {
		name   string
		chunks []event.RawChunk
		want   []int64
	}{
		{
			name:   "single chunk at zero",
			chunks: []event.RawChunk{{ChunkStart: 0, Bars: []event.RawBar{{Time: 0}}}},
			want:   []int64{0},
		},
		{
			name: "two chunks",
			chunks: []event.RawChunk{
				{ChunkStart: 100, Bars: []event.RawBar{{Time: 0}}},
				{ChunkStart: 200, Bars: []event.RawBar{{Time: 0}}},
			},
			want: []int64{0, 100},
		},
		{
			name: "later chunk first",
			chunks: []event.RawChunk{
				{ChunkStart: 200, Bars: []event.RawBar{{Time: 5}}},
				{ChunkStart: 100, Bars: []event.RawBar{{Time: 5}}},
			},
			want: []int64{105, 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bars, err := Normalize(tt.chunks)
			require.NoError(t, err)
			got := make([]int64, len(bars))
			for i, b := range bars {
				got[i] = b.TimeOffset
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
