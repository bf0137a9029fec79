package chart

import (
	"sort"
	"time"

	"candleview/event"
)

// Normalize flattens chunks into bars with absolute times and offsets from
// the earliest chunk start. Bars keep the order in which they are
// encountered; chunks are expected to be chronological already.
func Normalize(chunks []event.RawChunk) ([]Bar, error) {
	if len(chunks) == 0 {
		return nil, ErrEmptyInput
	}

	globalStart := chunks[0].ChunkStart
	total := 0
	for _, chunk := range chunks {
		globalStart = min(globalStart, chunk.ChunkStart)
		total += len(chunk.Bars)
	}

	bars := make([]Bar, 0, total)
	for _, chunk := range chunks {
		for _, raw := range chunk.Bars {
			epoch := chunk.ChunkStart + raw.Time
			bars = append(bars, Bar{
				Time:       time.Unix(epoch, 0),
				Open:       raw.Open,
				High:       raw.High,
				Low:        raw.Low,
				Close:      raw.Close,
				TickVolume: raw.TickVolume,
				TimeOffset: epoch - globalStart,
			})
		}
	}
	return bars, nil
}

// NormalizeSorted is Normalize followed by a stable sort on absolute time,
// for feeds that deliver chunks out of order.
func NormalizeSorted(chunks []event.RawChunk) ([]Bar, error) {
	bars, err := Normalize(chunks)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].TimeOffset < bars[j].TimeOffset
	})
	return bars, nil
}
