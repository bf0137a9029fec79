package event

import (
	"fmt"

	"github.com/tidwall/murmur3"
)

// RawBar is a single bar as delivered by the bar service. Time is a delta in
// seconds from the ChunkStart of the chunk it belongs to.
type RawBar struct {
	Time       int64   `codec:"Time"`
	Open       float64 `codec:"Open"`
	High       float64 `codec:"High"`
	Low        float64 `codec:"Low"`
	Close      float64 `codec:"Close"`
	TickVolume uint64  `codec:"TickVolume"`
}

// RawChunk is a server-delivered batch of bars sharing a base timestamp.
type RawChunk struct {
	ChunkStart int64    `codec:"ChunkStart"`
	Bars       []RawBar `codec:"Bars"`
}

type Query struct {
	Broker         string
	Symbol         string
	Timeframe      int
	Start          int64
	End            int64
	UseMessagePack bool
}

func (q Query) String() string {
	return fmt.Sprintf("%s %s M%d [%d:%d]", q.Broker, q.Symbol, q.Timeframe, q.Start, q.End)
}

// WithSymbol returns a copy of q for another symbol.
func (q Query) WithSymbol(symbol string) Query {
	q.Symbol = symbol
	return q
}

// Key hashes every field that changes the response body.
func (q Query) Key() uint32 {
	key := []byte(q.Broker)
	key = append(key, 0)
	key = append(key, q.Symbol...)
	key = append(key, 0)
	key = appendInt(key, int64(q.Timeframe))
	key = appendInt(key, q.Start)
	key = appendInt(key, q.End)
	if q.UseMessagePack {
		key = append(key, 1)
	} else {
		key = append(key, 0)
	}
	return murmur3.Sum32Bytes(key)
}

func appendInt(b []byte, v int64) []byte {
	return append(b,
		byte(0xff&v), byte(0xff&(v>>8)), byte(0xff&(v>>16)), byte(0xff&(v>>24)),
		byte(0xff&(v>>32)), byte(0xff&(v>>40)), byte(0xff&(v>>48)), byte(0xff&(v>>56)))
}

// LoadRequest asks the loader actor for the chunks of a query.
type LoadRequest struct {
	Query Query
}

// LoadResult is the reply to a LoadRequest. Exactly one of Chunks or Err is
// meaningful.
type LoadResult struct {
	Query  Query
	Chunks []RawChunk
	Err    error
	Cached bool
}

// Invalidate drops every cached response of the loader actor.
type Invalidate struct{}
