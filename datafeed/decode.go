package datafeed

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-msgpack/codec"
	"github.com/valyala/fastjson"

	"candleview/event"
)

var ErrMalformedPayload = errors.New("datafeed: malformed payload")

var (
	parserPool    fastjson.ParserPool
	msgpackHandle codec.MsgpackHandle
)

// DecodeJSON decodes a JSON array of chunks.
func DecodeJSON(body []byte) ([]event.RawChunk, error) {
	p := parserPool.Get()
	defer parserPool.Put(p)

	v, err := p.ParseBytes(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	items, err := v.Array()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	chunks := make([]event.RawChunk, 0, len(items))
	for i, item := range items {
		chunk, err := decodeChunk(item)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

func decodeChunk(v *fastjson.Value) (event.RawChunk, error) {
	if v.Type() != fastjson.TypeObject {
		return event.RawChunk{}, fmt.Errorf("%w: chunk is %s", ErrMalformedPayload, v.Type())
	}
	start, err := number(v, "ChunkStart")
	if err != nil {
		return event.RawChunk{}, err
	}
	chunkStart, err := start.Int64()
	if err != nil {
		return event.RawChunk{}, fmt.Errorf("%w: ChunkStart: %v", ErrMalformedPayload, err)
	}

	raw := v.Get("Bars")
	if raw == nil || raw.Type() != fastjson.TypeArray {
		return event.RawChunk{}, fmt.Errorf("%w: missing Bars", ErrMalformedPayload)
	}
	items, _ := raw.Array()

	chunk := event.RawChunk{
		ChunkStart: chunkStart,
		Bars:       make([]event.RawBar, 0, len(items)),
	}
	for j, item := range items {
		bar, err := decodeBar(item)
		if err != nil {
			return event.RawChunk{}, fmt.Errorf("bar %d: %w", j, err)
		}
		chunk.Bars = append(chunk.Bars, bar)
	}
	return chunk, nil
}

func decodeBar(v *fastjson.Value) (event.RawBar, error) {
	if v.Type() != fastjson.TypeObject {
		return event.RawBar{}, fmt.Errorf("%w: bar is %s", ErrMalformedPayload, v.Type())
	}

	var (
		bar    event.RawBar
		prices = []struct {
			key string
			dst *float64
		}{
			{"Open", &bar.Open},
			{"High", &bar.High},
			{"Low", &bar.Low},
			{"Close", &bar.Close},
		}
	)

	t, err := number(v, "Time")
	if err != nil {
		return bar, err
	}
	if bar.Time, err = t.Int64(); err != nil {
		return bar, fmt.Errorf("%w: Time: %v", ErrMalformedPayload, err)
	}
	for _, p := range prices {
		f, err := number(v, p.key)
		if err != nil {
			return bar, err
		}
		*p.dst = f.GetFloat64()
	}
	bar.TickVolume = v.GetUint64("TickVolume")
	return bar, nil
}

func number(v *fastjson.Value, key string) (*fastjson.Value, error) {
	f := v.Get(key)
	if f == nil || f.Type() != fastjson.TypeNumber {
		return nil, fmt.Errorf("%w: missing number %s", ErrMalformedPayload, key)
	}
	return f, nil
}

// DecodeMsgpack decodes a MessagePack array of chunks.
func DecodeMsgpack(body []byte) ([]event.RawChunk, error) {
	var chunks []event.RawChunk
	if err := codec.NewDecoderBytes(body, &msgpackHandle).Decode(&chunks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return chunks, nil
}

// EncodeMsgpack is the inverse of DecodeMsgpack.
func EncodeMsgpack(chunks []event.RawChunk) ([]byte, error) {
	var b []byte
	if err := codec.NewEncoderBytes(&b, &msgpackHandle).Encode(chunks); err != nil {
		return nil, err
	}
	return b, nil
}
