package netcode

// pendingStream is one in-flight multi-chunk stream's accumulator, mirroring
// stream_builder.rs's StreamBuilder: an id, the stream_type that selects how
// the reassembled bytes get redispatched once complete, the declared total
// size, and the bytes accumulated so far.
type pendingStream struct {
	streamType uint8
	total      uint32
	data       []byte
}

// StreamBuilder reassembles StreamBegin/StreamChunk sequences into complete
// byte blobs, one accumulator per stream id. A stream is "done" once its
// accumulated length is at least its declared total, not only when it is
// exactly equal — stream_builder.rs's is_done check uses >=, tolerating a
// final chunk that overshoots the declared total.
type StreamBuilder struct {
	pending map[uint32]*pendingStream
}

// NewStreamBuilder returns an empty reassembler.
func NewStreamBuilder() *StreamBuilder {
	return &StreamBuilder{pending: make(map[uint32]*pendingStream)}
}

// Begin registers a forthcoming stream, replacing any prior accumulator
// under the same id.
func (b *StreamBuilder) Begin(begin StreamBegin) {
	b.pending[begin.ID] = &pendingStream{streamType: begin.StreamType, total: begin.Total}
}

// Chunk appends data to its stream's accumulated buffer. It reports the
// reassembled bytes and the stream_type to redispatch them under once the
// stream is done, removing it from the pending set; a chunk for an
// unregistered id is ignored (done == false), matching the source's behavior
// when a chunk arrives with no matching begin.
func (b *StreamBuilder) Chunk(chunk StreamChunk) (data []byte, streamType uint8, done bool) {
	s, ok := b.pending[chunk.ID]
	if !ok {
		return nil, 0, false
	}
	s.data = append(s.data, chunk.Data...)
	if uint32(len(s.data)) >= s.total {
		delete(b.pending, chunk.ID)
		return s.data, s.streamType, true
	}
	return nil, 0, false
}
