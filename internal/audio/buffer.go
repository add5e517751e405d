package audio

import "time"

const (
	// SampleRate is the fixed capture rate expected by transcription backends.
	SampleRate = 16000
	// MinSpeechDuration is the shortest buffer worth transcribing.
	MinSpeechDuration = 300 * time.Millisecond
)

// MinSamples returns the sample count equal to MinSpeechDuration at rate.
func MinSamples(rate int) int {
	return int(int64(rate) * int64(MinSpeechDuration) / int64(time.Second))
}

// LongEnough reports whether n samples at rate reach MinSpeechDuration.
func LongEnough(n int, rate int) bool {
	return n >= MinSamples(rate)
}

// Buffer accumulates capture chunks in arrival order. It is not locked: the
// capture callback is the only writer, and readers must wait until
// Stream.Close has returned, which happens after the final callback.
type Buffer struct {
	chunks  [][]float32
	samples int
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Append takes ownership of chunk and adds it after every earlier chunk.
func (b *Buffer) Append(chunk []float32) {
	if len(chunk) == 0 {
		return
	}
	b.chunks = append(b.chunks, chunk)
	b.samples += len(chunk)
}

// Len returns the total number of samples.
func (b *Buffer) Len() int {
	return b.samples
}

// Chunks returns the chunk list in arrival order. The chunks themselves are shared.
func (b *Buffer) Chunks() [][]float32 {
	out := make([][]float32, len(b.chunks))
	copy(out, b.chunks)
	return out
}

// Samples concatenates every chunk into one contiguous slice.
func (b *Buffer) Samples() []float32 {
	out := make([]float32, 0, b.samples)
	for _, chunk := range b.chunks {
		out = append(out, chunk...)
	}
	return out
}

// Duration converts the sample count to wall time at rate.
func (b *Buffer) Duration(rate int) time.Duration {
	if rate <= 0 {
		return 0
	}
	return time.Duration(int64(b.Len()) * int64(time.Second) / int64(rate))
}
