package orchestration

import (
	"bufio"
	"io"
	"strconv"
	"sync"

	"github.com/agbru/montyhall/internal/montyhall"
)

// HeaderLine names the fields of a diagnostic line, in order.
const HeaderLine = "RoundNumber:WinningNumber:ParticipantPick:HostShow:ResultStick:ResultRandom:ResultSwap:Worker"

const (
	// sinkBuffer is the channel sink capacity granted per worker.
	sinkBuffer = 256
	// maxSinkBuffer caps the channel sink capacity whatever the worker count.
	maxSinkBuffer = 64 * 1024
)

// Sink receives one diagnostic line per evaluated trial. Emit may be called
// from many workers at once; lines are never interleaved.
type Sink interface {
	Emit(t montyhall.Trial, worker string)
	// Close flushes buffered lines. Emit must not be called afterwards.
	Close() error
}

// NewSink builds the sink selected by mode, writing to w.
func NewSink(mode SinkMode, w io.Writer, workers int) Sink {
	if mode == SinkLocked {
		return NewLockedSink(w)
	}
	return NewChannelSink(w, sinkCapacity(workers))
}

// sinkCapacity sizes the channel sink for workers, within [1, maxSinkBuffer].
func sinkCapacity(workers int) int {
	if workers < 1 {
		return 1
	}
	if workers >= maxSinkBuffer/sinkBuffer {
		return maxSinkBuffer
	}
	return workers * sinkBuffer
}

// WorkerLabel returns the label attached to lines from worker id.
func WorkerLabel(id int) string {
	return "w" + strconv.Itoa(id)
}

// WriteHeader writes the field legend line to w.
func WriteHeader(w io.Writer) error {
	_, err := io.WriteString(w, HeaderLine+"\n")
	return err
}

type nopSink struct{}

func (nopSink) Emit(montyhall.Trial, string) {}
func (nopSink) Close() error                 { return nil }

// LockedSink formats and writes each line while holding a mutex.
type LockedSink struct {
	mu  sync.Mutex
	w   *bufio.Writer
	buf []byte
	err error
}

// NewLockedSink returns a mutex-guarded sink over w.
func NewLockedSink(w io.Writer) *LockedSink {
	return &LockedSink{w: bufio.NewWriter(w), buf: make([]byte, 0, 64)}
}

// Emit writes the line for t. The first write error is kept and reported
// by Close; later lines are dropped.
func (s *LockedSink) Emit(t montyhall.Trial, worker string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return
	}
	s.buf = append(t.AppendLine(s.buf[:0], worker), '\n')
	_, s.err = s.w.Write(s.buf)
}

// Close flushes the buffered writer.
func (s *LockedSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	return s.w.Flush()
}

// ChannelSink formats lines on the calling worker and hands them to a single
// writer goroutine, which is the only code touching the underlying writer.
type ChannelSink struct {
	lines chan *[]byte
	done  chan struct{}
	pool  sync.Pool
	err   error
}

// NewChannelSink starts the writer goroutine. buffer is the channel capacity.
func NewChannelSink(w io.Writer, buffer int) *ChannelSink {
	if buffer < 1 {
		buffer = 1
	}
	s := &ChannelSink{
		lines: make(chan *[]byte, buffer),
		done:  make(chan struct{}),
	}
	s.pool.New = func() any {
		b := make([]byte, 0, 64)
		return &b
	}
	go s.drain(bufio.NewWriter(w))
	return s
}

// Emit formats t into a pooled buffer and queues it for the writer
// goroutine, which returns the buffer to the pool. It blocks while the
// channel is full.
func (s *ChannelSink) Emit(t montyhall.Trial, worker string) {
	bp := s.pool.Get().(*[]byte)
	*bp = append(t.AppendLine((*bp)[:0], worker), '\n')
	s.lines <- bp
}

func (s *ChannelSink) drain(w *bufio.Writer) {
	defer close(s.done)
	for bp := range s.lines {
		if s.err == nil {
			_, s.err = w.Write(*bp)
		}
		s.pool.Put(bp)
	}
	if s.err == nil {
		s.err = w.Flush()
	}
}

// Close stops accepting lines, waits for the writer to drain and returns the
// first write error.
func (s *ChannelSink) Close() error {
	close(s.lines)
	<-s.done
	return s.err
}
