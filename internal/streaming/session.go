package streaming

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/ledgerforge/datasynth/internal/anomaly"
	"github.com/ledgerforge/datasynth/internal/ids"
	"github.com/ledgerforge/datasynth/internal/journal"
)

const producerChannelCapacity = 100

// Session is one active stream: a producer goroutine generating
// documents and a consumer goroutine pacing their delivery, per
// spec.md §5's two-cooperative-task model.
type Session struct {
	id  string
	req StreamRequest

	gen      *journal.Generator
	injector *anomaly.Injector
	burst    *anomaly.Injector // elevated-rate injector used during fraud_cluster/error_cluster windows
	rng      *ids.Stream

	paused  atomic.Bool
	stopped atomic.Bool
	done    chan struct{}
	stopOnce sync.Once

	patternMu        sync.RWMutex
	pattern          Pattern
	patternRemaining int

	seq atomic.Uint64
	out chan DataEvent

	metrics *metricsState
}

func newSession(id string, req StreamRequest, gen *journal.Generator, injector, burst *anomaly.Injector, rng *ids.Stream, metrics *metricsState) *Session {
	return &Session{
		id:       id,
		req:      req,
		gen:      gen,
		injector: injector,
		burst:    burst,
		rng:      rng,
		out:      make(chan DataEvent),
		done:     make(chan struct{}),
		metrics:  metrics,
	}
}

// Events returns the channel the caller reads paced DataEvents from.
// The channel is closed when the stream ends (Stop or max_events
// reached); while the caller is not reading, the consumer goroutine
// blocks on its send until Stop.
func (s *Session) Events() <-chan DataEvent {
	return s.out
}

// run starts the producer and consumer goroutines and blocks until the
// stream ends. Call it in its own goroutine.
func (s *Session) run() {
	internal := make(chan journal.Document, producerChannelCapacity)
	labels := make(chan *anomaly.Label, producerChannelCapacity)

	go s.produce(internal, labels)
	s.consume(internal, labels)
}

func (s *Session) produce(internal chan<- journal.Document, labelCh chan<- *anomaly.Label) {
	defer close(internal)
	defer close(labelCh)

	for {
		if s.stopped.Load() {
			return
		}
		if s.paused.Load() {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		doc, err := s.gen.Generate()
		if err != nil {
			return
		}

		pattern, remaining := s.currentPattern()
		if remaining > 0 {
			s.applyPatternBias(&doc, pattern)
		}

		var label *anomaly.Label
		if s.req.InjectAnomalies {
			injector := s.injector
			if remaining > 0 && isFraudBiasPattern(pattern) && s.burst != nil {
				injector = s.burst
			}
			if injector != nil {
				docs, ls := injector.Inject([]journal.Document{doc}, s.rng)
				if len(docs) > 0 {
					doc = docs[0]
				}
				if len(ls) > 0 {
					label = &ls[0]
				}
			}
		}

		if remaining > 0 {
			s.decrementPattern()
		}

		// A full channel naturally backpressures the producer; a
		// concurrent Stop unblocks it immediately via done.
		select {
		case internal <- doc:
		case <-s.done:
			return
		}
		select {
		case labelCh <- label:
		case <-s.done:
			return
		}
	}
}

func (s *Session) consume(internal <-chan journal.Document, labelCh <-chan *anomaly.Label) {
	defer close(s.out)

	perSecond := s.req.EventsPerSecond
	if perSecond <= 0 {
		perSecond = 1
	}
	spacing := time.Duration(1_000_000/perSecond) * time.Microsecond

	for doc := range internal {
		label := <-labelCh

		if s.stopped.Load() {
			return
		}

		n := s.seq.Add(1)
		event := DataEvent{SequenceNumber: n, Document: doc, Label: label, EmittedAt: time.Now()}

		select {
		case s.out <- event:
		case <-s.done:
			return
		}

		s.metrics.totalEntries.Add(1)
		s.metrics.totalStreamEvents.Add(1)
		if label != nil {
			s.metrics.totalAnomalies.Add(1)
		}

		if s.req.MaxEvents > 0 && int(n) >= s.req.MaxEvents {
			s.Stop()
			return
		}

		time.Sleep(spacing)
	}
}

// Pause idempotently pauses the producer.
func (s *Session) Pause() { s.paused.Store(true) }

// Resume idempotently resumes the producer.
func (s *Session) Resume() { s.paused.Store(false) }

// Stop terminates the stream; further Resume calls are ignored once
// stopped, per spec.md §8's round-trip law. Idempotent.
func (s *Session) Stop() {
	s.stopped.Store(true)
	s.stopOnce.Do(func() { close(s.done) })
}

// TriggerPattern arms a named bias window for the next patternWindow
// generated entries.
func (s *Session) TriggerPattern(p Pattern) {
	s.patternMu.Lock()
	defer s.patternMu.Unlock()
	s.pattern = p
	s.patternRemaining = patternWindow
}

func (s *Session) currentPattern() (Pattern, int) {
	s.patternMu.RLock()
	defer s.patternMu.RUnlock()
	return s.pattern, s.patternRemaining
}

func (s *Session) decrementPattern() {
	s.patternMu.Lock()
	defer s.patternMu.Unlock()
	if s.patternRemaining > 0 {
		s.patternRemaining--
	}
}

// Control reports the session's current state for a ControlResponse.
func (s *Session) Control() ControlResponse {
	pattern, remaining := s.currentPattern()
	patternName := ""
	if remaining > 0 {
		patternName = string(pattern)
	}
	return ControlResponse{
		Paused:  s.paused.Load(),
		Stopped: s.stopped.Load(),
		Pattern: patternName,
	}
}

func (s *Session) applyPatternBias(doc *journal.Document, pattern Pattern) {
	if !isDateBiasPattern(pattern) {
		return
	}
	year := doc.Header.PostingDate.Year()
	var biased time.Time
	switch pattern {
	case PatternYearEndSpike:
		biased = time.Date(year, time.December, 28+s.rng.IntRange(0, 3), 0, 0, 0, 0, time.UTC)
	case PatternPeriodEndSpike:
		month := doc.Header.PostingDate.Month()
		lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
		biased = time.Date(year, month, lastDay-s.rng.IntRange(0, 2), 0, 0, 0, 0, time.UTC)
	case PatternHolidayCluster:
		biased = time.Date(year, time.December, 24+s.rng.IntRange(0, 2), 0, 0, 0, 0, time.UTC)
	default:
		return
	}
	doc.Header.PostingDate = biased
	doc.Header.DocumentDate = biased
}
