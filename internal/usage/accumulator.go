package usage

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-retry"

	"github.com/tupleap/authgate/internal/config"
	"github.com/tupleap/authgate/internal/repository"
	"github.com/tupleap/authgate/internal/util"
)

// Recorder is the request-path view of the accumulator.
type Recorder interface {
	Record(code string)
}

// Accumulator batches per-request usage increments into one mutation per
// distinct code per flush window. The durable store handles bulk writes well
// and single-row updates badly, so the request path never touches it.
type Accumulator struct {
	repo      repository.AuthCodeRepository
	interval  time.Duration
	threshold int
	events    chan string
	done      chan struct{}
	stopped   chan struct{}
}

func NewAccumulator(repo repository.AuthCodeRepository, interval time.Duration, threshold, queueSize int) *Accumulator {
	return &Accumulator{
		repo:      repo,
		interval:  interval,
		threshold: threshold,
		events:    make(chan string, queueSize),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
}

// Record enqueues one usage unit for a code. It never blocks: if the queue is
// full the event is dropped and logged. Undercounting is an accepted
// metering trade-off; stalling an authorized request is not.
func (a *Accumulator) Record(code string) {
	select {
	case a.events <- code:
	default:
		log.Warn().Str("authCode", util.MaskCode(code)).Msg("usage queue full, dropping usage event")
	}
}

func (a *Accumulator) Start() {
	go a.run()
	log.Info().
		Dur("interval", a.interval).
		Int("threshold", a.threshold).
		Msg("usage accumulator started")
}

// Stop drains the queue, flushes the final window, and waits for the
// collector to exit.
func (a *Accumulator) Stop() {
	close(a.done)
	select {
	case <-a.stopped:
	case <-time.After(config.AccumulatorStopDrain):
		log.Warn().Msg("usage accumulator stop timed out")
	}
	log.Info().Msg("usage accumulator stopped")
}

func (a *Accumulator) run() {
	defer close(a.stopped)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	pending := make(map[string]uint64)
	recorded := 0

	for {
		select {
		case code := <-a.events:
			pending[code]++
			recorded++
			if recorded >= a.threshold {
				a.flush(pending)
				pending = make(map[string]uint64)
				recorded = 0
			}
		case <-ticker.C:
			if len(pending) > 0 {
				a.flush(pending)
				pending = make(map[string]uint64)
				recorded = 0
			}
		case <-a.done:
			drainInto(a.events, pending)
			if len(pending) > 0 {
				a.flush(pending)
			}
			return
		}
	}
}

// flush writes one batched increment per distinct code. Each write gets a
// bounded retry with exponential backoff; a batch that still fails is logged
// and dropped rather than ever propagating to a request.
func (a *Accumulator) flush(pending map[string]uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), config.FlushDBTimeout)
	defer cancel()

	flushed := 0
	for code, count := range pending {
		backoff := retry.WithMaxRetries(config.FlushMaxRetries, retry.NewExponential(config.FlushRetryBaseDelay))
		err := retry.Do(ctx, backoff, func(ctx context.Context) error {
			if err := a.repo.IncrementUsage(ctx, code, count); err != nil {
				return retry.RetryableError(err)
			}
			return nil
		})
		if err != nil {
			log.Warn().
				Err(err).
				Str("authCode", util.MaskCode(code)).
				Uint64("count", count).
				Msg("dropping usage batch after retries")
			continue
		}
		flushed++
	}

	if flushed > 0 {
		log.Debug().Int("codes", flushed).Msg("usage window flushed")
	}
}

func drainInto(events <-chan string, pending map[string]uint64) {
	for {
		select {
		case code := <-events:
			pending[code]++
		default:
			return
		}
	}
}
