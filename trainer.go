package seqlab

import (
	"log"
	"sync"

	"github.com/unixpickle/anynet/anysgd"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/rip"
)

// A History records the loss at every training iteration.
type History struct {
	Losses []float64
}

// Add appends a loss value.
func (h *History) Add(loss float64) {
	h.Losses = append(h.Losses, loss)
}

// Final returns the last recorded loss, or 0 if the history
// is empty.
func (h *History) Final() float64 {
	if len(h.Losses) == 0 {
		return 0
	}
	return h.Losses[len(h.Losses)-1]
}

// trainLoop runs mini-batch gradient descent until the
// iteration limit is hit or the user interrupts with ctrl+c,
// recording the per-iteration cost.
//
// The fetcher and gradienter are typically the same trainer
// value; lastCost reads its most recent batch cost.
func trainLoop(f anysgd.Fetcher, g anysgd.Gradienter, samples anysgd.SampleList,
	cfg TrainConfig, lastCost func() anyvec.Numeric) *History {
	hist := &History{}

	stop := make(chan struct{})
	var once sync.Once
	done := func() {
		once.Do(func() {
			close(stop)
		})
	}
	r := rip.NewRIP()
	go func() {
		select {
		case <-r.Chan():
			done()
		case <-stop:
		}
	}()

	log.Printf("Training on %d samples (press ctrl+c to stop early)...",
		samples.Len())

	var iter int
	sgd := &anysgd.SGD{
		Fetcher:    f,
		Gradienter: g,
		Samples:    samples,
		Rater:      anysgd.ConstRater(cfg.StepSize),
		BatchSize:  cfg.BatchSize,
		StatusFunc: func(b anysgd.Batch) {
			// The status hook runs before each gradient step, so
			// the cost it sees belongs to the previous batch and
			// is nil on the very first call.
			if c := lastCost(); c != nil {
				cost := numericFloat(c)
				hist.Add(cost)
				if cfg.LogEvery > 0 && iter%cfg.LogEvery == 0 {
					log.Printf("iter %d: cost=%f", iter, cost)
				}
			}
			iter++
			if iter > cfg.Iters {
				done()
			}
		},
	}
	sgd.Run(stop)
	done()

	log.Printf("Finished after %d iterations: cost=%f", len(hist.Losses),
		hist.Final())
	return hist
}

func numericFloat(n anyvec.Numeric) float64 {
	switch n := n.(type) {
	case float32:
		return float64(n)
	case float64:
		return n
	}
	panic("unsupported numeric type")
}
