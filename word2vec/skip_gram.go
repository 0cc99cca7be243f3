package word2vec

import (
	"io"
	"math/rand"

	"github.com/gridl/wordembed"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/unixpickle/anyvec"
	"go.uber.org/atomic"
)

// DefaultRate is the default learning rate for plain
// gradient descent.
const DefaultRate = 1.0

// SkipGram can train skip-gram models.
type SkipGram struct {
	Net       *Net
	Objective Objective
	Batches   *Batcher

	// Rate is the learning rate applied to the mean cost of
	// each mini-batch.
	// If 0, DefaultRate is used.
	Rate float64

	// Epochs is the number of passes over the pairs.
	// If 0, training continues until the done channel is
	// closed.
	Epochs int

	// Rand is used by the objective to draw samples.
	// If nil, the global source is used.
	Rand *rand.Rand

	// Log receives progress information.
	Log logrus.FieldLogger

	// Metrics, if non-nil, is updated after every batch.
	Metrics *Metrics

	// StatusFunc, if non-nil, is called after every training
	// iteration with the mean cost of the batch.
	StatusFunc func(lastCost float64)

	steps atomic.Int64
}

// Steps returns the number of mini-batches trained on so
// far.
// It is safe to call while Train is running.
func (s *SkipGram) Steps() int64 {
	return s.steps.Load()
}

// Train trains the skip-gram model until every epoch is
// complete or the done channel is closed.
func (s *SkipGram) Train(done <-chan struct{}) error {
	if err := s.validate(); err != nil {
		return err
	}
	log := s.logger()
	for epoch := 0; s.Epochs == 0 || epoch < s.Epochs; epoch++ {
		s.Batches.Reset()
		var totalCost float64
		var numBatches int
		for {
			select {
			case <-done:
				log.WithField("epoch", epoch).Info("training interrupted")
				return nil
			default:
			}
			batch, ok := s.Batches.Next()
			if !ok {
				break
			}
			cost := s.step(batch)
			totalCost += cost
			numBatches++
			s.steps.Inc()
			s.Metrics.observeBatch(len(batch), cost)
			if s.StatusFunc != nil {
				s.StatusFunc(cost)
			}
		}
		if numBatches == 0 {
			log.Warn("no pairs to train on")
			return nil
		}
		s.Metrics.observeEpoch()
		log.WithFields(logrus.Fields{
			"epoch": epoch,
			"steps": s.Steps(),
			"cost":  totalCost / float64(numBatches),
		}).Info("finished epoch")
	}
	return nil
}

func (s *SkipGram) step(batch []wordembed.Pair) float64 {
	c := s.Net.Encoder.Vector.Creator()
	one := c.MakeNumeric(1)
	rate := s.Rate
	if rate == 0 {
		rate = DefaultRate
	}
	stepSize := c.MakeNumeric(-rate / float64(len(batch)))

	var total float64
	var count int
	for _, pair := range batch {
		outs := s.Objective.Outputs(s.Rand, pair)
		if len(outs) == 0 {
			continue
		}
		in := map[int]anyvec.Numeric{pair.Target: one}
		total += numericToFloat(s.Net.Step(in, outs, stepSize))
		count++
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

func (s *SkipGram) validate() error {
	if s.Net == nil || s.Objective == nil || s.Batches == nil {
		return errors.Wrap(wordembed.ErrInvalidArgument, "skip-gram trainer is missing a component")
	}
	if s.Rate < 0 {
		return errors.Wrapf(wordembed.ErrInvalidArgument, "learning rate %f must not be negative", s.Rate)
	}
	if s.Objective.NumOutputs() > s.Net.Out {
		return errors.Wrapf(wordembed.ErrInvalidArgument, "objective needs %d outputs but net has %d",
			s.Objective.NumOutputs(), s.Net.Out)
	}
	return nil
}

func (s *SkipGram) logger() logrus.FieldLogger {
	if s.Log != nil {
		return s.Log
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
