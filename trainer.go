package vocgrid

// Training loop orchestration around an external model.

import (
	"log"
	"time"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/pkg/errors"
)

// Model is the detector being trained. Images and labels have the shapes of Batch.Tensors.
type Model interface {
	// TrainStep runs one optimisation step and returns the training loss.
	TrainStep(images, labels *tensors.Tensor) (float64, error)
	// Loss evaluates the loss without updating the weights.
	Loss(images, labels *tensors.Tensor) (float64, error)
}

// Checkpointer persists the model weights.
type Checkpointer interface {
	Save(step int) error
}

// TrainOptions controls the training loop schedule.
type TrainOptions struct {
	MaxIter     int     // The last step.
	EvalIter    int     // Evaluate and log every EvalIter steps.
	EvalBatches int     // Evaluation batches averaged per evaluation.
	SaverIter   int     // Save a checkpoint every SaverIter steps.
	MaxLoss     float64 // Training stops when the logged training loss reaches this value or is NaN.
}

// DefaultTrainOptions returns the schedule used for VOC training.
func DefaultTrainOptions() TrainOptions {
	return TrainOptions{
		MaxIter:     50000,
		EvalIter:    50,
		EvalBatches: 5,
		SaverIter:   50,
		MaxLoss:     1e4,
	}
}

// Trainer pulls batches from the training and evaluation iterators and feeds them to the model.
type Trainer struct {
	Model        Model
	Checkpointer Checkpointer // Optional.
	Train        *BatchIterator
	Eval         *BatchIterator // Optional; evaluation is skipped if nil.
	Options      TrainOptions

	now func() time.Time
}

// Run executes steps 0 through Options.MaxIter. It returns ErrDiverged if the training loss
// reaches Options.MaxLoss or is NaN at an evaluation step.
func (t *Trainer) Run() error {
	if t.now == nil {
		t.now = time.Now
	}
	opts := t.Options
	start := t.now()

	for step := 0; step <= opts.MaxIter; step++ {
		batch, err := t.Train.Next()
		if err != nil {
			return errors.Wrapf(err, "failed to load training batch at step %d", step)
		}
		images, labels := batch.Tensors()
		loss, err := t.Model.TrainStep(images, labels)
		if err != nil {
			return errors.Wrapf(err, "training step %d failed", step)
		}

		if opts.EvalIter > 0 && step%opts.EvalIter == 0 {
			testLoss, err := t.evaluate()
			if err != nil {
				return errors.Wrapf(err, "evaluation at step %d failed", step)
			}
			log.Printf("Epoch: %d, Step: %d, train_Loss: %.4f, test_Loss: %.4f, Remain: %s",
				t.Train.Epoch(), step, loss, testLoss, remaining(step, opts.MaxIter, t.now().Sub(start)))

			if !(loss < opts.MaxLoss) {
				log.Printf("Loss %.4g at step %d is not below %.4g", loss, step, opts.MaxLoss)
				return ErrDiverged
			}
		}

		if t.Checkpointer != nil && opts.SaverIter > 0 && step%opts.SaverIter == 0 {
			if err := t.Checkpointer.Save(step); err != nil {
				return errors.Wrapf(err, "failed to save checkpoint at step %d", step)
			}
		}
	}

	return nil
}

// evaluate returns the mean loss over Options.EvalBatches evaluation batches.
func (t *Trainer) evaluate() (float64, error) {
	if t.Eval == nil || t.Options.EvalBatches <= 0 {
		return 0, nil
	}

	var sum float64
	for i := 0; i < t.Options.EvalBatches; i++ {
		batch, err := t.Eval.Next()
		if err != nil {
			return 0, err
		}
		images, labels := batch.Tensors()
		loss, err := t.Model.Loss(images, labels)
		if err != nil {
			return 0, err
		}
		sum += loss
	}
	return sum / float64(t.Options.EvalBatches), nil
}

// remaining extrapolates the time left from the time spent on the first step steps.
func remaining(step, maxIter int, elapsed time.Duration) time.Duration {
	if step == 0 {
		return 0
	}
	left := float64(elapsed) * float64(maxIter-step) / float64(step)
	return time.Duration(left).Round(time.Second)
}
