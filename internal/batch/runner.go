package batch

import (
	"context"
	"fmt"
	"iter"
	"log"
	"slices"

	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/domain"
)

// Step turns one question into its evaluation record.
type Step func(ctx context.Context, index int, question string) (domain.EvaluationRecord, error)

// Sink receives records in input order. It is called before the next step starts.
type Sink func(index int, rec domain.EvaluationRecord)

// Decision tells the runner what to do after a failed item.
type Decision string

const (
	DecisionContinue Decision = "continue"
	DecisionAbort    Decision = "abort"
)

// Failure describes a failed batch item for the failure policy.
type Failure struct {
	Index    int    `json:"index"`
	Question string `json:"question"`
	Error    string `json:"error"`
	Failures int    `json:"failures"`
	Total    int    `json:"total"`
}

// Decider chooses how a batch reacts to a failed item.
type Decider interface {
	Decide(ctx context.Context, f Failure) (Decision, error)
}

// Result summarizes a batch run.
type Result struct {
	Total    int
	Recorded int
	Failed   int
	Aborted  bool
}

// Runner drives questions through a step strictly sequentially.
type Runner struct {
	step    Step
	decider Decider
}

// NewRunner creates a runner. A nil decider always continues.
func NewRunner(step Step, decider Decider) *Runner {
	return &Runner{step: step, decider: decider}
}

// Questions adapts a slice to the producer the runner consumes.
func Questions(questions []string) iter.Seq2[int, string] {
	return slices.All(questions)
}

// Run requests each question in order. Item n+1 is only requested after item
// n has been handed to sink or the run has stopped.
func (r *Runner) Run(ctx context.Context, total int, questions iter.Seq2[int, string], sink Sink) Result {
	res := Result{Total: total}

	for i, q := range questions {
		rec, err := r.step(ctx, i, q)
		if err == nil {
			rec.Origin = domain.OriginBatch
			sink(i, rec)
			res.Recorded++
			continue
		}

		res.Failed++
		decision := r.decide(ctx, Failure{
			Index:    i,
			Question: q,
			Error:    err.Error(),
			Failures: res.Failed,
			Total:    total,
		})

		if decision == DecisionAbort {
			log.Printf("WARN: batch aborted at question %d/%d: %v", i+1, total, err)
			res.Aborted = true
			break
		}

		log.Printf("WARN: batch question %d/%d failed, continuing: %v", i+1, total, err)
		sink(i, Placeholder(q, err))
		res.Recorded++
	}

	return res
}

func (r *Runner) decide(ctx context.Context, f Failure) Decision {
	if r.decider == nil {
		return DecisionContinue
	}
	d, err := r.decider.Decide(ctx, f)
	if err != nil {
		log.Printf("ERROR: batch failure policy: %v", err)
		return DecisionContinue
	}
	return d
}

// Placeholder is the record stored for a batch question whose request failed.
func Placeholder(question string, err error) domain.EvaluationRecord {
	return domain.EvaluationRecord{
		Question:  question,
		Answer:    domain.ErrorAnswerText,
		Reranker:  domain.FailedReranker,
		Abstained: true,
		Reason:    fmt.Sprintf("%s: %v", domain.ReasonReqFailure, err),
		Contexts:  []domain.ContextRow{},
		Origin:    domain.OriginBatch,
		Failed:    true,
	}
}
