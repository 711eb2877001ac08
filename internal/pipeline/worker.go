package pipeline

import (
	"context"
	"fmt"
	"log/slog"
)

// Worker processes a single document job.
type Worker struct {
	pipeline *Pipeline
	log      *slog.Logger
}

func NewWorker(p *Pipeline, log *slog.Logger) *Worker {
	return &Worker{pipeline: p, log: log}
}

// Process splits and groups the job's document and stores the result on it.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	if err := ctx.Err(); err != nil {
		job.AddError(fmt.Sprintf("cancelled: %s", err))
		job.SetStatus(StatusFailed, "queued")
		return
	}

	// Phase 1: Split
	job.SetStatus(StatusSplitting, "splitting")
	res, err := w.pipeline.SplitBytes(job.FileData(), job.Filename, job.Format)
	if err != nil {
		log.Error("split failed", "error", err)
		job.AddError(fmt.Sprintf("split: %s", err))
		job.SetStatus(StatusFailed, "splitting")
		return
	}
	job.SetTotalNodes(len(res.Nodes))
	log.Info("split document", "nodes", len(res.Nodes), "format", res.Format, "total_tokens", res.Stats.Total)

	if err := ctx.Err(); err != nil {
		job.AddError(fmt.Sprintf("cancelled: %s", err))
		job.SetStatus(StatusFailed, "splitting")
		return
	}

	// Phase 2: Group
	job.SetStatus(StatusGrouping, "grouping")
	res, err = w.pipeline.Group(res, job.Thresholds)
	if err != nil {
		log.Error("grouping failed", "error", err)
		job.AddError(fmt.Sprintf("group: %s", err))
		job.SetStatus(StatusFailed, "grouping")
		return
	}

	job.SetResult(res)
	job.SetStatus(StatusCompleted, "done")
	log.Info("job complete", "nodes", len(res.Nodes), "groups", len(res.Groups))
}
