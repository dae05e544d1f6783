// Package pipeline drives a copy run: it enumerates the tracks on the
// source, classifies each one against the title index, copies it into its
// crate and reports progress to a sink.
//
// Tracks are processed one at a time in enumeration order. A Controller
// owns the background workers (index build and copy run) and the rules for
// when a run may start.
package pipeline

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/itsdinok/rekordscratch/internal/classify"
	"github.com/itsdinok/rekordscratch/internal/crates"
	"github.com/itsdinok/rekordscratch/internal/errmsg"
	"github.com/itsdinok/rekordscratch/internal/progress"
)

// Options configures an Orchestrator. Zero values select defaults.
type Options struct {
	Classifier *classify.Classifier
	Copier     *crates.Executor
	ReviewPath string
	Logger     *log.Logger
}

// Orchestrator runs the classify-and-copy pipeline.
type Orchestrator struct {
	classifier *classify.Classifier
	copier     *crates.Executor
	reviewPath string
	logger     *log.Logger
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(opts Options) *Orchestrator {
	o := &Orchestrator{
		classifier: opts.Classifier,
		copier:     opts.Copier,
		reviewPath: opts.ReviewPath,
		logger:     opts.Logger,
	}
	if o.classifier == nil {
		o.classifier = classify.New()
	}
	if o.copier == nil {
		o.copier = crates.New("", "")
	}
	if o.reviewPath == "" {
		o.reviewPath = DefaultReviewFile
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}
	return o
}

// Run classifies and copies every mp3 under sourceRoot into the crates root
// under desktop.
//
// The only error returned is a failure to create the crates root, which
// ends the run before any track is touched. Per-track failures are reported
// to sink and the run moves on. The returned Stats are non-nil whenever the
// error is nil.
func (o *Orchestrator) Run(idx classify.Lookup, sourceRoot, desktop string, sink progress.Sink) (*Stats, error) {
	root, err := o.copier.ProvisionRoot(desktop)
	if err != nil {
		sink.SetError(errmsg.Format(errmsg.OpCratesCreate, err))
		o.logger.Error("crates root", "desktop", desktop, "err", err)
		return nil, err
	}

	files := Enumerate(sourceRoot)
	stats := &Stats{Total: len(files), CratesRoot: root}
	o.logger.Info("run started", "source", sourceRoot, "crates", root, "tracks", stats.Total)

	for i, path := range files {
		sink.SetProgress(float64(i+1) / float64(stats.Total))
		sink.SetCurrentFile("Processing: " + filepath.Base(path))

		res := o.classifier.Classify(path, idx)
		o.place(res, path, root, stats, sink)
		sink.SetCounts(stats.Matched, stats.Unmatched)
	}

	if err := WriteReview(o.reviewPath, stats.Unsorted); err != nil {
		sink.SetError(errmsg.FormatWith(errmsg.OpReviewWrite, o.reviewPath, err))
		o.logger.Warn("review file", "path", o.reviewPath, "err", err)
	} else {
		stats.ReviewPath = o.reviewPath
	}

	sink.SetCounts(stats.Matched, stats.Unmatched)
	sink.SetError(fmt.Sprintf("%d tracks not matched.", stats.Unmatched))
	sink.SetStatus(fmt.Sprintf("%d tracks matched successfully (%s copied).",
		stats.Matched, humanize.Bytes(uint64(stats.Bytes))))
	o.logger.Info("run finished",
		"matched", stats.Matched,
		"unmatched", stats.Unmatched,
		"copied", humanize.Bytes(uint64(stats.Bytes)),
		"copyFailures", stats.CopyFailures,
		"tagFailures", stats.TagFailures)

	return stats, nil
}

// place copies one classified track. A matched track whose copy fails is
// placed in the unsorted area instead and counted as unmatched, so that
// every track ends up somewhere.
func (o *Orchestrator) place(res classify.Result, path, root string, stats *Stats, sink progress.Sink) {
	if res.TagErr != nil {
		stats.TagFailures++
		sink.SetError(errmsg.FormatWith(errmsg.OpTagRead, path, res.TagErr))
		o.logger.Warn("read tags", "file", path, "err", res.TagErr)
	}
	if res.Matched() {
		p, err := o.copier.Copy(res.Bucket, path, root)
		if err == nil {
			stats.addMatched(p.Bytes)
			o.logger.Debug("matched", "file", path, "by", res.Kind, "bucket", res.Bucket)
			return
		}
		stats.CopyFailures++
		sink.SetError(errmsg.FormatWith(errmsg.OpTrackCopy, path, err))
		o.logger.Warn("copy to crate", "file", path, "bucket", res.Bucket, "err", err)
	}

	p, err := o.copier.CopyUnsorted(res.Genre, path, root)
	stats.addUnmatched(res.Stem, p.Bytes)
	if err != nil {
		stats.CopyFailures++
		sink.SetError(errmsg.FormatWith(errmsg.OpTrackCopy, path, err))
		o.logger.Warn("copy to unsorted", "file", path, "genre", res.Genre, "err", err)
		return
	}
	sink.SetError(errmsg.Unmatched(res.Stem))
	o.logger.Debug("unmatched", "file", path, "genre", res.Genre, "reason", res.Reason)
}
