package documents

import (
	"context"
	"runtime"
	"sync"

	"go.lsp.dev/protocol"

	"lsp-core/src/index"
	"lsp-core/src/internal/common"
	"lsp-core/src/internal/errors"
	"lsp-core/src/server/completion"
	"lsp-core/src/server/frontend"
	"lsp-core/src/server/signature"
)

// buildTask is one scheduled analysis of a document version.
type buildTask struct {
	fs      *fileState
	path    string
	text    string
	version int64
	handle  *Handle[*Snapshot]
}

// fileState tracks the build lifecycle of one open document. All fields
// are guarded by Pipeline.mu except snapshot, which is written under
// Pipeline.publishMu and read by requests under its read side.
type fileState struct {
	version   int64 // newest version an edit has been assigned
	completed int64 // newest version whose build reached a terminal state
	snapshot  *Snapshot

	building    bool
	buildCancel context.CancelFunc
	queued      *buildTask
	waiters     []waiter
}

// waiter parks one request until builds catch up with the version the
// request observed on arrival.
type waiter struct {
	minVersion int64
	ready      chan struct{}
}

// Pipeline schedules document builds and answers completion and signature
// help requests against the results. Builds for distinct files run in
// parallel up to the worker bound; builds for one file are serialized, and
// a newer edit supersedes both the queued and the in-flight build of its
// file.
type Pipeline struct {
	fe     frontend.Frontend
	dyn    *index.DynamicIndex
	static index.SymbolIndex

	completions *completion.Engine
	signatures  *signature.Engine

	slots chan struct{} // bounds concurrent builds

	publishMu sync.RWMutex // guards the snapshot plus index pair swap

	mu      sync.Mutex
	files   map[string]*fileState
	stopped bool

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewPipeline creates a pipeline that analyzes documents with fe, feeds
// published symbols into dyn, and answers requests against the merged view
// of dyn over static. workers bounds concurrent builds; zero or negative
// means one per CPU.
func NewPipeline(fe frontend.Frontend, dyn *index.DynamicIndex, static index.SymbolIndex, opts completion.Options, workers int) *Pipeline {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	if dyn == nil {
		dyn = index.NewDynamicIndex()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pipeline{
		fe:          fe,
		dyn:         dyn,
		static:      static,
		completions: completion.NewEngine(fe, opts),
		signatures:  signature.NewEngine(fe),
		slots:       make(chan struct{}, workers),
		files:       make(map[string]*fileState),
		baseCtx:     ctx,
		cancel:      cancel,
	}
}

// OpenOrUpdate registers new text for path and schedules a build. The
// returned handle resolves to the built snapshot, to a build error when
// analysis fails, or to a superseded error when newer text for the same
// file arrives before this version publishes.
func (p *Pipeline) OpenOrUpdate(path, text string) *Handle[*Snapshot] {
	h := newHandle[*Snapshot]("build of " + path)

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		h.resolve(nil, errors.WrapWithContext("build of "+path, context.Canceled))
		return h
	}
	fs := p.files[path]
	if fs == nil {
		fs = &fileState{}
		p.files[path] = fs
	}
	fs.version++
	task := &buildTask{fs: fs, path: path, text: text, version: fs.version, handle: h}

	if fs.building {
		// Newer text claims the single queued slot. The displaced edit
		// resolves superseded now; the in-flight build is cancelled and
		// resolves superseded when it drains.
		if fs.queued != nil {
			fs.queued.handle.resolve(nil, errors.NewSupersededError(path))
		}
		fs.queued = task
		if fs.buildCancel != nil {
			fs.buildCancel()
		}
	} else {
		p.startLocked(fs, task)
	}
	p.mu.Unlock()
	return h
}

// startLocked launches the build goroutine for task. Callers hold p.mu and
// have verified no build is in flight for the file.
func (p *Pipeline) startLocked(fs *fileState, task *buildTask) {
	ctx, cancel := context.WithCancel(p.baseCtx)
	fs.building = true
	fs.buildCancel = cancel

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer cancel()

		select {
		case p.slots <- struct{}{}:
		case <-ctx.Done():
			p.finishBuild(task, nil, ctx.Err())
			return
		}
		defer func() { <-p.slots }()

		analysis, err := p.fe.Analyze(ctx, task.path, task.text)
		p.finishBuild(task, analysis, err)
	}()
}

// finishBuild publishes or discards one finished build and starts the
// queued successor when present.
func (p *Pipeline) finishBuild(task *buildTask, analysis *frontend.Analysis, err error) {
	if err == nil && analysis == nil {
		analysis = &frontend.Analysis{}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	fs := task.fs
	if p.files[task.path] != fs {
		// The file was removed (and possibly reopened) while this build
		// was in flight. Its result no longer has a home.
		task.handle.resolve(nil, errors.NewSupersededError(task.path))
		return
	}

	switch {
	case p.stopped:
		task.handle.resolve(nil, errors.WrapWithContext("build of "+task.path, context.Canceled))
	case fs.version > task.version:
		// A newer edit displaced this build before it could publish. The
		// successor advances completed past this version, so waiters stay
		// parked until the newer text lands.
		task.handle.resolve(nil, errors.NewSupersededError(task.path))
	case err != nil:
		fs.completed = task.version
		common.PipelineLogger.Warn("build failed for %s: %s", task.path, common.SanitizeErrorForLogging(err))
		task.handle.resolve(nil, errors.NewBuildError(task.path, err))
		p.releaseWaitersLocked(fs)
	default:
		snap := newSnapshot(task.path, task.version, task.text, analysis)
		p.publishMu.Lock()
		p.dyn.Update(task.path, analysis.Symbols)
		fs.snapshot = snap
		p.publishMu.Unlock()
		fs.completed = task.version
		common.PipelineLogger.Debug("published %s version %d (%d symbols)", task.path, task.version, len(analysis.Symbols))
		task.handle.resolve(snap, nil)
		p.releaseWaitersLocked(fs)
	}

	fs.buildCancel = nil
	next := fs.queued
	fs.queued = nil
	switch {
	case next == nil:
		fs.building = false
	case p.stopped:
		next.handle.resolve(nil, errors.WrapWithContext("build of "+next.path, context.Canceled))
		fs.building = false
	default:
		p.startLocked(fs, next)
	}
}

// releaseWaitersLocked wakes requests whose observed version has reached a
// terminal build state.
func (p *Pipeline) releaseWaitersLocked(fs *fileState) {
	kept := fs.waiters[:0]
	for _, w := range fs.waiters {
		if w.minVersion <= fs.completed {
			close(w.ready)
		} else {
			kept = append(kept, w)
		}
	}
	fs.waiters = kept
}

// Complete runs code completion at pos against the newest snapshot of
// path. The handle resolves once every build the caller could have
// observed at call time has settled, so an edit followed immediately by a
// completion sees the edited text. An unknown path resolves to a
// validation error; a file whose builds have all failed resolves to an
// empty complete list.
func (p *Pipeline) Complete(ctx context.Context, path string, pos protocol.Position) *Handle[*protocol.CompletionList] {
	h := newHandle[*protocol.CompletionList]("completion for " + path)
	request(p, ctx, path, h, func(snap *Snapshot, idx index.SymbolIndex) (*protocol.CompletionList, error) {
		if snap == nil {
			return &protocol.CompletionList{IsIncomplete: false, Items: []protocol.CompletionItem{}}, nil
		}
		return p.completions.Complete(snap, pos, idx)
	})
	return h
}

// SignatureHelp computes signature help at pos against the newest snapshot
// of path. Absence of an enclosing call resolves to nil help, not an
// error.
func (p *Pipeline) SignatureHelp(ctx context.Context, path string, pos protocol.Position) *Handle[*protocol.SignatureHelp] {
	h := newHandle[*protocol.SignatureHelp]("signature help for " + path)
	request(p, ctx, path, h, func(snap *Snapshot, _ index.SymbolIndex) (*protocol.SignatureHelp, error) {
		if snap == nil {
			return nil, nil
		}
		return p.signatures.Help(snap, pos)
	})
	return h
}

// request parks until builds for path settle, then runs fn against the
// published snapshot and index captured as one pair.
func request[T any](p *Pipeline, ctx context.Context, path string, h *Handle[T], fn func(*Snapshot, index.SymbolIndex) (T, error)) {
	var zero T

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		h.resolve(zero, errors.WrapWithContext("request for "+path, context.Canceled))
		return
	}
	fs := p.files[path]
	if fs == nil {
		p.mu.Unlock()
		h.resolve(zero, common.CreateValidationErrorForPath("no document open for "+path))
		return
	}
	var ready chan struct{}
	if fs.completed < fs.version {
		ready = make(chan struct{})
		fs.waiters = append(fs.waiters, waiter{minVersion: fs.version, ready: ready})
	}
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		if ready != nil {
			select {
			case <-ready:
			case <-ctx.Done():
				h.resolve(zero, ctx.Err())
				return
			case <-p.baseCtx.Done():
				h.resolve(zero, errors.WrapWithContext("request for "+path, context.Canceled))
				return
			}
		}
		snap, idx := p.capture(fs)
		h.resolve(fn(snap, idx))
	}()
}

// capture reads the published snapshot and the index view under one read
// lock so a request never pairs a snapshot from one edit with symbols from
// another.
func (p *Pipeline) capture(fs *fileState) (*Snapshot, index.SymbolIndex) {
	p.publishMu.RLock()
	defer p.publishMu.RUnlock()
	return fs.snapshot, index.Merge(p.dyn.View(), p.static)
}

// SnapshotOf returns the currently published snapshot for path, if any.
func (p *Pipeline) SnapshotOf(path string) (*Snapshot, bool) {
	p.mu.Lock()
	fs := p.files[path]
	p.mu.Unlock()
	if fs == nil {
		return nil, false
	}
	p.publishMu.RLock()
	defer p.publishMu.RUnlock()
	if fs.snapshot == nil {
		return nil, false
	}
	return fs.snapshot, true
}

// Remove drops path from the pipeline and retires its symbols from the
// dynamic index. An in-flight build for the file is cancelled and resolves
// superseded; parked requests wake and observe the document as gone.
func (p *Pipeline) Remove(path string) {
	p.mu.Lock()
	fs := p.files[path]
	if fs == nil {
		p.mu.Unlock()
		return
	}
	delete(p.files, path)
	if fs.buildCancel != nil {
		fs.buildCancel()
	}
	if fs.queued != nil {
		fs.queued.handle.resolve(nil, errors.NewSupersededError(path))
		fs.queued = nil
	}
	for _, w := range fs.waiters {
		close(w.ready)
	}
	fs.waiters = nil
	p.mu.Unlock()

	p.publishMu.Lock()
	p.dyn.Remove(path)
	fs.snapshot = nil
	p.publishMu.Unlock()
	common.PipelineLogger.Debug("removed %s", path)
}

// Stop cancels in-flight builds and parked requests and waits for their
// goroutines to drain. Handles still pending resolve with a cancellation
// error. The pipeline rejects work arriving after Stop the same way.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	for path, fs := range p.files {
		if fs.buildCancel != nil {
			fs.buildCancel()
		}
		if fs.queued != nil {
			fs.queued.handle.resolve(nil, errors.WrapWithContext("build of "+path, context.Canceled))
			fs.queued = nil
		}
	}
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()
	common.PipelineLogger.Debug("pipeline stopped")
}
