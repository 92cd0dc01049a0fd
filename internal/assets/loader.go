// Package assets loads product models in the background and hands them to
// the main loop.
//
// Decoding and normalization run on worker goroutines. Finished loads are
// queued as Results and delivered by Dispatch, which the main loop calls once
// per frame, so completion callbacks never race with scene mutation.
package assets

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/plush-configurator/internal/engine/model"
	"github.com/Faultbox/plush-configurator/internal/engine/scene"
	"github.com/Faultbox/plush-configurator/internal/logger"
)

// DecodeFunc reads a model file into a template node tree.
type DecodeFunc func(path string) (*scene.Node, error)

// ProgressFunc receives the number of finished loads (success or failure)
// and the number issued so far.
type ProgressFunc func(done, total int)

// Result is one finished load.
type Result struct {
	ID    int
	Path  string
	Name  string
	Model *scene.Node
	Err   error
}

// resultBuffer bounds how many finished loads can wait for Dispatch before
// workers block.
const resultBuffer = 64

// Loader issues asynchronous model loads. Load and Dispatch must be called
// from the same goroutine.
type Loader struct {
	decode  DecodeFunc
	cache   *Cache
	results chan Result
	log     *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	nextID   int
	pending  map[int]func(*scene.Node)
	issued   int
	done     int
	failed   int
	progress ProgressFunc
}

// NewLoader creates a loader. A nil decode uses the glTF decoder.
func NewLoader(decode DecodeFunc) *Loader {
	if decode == nil {
		decode = model.Load
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		decode:  decode,
		cache:   NewCache(),
		results: make(chan Result, resultBuffer),
		log:     logger.Named("assets"),
		ctx:     ctx,
		cancel:  cancel,
		pending: make(map[int]func(*scene.Node)),
	}
}

// SetProgress installs an optional progress callback, called from Dispatch.
func (l *Loader) SetProgress(fn ProgressFunc) {
	l.progress = fn
}

// Load starts loading path in the background. When it succeeds the model is
// normalized per opts, wrapped in a node called name and passed to
// onComplete during a later Dispatch. Failures are logged and onComplete is
// never called. Returns the load ID.
func (l *Loader) Load(path, name string, opts model.NormalizeOptions, onComplete func(*scene.Node)) int {
	l.nextID++
	id := l.nextID
	l.pending[id] = onComplete
	l.issued++

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		if l.ctx.Err() != nil {
			return
		}
		res := Result{ID: id, Path: path, Name: name}
		res.Model, res.Err = l.instance(path, name, opts)
		select {
		case l.results <- res:
		case <-l.ctx.Done():
		}
	}()
	return id
}

func (l *Loader) instance(path, name string, opts model.NormalizeOptions) (*scene.Node, error) {
	tmpl, err := l.cache.GetOrDecode(path, l.decode)
	if err != nil {
		return nil, err
	}
	inst := tmpl.Clone()
	if err := model.Normalize(inst, opts); err != nil {
		return nil, fmt.Errorf("normalizing %s: %w", path, err)
	}
	holder := scene.NewNode(name)
	holder.Add(inst)
	return holder, nil
}

// Dispatch delivers every finished load without blocking and returns how
// many it handled.
func (l *Loader) Dispatch() int {
	n := 0
	for {
		select {
		case res := <-l.results:
			l.handle(res)
			n++
		default:
			return n
		}
	}
}

func (l *Loader) handle(res Result) {
	onComplete, ok := l.pending[res.ID]
	if !ok {
		l.log.Warn("completion for unknown load", zap.Int("id", res.ID), zap.String("name", res.Name))
		return
	}
	delete(l.pending, res.ID)
	l.done++

	if res.Err != nil {
		l.failed++
		l.log.Error("model load failed",
			zap.String("name", res.Name),
			zap.String("path", res.Path),
			zap.Error(res.Err))
	} else {
		l.log.Info("model loaded", zap.String("name", res.Name), zap.String("path", res.Path))
		if onComplete != nil {
			onComplete(res.Model)
		}
	}

	if l.progress != nil {
		l.progress(l.done, l.issued)
	}
}

// Pending returns the number of issued loads not yet dispatched.
func (l *Loader) Pending() int {
	return l.issued - l.done
}

// Counts returns issued, finished and failed load counts.
func (l *Loader) Counts() (issued, done, failed int) {
	return l.issued, l.done, l.failed
}

// Wait blocks until every worker has finished decoding. Results still need
// a Dispatch to be delivered.
func (l *Loader) Wait() {
	l.wg.Wait()
}

// Close abandons outstanding loads and waits for workers to exit.
func (l *Loader) Close() {
	l.cancel()
	l.wg.Wait()
	l.cache.Clear()
}
