// Package engine implements the reconciler: a single-writer actor owning all
// emulated Argo CD state. External calls are turned into commands drained by
// one goroutine; running sync operations execute in their own goroutines and
// funnel their mutations back through the same command channel.
package engine

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/devcanvas-labs/argocd-emulator/internal/config"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops/external"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops/notify"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops/schedule"
	"github.com/devcanvas-labs/argocd-emulator/internal/logging"
)

type cmdResult struct {
	val interface{}
	err error
}

// command is one unit of work for the actor goroutine. run executes with the
// engine's write lock held; resp may be nil for fire-and-forget commands.
type command struct {
	name string
	run  func() (interface{}, error)
	resp chan cmdResult
}

// Engine is the reconciler actor. Construct with New, start with Run, then
// use the exported methods from any goroutine.
type Engine struct {
	cfg        *config.Config
	clock      clockwork.Clock
	resolver   external.RepoResolver
	syncer     external.SyncSimulator
	dispatcher *notify.Dispatcher
	eval       *schedule.Evaluator
	log        *logrus.Entry

	mu sync.RWMutex
	st *state

	commands chan *command
}

// New assembles an engine from its collaborators. Run must be called before
// any command-submitting method is used.
func New(cfg *config.Config, clock clockwork.Clock, resolver external.RepoResolver, syncer external.SyncSimulator, dispatcher *notify.Dispatcher) *Engine {
	return &Engine{
		cfg:        cfg,
		clock:      clock,
		resolver:   resolver,
		syncer:     syncer,
		dispatcher: dispatcher,
		eval:       schedule.NewEvaluator(cfg.Location()),
		log:        logging.WithField("component", "engine"),
		st:         newState(),
		commands:   make(chan *command, 64),
	}
}

// Run drains the command channel and fires periodic reconciliation ticks
// until ctx is cancelled. It is the only goroutine that mutates engine state.
func (e *Engine) Run(ctx context.Context) {
	ticker := e.clock.NewTicker(e.cfg.TickInterval)
	defer ticker.Stop()

	e.log.WithField("tickInterval", e.cfg.TickInterval).Info("Engine started")
	for {
		select {
		case <-ctx.Done():
			e.cancelAllRunning()
			e.log.Info("Engine stopped")
			return
		case cmd := <-e.commands:
			e.mu.Lock()
			val, err := cmd.run()
			e.mu.Unlock()
			if cmd.resp != nil {
				cmd.resp <- cmdResult{val: val, err: err}
			}
		case <-ticker.Chan():
			e.mu.Lock()
			e.tick(ctx)
			e.mu.Unlock()
		}
	}
}

// do submits a command and waits for its result
func (e *Engine) do(ctx context.Context, name string, run func() (interface{}, error)) (interface{}, error) {
	cmd := &command{name: name, run: run, resp: make(chan cmdResult, 1)}
	select {
	case e.commands <- cmd:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case res := <-cmd.resp:
		return res.val, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// post submits a fire-and-forget command; used by operation goroutines to
// report progress back to the actor
func (e *Engine) post(name string, run func() (interface{}, error)) {
	e.commands <- &command{name: name, run: run}
}

func (e *Engine) cancelAllRunning() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range e.st.running {
		r.cancel()
	}
}

// emit fans an event out to the notification channels asynchronously so the
// actor never blocks on delivery. Must be called with the write lock held.
func (e *Engine) emit(event gitops.Event, evctx map[string]string) {
	channels := e.st.channelList()
	if len(channels) == 0 {
		return
	}
	go e.dispatcher.Dispatch(context.Background(), channels, event, evctx)
}
