package framework

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/golang/glog"
)

type namedRunnable struct {
	Runnable
	name string
}

func (r *namedRunnable) Name() string {
	return r.name
}

// NamedRun wraps a Runnable with a name.
func NamedRun(name string, runnable Runnable) Runnable {
	return &namedRunnable{name: name, Runnable: runnable}
}

// Runner runs multiple Runnables and collect errors.
// The first Runnable to stop cancels the others.
type Runner struct {
	Context context.Context
	Runners []Runnable

	cancel func()
	errCh  chan error
	exitCh chan struct{}
}

// NewRunner creates a runner with a default background context.
func NewRunner() *Runner {
	return NewRunnerWith(context.Background())
}

// NewRunnerWith creates a runner with a specified context.
func NewRunnerWith(ctx context.Context) *Runner {
	r := &Runner{exitCh: make(chan struct{})}
	r.Context, r.cancel = context.WithCancel(ctx)
	return r
}

// HandleSignals handles CtrlC and SIGTERM from the system.
func (r *Runner) HandleSignals() *Runner {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		glog.Info("stop requested")
		r.cancel()
		<-sigCh
		glog.Error("stop requested again, force exit")
		close(r.exitCh)
	}()
	return r
}

// Go spawns Runnables with the runner context.
func (r *Runner) Go(runners ...Runnable) *Runner {
	if r.errCh == nil {
		r.errCh = make(chan error, len(runners))
	}
	for _, runner := range runners {
		var name string
		if named, ok := runner.(Named); ok {
			name = named.Name()
		} else {
			name = strconv.Itoa(len(r.Runners))
		}
		r.Runners = append(r.Runners, runner)
		glog.V(4).Infof("start Runner[%s]", name)
		go func(runner Runnable, name string) {
			err := runner.Run(r.Context)
			if err != nil && !errors.Is(err, context.Canceled) {
				glog.Errorf("Runner[%s] failed: %v", name, err)
			} else {
				glog.V(4).Infof("Runner[%s] stopped", name)
			}
			r.cancel()
			r.errCh <- err
		}(runner, name)
	}
	return r
}

// Wait waits until all Runnables stops and aggregate errors.
func (r *Runner) Wait() error {
	var errs AggregatedError
	for range r.Runners {
		select {
		case <-r.exitCh:
			return errors.New("forced exit")
		case err := <-r.errCh:
			if !errors.Is(err, context.Canceled) {
				errs.Add(err)
			}
		}
	}
	return errs.Aggregate()
}

// RunUntilSignaled is intended to be used in main, it runs until a
// Runnable stops or the process is signaled.
func (r *Runner) RunUntilSignaled(runners ...Runnable) error {
	return r.HandleSignals().Go(runners...).Wait()
}

// RunWithContextCancel runs a func with doesn't accept a context.
// cancel is called only when the context is canceled.
func RunWithContextCancel(ctx context.Context, onCancel func(), fn func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
	}()
	select {
	case <-ctx.Done():
		if onCancel != nil {
			onCancel()
		}
		<-errCh
		return context.Canceled
	case err := <-errCh:
		return err
	}
}

// RunWithContextCloser is a convenient wrapper for RunWithContextCancel and
// ensures closer.Close is either called on cancel or exit of fn.
func RunWithContextCloser(ctx context.Context, closer io.Closer, fn func() error) error {
	var closed bool
	err := RunWithContextCancel(ctx, func() {
		closer.Close()
		closed = true
	}, fn)
	if !closed {
		closer.Close()
	}
	return err
}
