package ranger

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// TODO(dlk): configurable env files
	_ "github.com/joho/godotenv/autoload"
	"github.com/xy-planning-network/relay"
	"github.com/xy-planning-network/relay/logger"
)

const shutdownTimeout = 5 * time.Second

// A Ranger manages one relay server: its environment, logger, and *http.Server.
type Ranger struct {
	ctx context.Context
	env relay.Environment
	l   logger.Logger
	srv *http.Server
}

// New constructs a Ranger from the provided options.
// Options are applied in order; later options overwrite earlier ones.
//
// A Ranger requires a handler, set by WithHandler.
func New(opts ...RangerOption) (*Ranger, error) {
	r := &Ranger{ctx: context.Background(), env: relay.Development}
	followups := make([]OptFollowup, 0)

	// NOTE(dlk): calling an option configures the *Ranger under construction.
	// Some options require data from other options.
	// These options, therefore, must delay configuring the *Ranger
	// until all options configure the *Ranger first.
	// They return an OptFollowup to be called after the initial set of options are run.
	for _, opt := range opts {
		fn, err := opt(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", relay.ErrBadConfig, err)
		}

		if fn != nil {
			followups = append(followups, fn)
		}
	}

	if r.l == nil {
		r.l = logger.New(logger.WithEnv(r.env.String()))
	}

	for _, fn := range followups {
		if err := fn(); err != nil {
			return nil, fmt.Errorf("%w: %s", relay.ErrBadConfig, err)
		}
	}

	if r.srv == nil || r.srv.Handler == nil {
		return nil, fmt.Errorf("%w: no handler", relay.ErrBadConfig)
	}

	return r, nil
}

func (r *Ranger) EmitEnv() relay.Environment { return r.env }
func (r *Ranger) EmitLogger() logger.Logger   { return r.l }

// Handler is what the server serves.
func (r *Ranger) Handler() http.Handler { return r.srv.Handler }

// Guide begins the web server.
//
// These, cancelling the context set by WithContext, and (*Ranger).Shutdown stop Guide:
//
// - os.Interrupt
// - syscall.SIGHUP
// - syscall.SIGINT
// - syscall.SIGQUIT
// - syscall.SIGTERM
//
// Guide returns an error if the server cannot listen.
func (r *Ranger) Guide() error {
	ch := make(chan os.Signal, 1)
	signal.Notify(
		ch,
		os.Interrupt,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	defer signal.Stop(ch)

	errs := make(chan error, 1)
	go func() {
		r.l.Info(fmt.Sprintf("running web server at %s", r.srv.Addr), nil)
		if err := r.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errs <- fmt.Errorf("could not listen: %w", err)
		}
	}()

	select {
	case s := <-ch:
		r.l.Info(fmt.Sprint("received shutdown signal: ", s), nil)
	case <-r.ctx.Done():
		r.l.Info("context done", nil)
	case err := <-errs:
		r.l.Error(err.Error(), nil)
		return err
	}

	return r.Shutdown()
}

// Shutdown shutdowns the web server.
func (r *Ranger) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	r.l.Info("shutting down web server", nil)
	err := r.srv.Shutdown(shutdownCtx)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("could not shutdown: %w", err)
	}

	r.l.Info("web server shutdown successfully", nil)
	return nil
}
