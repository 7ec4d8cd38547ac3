// Package fetch runs GraphQL requests for one consuming site at a time.
//
// A Controller issues requests as tea.Cmds and commits their results on the
// Update loop. Each Issue cancels the previous in-flight request and bumps a
// generation token; results carrying an older generation are discarded, so
// the committed state always belongs to the most recently issued request.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/anikino/internal/domain"
)

// Status is the lifecycle state of a controller
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// State is a snapshot of a controller's committed result.
// Data is non-nil only in StatusSuccess, Err only in StatusError.
type State[T any] struct {
	Status Status
	Data   *T
	Err    error
}

// Key identifies a request by its document and serialized variables
type Key struct {
	Query     string
	Variables string
}

// ResultMsg carries the outcome of one issued request back to the Update loop
type ResultMsg[T any] struct {
	Site       string
	Generation uint64
	Key        Key
	Data       *T
	Err        error
}

// Controller owns the request lifecycle for a single site
type Controller[T any] struct {
	site    string
	querier domain.Querier
	logger  *slog.Logger

	generation uint64
	cancel     context.CancelFunc

	key       Key
	query     string
	variables any
	issued    bool

	state State[T]
}

// New creates a controller for site that sends requests through q
func New[T any](site string, q domain.Querier, logger *slog.Logger) *Controller[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller[T]{
		site:    site,
		querier: q,
		logger:  logger,
	}
}

// Site returns the site name results are tagged with
func (c *Controller[T]) Site() string {
	return c.site
}

// Key returns the identity of the most recently issued request
func (c *Controller[T]) Key() Key {
	return c.key
}

// State returns the committed state
func (c *Controller[T]) State() State[T] {
	return c.state
}

// Issue cancels any in-flight request, moves to StatusLoading and returns
// a command performing exactly one network call. Re-issuing identical
// variables still fetches.
func (c *Controller[T]) Issue(query string, variables any) tea.Cmd {
	c.abort()

	c.generation++
	c.query = query
	c.variables = variables
	c.key = makeKey(query, variables)
	c.issued = true
	c.state = State[T]{Status: StatusLoading}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	site, gen, key, q := c.site, c.generation, c.key, c.querier
	c.logger.Debug("fetch issued", "site", site, "generation", gen)

	return func() tea.Msg {
		defer cancel()

		var out T
		if err := q.Query(ctx, query, variables, &out); err != nil {
			return ResultMsg[T]{Site: site, Generation: gen, Key: key, Err: err}
		}
		return ResultMsg[T]{Site: site, Generation: gen, Key: key, Data: &out}
	}
}

// Retry re-issues the last request. It returns nil if nothing was issued.
func (c *Controller[T]) Retry() tea.Cmd {
	if !c.issued {
		return nil
	}
	return c.Issue(c.query, c.variables)
}

// Cancel aborts the in-flight request and returns the controller to idle.
// Results already in flight are discarded when they arrive.
func (c *Controller[T]) Cancel() {
	c.abort()
	c.generation++
	c.state = State[T]{Status: StatusIdle}
}

// Resolve commits msg if it belongs to the latest issued request and
// reports whether it did. Stale and cancelled results are dropped.
func (c *Controller[T]) Resolve(msg ResultMsg[T]) bool {
	if msg.Site != c.site {
		return false
	}
	if msg.Generation != c.generation || c.state.Status != StatusLoading {
		c.logger.Debug("fetch result discarded", "site", c.site, "generation", msg.Generation, "latest", c.generation)
		return false
	}
	if errors.Is(msg.Err, context.Canceled) {
		c.logger.Debug("fetch cancelled", "site", c.site, "generation", msg.Generation)
		return false
	}

	c.cancel = nil
	if msg.Err != nil {
		c.logger.Warn("fetch failed", "site", c.site, "error", msg.Err)
		c.state = State[T]{Status: StatusError, Err: msg.Err}
		return true
	}
	c.state = State[T]{Status: StatusSuccess, Data: msg.Data}
	return true
}

func (c *Controller[T]) abort() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func makeKey(query string, variables any) Key {
	b, err := json.Marshal(variables)
	if err != nil {
		return Key{Query: query, Variables: fmt.Sprintf("%v", variables)}
	}
	return Key{Query: query, Variables: string(b)}
}
