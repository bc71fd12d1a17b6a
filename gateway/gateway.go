// Package gateway owns the registered executors and the merged Schema
// built from them, and is the top-level entry point client requests are
// executed against (spec section 4.4).
package gateway

import (
	"context"
	"sort"
	"sync"

	"github.com/davecgh/go-spew/spew"
	"golang.org/x/sync/errgroup"

	"github.com/federatedgraph/gateway/ast"
	"github.com/federatedgraph/gateway/concurrencylimiter"
	"github.com/federatedgraph/gateway/executor"
	"github.com/federatedgraph/gateway/gqlerrors"
	"github.com/federatedgraph/gateway/introspection"
	"github.com/federatedgraph/gateway/jsonvalue"
	"github.com/federatedgraph/gateway/logger"
	"github.com/federatedgraph/gateway/resolver"
	"github.com/federatedgraph/gateway/schema"
)

type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{})      {}
func (noopLogger) Info(string, ...interface{})       {}
func (noopLogger) Warn(string, ...interface{})       {}
func (noopLogger) Error(string, ...interface{})      {}
func (n noopLogger) With(...interface{}) logger.Logger { return n }

// Request is a client request: a raw query document, an optional
// operation name for multi-operation documents, and variables.
type Request struct {
	Query         string
	OperationName string
	Variables     *jsonvalue.Object
}

// Gateway owns the executor set and the merged schema built from their
// introspection results. The Gateway is safe for concurrent use: Execute
// reads the current schema/executor snapshot, while Build/Pull swap a new
// one in atomically (spec section 5, "Shared resources").
type Gateway struct {
	mu        sync.RWMutex
	executors map[string]executor.Executor
	schemas   map[string]*introspection.Schema
	merged    *schema.Schema
	resolver  *resolver.Resolver
	log       logger.Logger
}

// New returns an empty Gateway with no registered executors.
func New() *Gateway {
	return &Gateway{
		executors: make(map[string]executor.Executor),
		schemas:   make(map[string]*introspection.Schema),
		log:       noopLogger{},
	}
}

// SetLogger attaches l as the gateway's logger; by default the gateway
// logs nothing.
func (g *Gateway) SetLogger(l logger.Logger) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.log = l
}

// Register adds e to the executor set. It must be called before Build;
// registering after Build requires a subsequent Build or Pull to take
// effect.
func (g *Gateway) Register(e executor.Executor) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.executors[e.Name()] = e
}

// Build introspects every registered executor in parallel and merges the
// results into a single Schema, replacing any previously built schema on
// success (spec section 4.4: "invoke introspect() on each executor in
// parallel; feed all pairs into the Merger; on duplicate-field error, fail
// the whole build").
func (g *Gateway) Build(ctx context.Context) error {
	g.mu.RLock()
	execs := make([]executor.Executor, 0, len(g.executors))
	for _, e := range g.executors {
		execs = append(execs, e)
	}
	log := g.log
	g.mu.RUnlock()

	// Sort by name so the merge order - and therefore which executor wins
	// a whitelisted duplicate field - is stable across repeated builds of
	// the same executor set (spec section 4.1).
	sort.Slice(execs, func(i, j int) bool { return execs[i].Name() < execs[j].Name() })

	introspected, err := introspectAll(ctx, execs)
	if err != nil {
		log.Error("build failed introspecting executors", "error", err)
		return err
	}

	pairs := make([]schema.ExecutorSchema, 0, len(execs))
	for _, e := range execs {
		pairs = append(pairs, schema.ExecutorSchema{Name: e.Name(), Schema: introspected[e.Name()]})
	}

	merged, err := schema.Merge(pairs)
	if err != nil {
		log.Error("build failed merging schemas", "error", err)
		return err
	}

	g.mu.Lock()
	g.schemas = introspected
	g.merged = merged
	g.resolver = resolver.New(merged, cloneExecutorMap(g.executors))
	g.mu.Unlock()
	log.Info("schema built", "executors", len(execs))
	return nil
}

// Pull re-introspects a single executor and builds a tentative merged
// schema from the union of cached introspections with the new one
// substituted for name, swapping it in atomically on success (spec
// section 4.4).
func (g *Gateway) Pull(ctx context.Context, name string) error {
	g.mu.RLock()
	e, ok := g.executors[name]
	cachedCopy := make(map[string]*introspection.Schema, len(g.schemas))
	for k, v := range g.schemas {
		cachedCopy[k] = v
	}
	execsCopy := cloneExecutorMap(g.executors)
	log := g.log
	g.mu.RUnlock()

	if !ok {
		return &gqlerrors.UnknownExecutor{Name: name}
	}

	fresh, err := e.Introspect(ctx)
	if err != nil {
		return gqlerrors.Wrapf(err, "introspecting executor %q", name)
	}
	cachedCopy[name] = fresh

	merged, err := schema.Merge(namedSchemas(cachedCopy))
	if err != nil {
		log.Error("pull failed merging schemas", "executor", name, "error", err)
		return err
	}

	g.mu.Lock()
	g.schemas = cachedCopy
	g.merged = merged
	g.resolver = resolver.New(merged, execsCopy)
	g.mu.Unlock()
	log.Info("schema reloaded", "executor", name)
	return nil
}

// Validate re-introspects name and checks whether substituting it into
// the cached set would still merge cleanly, without mutating gateway
// state (spec section 4.4: "same as pull but returns the duplicate-field
// error ... without mutating state").
func (g *Gateway) Validate(ctx context.Context, name string) error {
	g.mu.RLock()
	e, ok := g.executors[name]
	cachedCopy := make(map[string]*introspection.Schema, len(g.schemas))
	for k, v := range g.schemas {
		cachedCopy[k] = v
	}
	g.mu.RUnlock()

	if !ok {
		return &gqlerrors.UnknownExecutor{Name: name}
	}

	fresh, err := e.Introspect(ctx)
	if err != nil {
		return gqlerrors.Wrapf(err, "introspecting executor %q", name)
	}
	cachedCopy[name] = fresh

	_, err = schema.Merge(namedSchemas(cachedCopy))
	return err
}

// Execute parses req.Query, plans, dispatches, and resolves it against
// the current merged schema, returning the client-facing response
// envelope ({"data": ...} or a GraphQL-shaped error per spec section 6).
func (g *Gateway) Execute(ctx context.Context, req Request) *jsonvalue.Object {
	doc, err := ast.Parse(req.Query, req.OperationName)
	if err != nil {
		return gqlerrors.ToResponse(err)
	}

	g.mu.RLock()
	r := g.resolver
	g.mu.RUnlock()
	if r == nil {
		return gqlerrors.ToResponse(&gqlerrors.CustomError{Message: "gateway has no merged schema; call Build first"})
	}

	data, err := r.Execute(ctx, doc, req.Variables)
	if err != nil {
		return gqlerrors.ToResponse(err)
	}
	return gqlerrors.Success(data)
}

// DumpMergedSchema renders the current merged schema as an indented Go
// value dump, for ad hoc debugging of a merge a caller doesn't trust.
func (g *Gateway) DumpMergedSchema() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return spew.Sdump(g.merged)
}

// maxIntrospectFanout bounds how many executors are introspected at once,
// so a gateway with a large executor fleet doesn't open them all
// simultaneously on every Build.
const maxIntrospectFanout = 16

func introspectAll(ctx context.Context, execs []executor.Executor) (map[string]*introspection.Schema, error) {
	results := make(map[string]*introspection.Schema, len(execs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(concurrencylimiter.With(ctx, maxIntrospectFanout))
	for _, e := range execs {
		e := e
		g.Go(func() error {
			release := concurrencylimiter.Acquire(gctx)
			defer release()
			s, err := e.Introspect(gctx)
			if err != nil {
				return gqlerrors.Wrapf(err, "introspecting executor %q", e.Name())
			}
			mu.Lock()
			results[e.Name()] = s
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// namedSchemas collects cached into a slice sorted by executor name, so
// Pull/Validate feed schema.Merge a deterministic order the same way Build
// does (spec section 4.1).
func namedSchemas(cached map[string]*introspection.Schema) []schema.ExecutorSchema {
	names := make([]string, 0, len(cached))
	for name := range cached {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]schema.ExecutorSchema, 0, len(cached))
	for _, name := range names {
		pairs = append(pairs, schema.ExecutorSchema{Name: name, Schema: cached[name]})
	}
	return pairs
}

func cloneExecutorMap(m map[string]executor.Executor) map[string]executor.Executor {
	out := make(map[string]executor.Executor, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
