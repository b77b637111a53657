// Package refimport keeps the binary references of a project descriptor
// (a .csproj style XML file) in step with a directory of .NET assemblies.
//
// The Client checks caller preconditions, applies defaults and hooks, and
// delegates the actual work to pkg/reconciler.
//
// Example usage:
//
//	client, err := refimport.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client.OnReferenceAdded(func(ref project.Reference) {
//	    log.Printf("added %s -> %s", ref.Include, ref.HintPath)
//	})
//
//	outcome, err := client.Import(ctx, refimport.Request{
//	    Descriptor: "App/App.csproj",
//	    Directory:  "lib",
//	    Filter:     "Contoso.",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(outcome.Summary())
package refimport

import (
	"context"
	"sync"

	"github.com/agentstation/refimport/pkg/project"
	"github.com/agentstation/refimport/pkg/reconciler"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Importer adds missing references to a descriptor.
type Importer interface {
	Import(ctx context.Context, req Request) (*reconciler.Outcome, error)
}

// Scanner lists candidates without touching any descriptor.
type Scanner interface {
	Scan(ctx context.Context, dir string, filter string) ([]ScanEntry, error)
}

// Hooks provides event callback registration.
type Hooks interface {
	OnReferenceAdded(fn ReferenceAddedHook)
}

// Client imports assembly references into project descriptors.
type Client interface {

	// Importer runs reconciliation passes
	Importer

	// Scanner inspects candidate directories
	Scanner

	// Hooks provides access to event callback registration
	Hooks
}

// client is the internal implementation of the Client interface.
type client struct {
	options *options

	// passes on the same client are serialized
	mu    sync.Mutex
	hooks *hooks
}

// New creates a new Client instance with the given options.
func New(opts ...Option) (Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}
	return &client{
		options: o,
		hooks:   newHooks(),
	}, nil
}

// OnReferenceAdded registers a callback for every reference a pass adds.
// Callbacks run on the goroutine of the pass, in registration order.
func (c *client) OnReferenceAdded(fn ReferenceAddedHook) {
	c.hooks.OnReferenceAdded(fn)
}

// reconcilerOptions translates the client options plus a request into
// reconciler options.
func (c *client) reconcilerOptions(req Request) []reconciler.Option {
	opts := []reconciler.Option{
		reconciler.WithPattern(c.options.pattern),
		reconciler.WithBackupSuffix(c.options.backupSuffix),
		reconciler.WithManagedOnly(c.options.managedOnly),
		reconciler.WithPrefixFilter(req.Filter),
		reconciler.WithProgress(req.Progress),
		reconciler.WithDryRun(req.DryRun),
		reconciler.WithAddedHook(func(ref project.Reference) {
			c.hooks.triggerReferenceAdded(ref)
		}),
	}
	if c.options.validator != nil {
		opts = append(opts, reconciler.WithValidator(c.options.validator))
	}
	return opts
}
