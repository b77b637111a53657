package refimport

import (
	"context"
	"os"
	"strings"

	"github.com/agentstation/refimport/pkg/errors"
	"github.com/agentstation/refimport/pkg/logging"
	"github.com/agentstation/refimport/pkg/reconciler"
)

// Request describes one import.
type Request struct {
	// Descriptor is the project file to update. Required.
	Descriptor string
	// Directory holds the candidate binaries. Required.
	Directory string
	// Filter keeps only candidates whose name starts with it, ignoring case.
	Filter string
	// DryRun computes the additions without writing anything.
	DryRun bool
	// Progress receives percentages from 0 to 100. Optional.
	Progress reconciler.ProgressSink
}

// Validate checks the request fields and that both paths exist.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Descriptor) == "" {
		return errors.NewValidationError("descriptor", r.Descriptor, "is required")
	}
	if strings.TrimSpace(r.Directory) == "" {
		return errors.NewValidationError("directory", r.Directory, "is required")
	}

	info, err := os.Stat(r.Descriptor)
	switch {
	case os.IsNotExist(err):
		return errors.WrapIO("stat", r.Descriptor, errors.NewNotFoundError("descriptor", r.Descriptor))
	case err != nil:
		return errors.WrapIO("stat", r.Descriptor, err)
	case info.IsDir():
		return errors.NewValidationError("descriptor", r.Descriptor, "is a directory")
	}

	info, err = os.Stat(r.Directory)
	switch {
	case os.IsNotExist(err):
		return errors.WrapIO("stat", r.Directory, errors.NewNotFoundError("directory", r.Directory))
	case err != nil:
		return errors.WrapIO("stat", r.Directory, err)
	case !info.IsDir():
		return errors.NewValidationError("directory", r.Directory, "is not a directory")
	}
	return nil
}

// Import adds a reference to req.Descriptor for every managed assembly in
// req.Directory that it does not reference yet.
func (c *client) Import(ctx context.Context, req Request) (*reconciler.Outcome, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ctx = logging.WithOperation(ctx, "import")
	r, err := reconciler.New(c.reconcilerOptions(req)...)
	if err != nil {
		return nil, err
	}
	return r.Reconcile(ctx, req.Descriptor, req.Directory)
}
