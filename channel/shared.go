package channel

import (
	"errors"
	"sync"

	"github.com/datashield/oneclick"
)

// ErrAlreadyCreated is returned by Configure, if the shared plugin was
// already created.
var ErrAlreadyCreated = errors.New("shared plugin is already created")

var (
	sharedMu   sync.Mutex
	shared     *Plugin
	sharedOpts []oneclick.Option
	pluginOpts []Option
)

// Configure sets the options of the shared plugin.  It must be called before
// the first call to Shared.
func Configure(managerOpts []oneclick.Option, opts ...Option) error {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if shared != nil {
		return ErrAlreadyCreated
	}
	sharedOpts = managerOpts
	pluginOpts = opts
	return nil
}

// Shared returns the process-wide plugin, creating it on the first call.
func Shared() (*Plugin, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if shared != nil {
		return shared, nil
	}
	m, err := oneclick.New(sharedOpts...)
	if err != nil {
		return nil, err
	}
	shared = New(m, pluginOpts...)
	return shared, nil
}

