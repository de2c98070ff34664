package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/silt/pkg/adapters/memory"
	"github.com/aretw0/silt/pkg/adapters/sqlite"
	"github.com/aretw0/silt/pkg/core"
)

// Init builds and initializes the storage adapter. The 'uri' argument is
// adapter-specific: a database path (or ":memory:") for 'sqlite', ignored
// for 'memory'.
//
// It returns the ready core.Store.
func Init(uri string, opts ...Option) (core.Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	// 1. Check for injected store
	if o.store != nil {
		return o.store, nil
	}

	// 2. Initialize based on Adapter
	var store core.Store
	var err error

	switch o.adapter {
	case "sqlite":
		store, err = sqlite.New(uri, o.logger)
	case "memory":
		store = memory.New()
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}

	if err != nil {
		return nil, err
	}

	// 3. Run Initialization
	if err := store.Initialize(context.Background()); err != nil {
		return nil, err
	}

	return store, nil
}
