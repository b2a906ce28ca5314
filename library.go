package reconstruct

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/SeamusWaldron/gocube_reconstruct/internal/algdb"
	"github.com/SeamusWaldron/gocube_reconstruct/internal/algmatch"
)

// libraryCacheSize bounds the number of compiled libraries kept in memory.
const libraryCacheSize = 64

// Library loads algorithm libraries from a source and keeps them compiled.
// Concurrent loads of the same key share one fetch.
type Library struct {
	source algdb.Source
	logger logrus.FieldLogger

	group singleflight.Group
	cache *lru.Cache[string, []algmatch.Compiled]
}

// NewLibrary creates a library over source. A nil logger uses the standard logger.
func NewLibrary(source algdb.Source, logger logrus.FieldLogger) *Library {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	cache, err := lru.New[string, []algmatch.Compiled](libraryCacheSize)
	if err != nil {
		panic(err)
	}
	return &Library{source: source, logger: logger, cache: cache}
}

// Load returns the compiled algorithms stored under key, fetching them on
// first use. A failed fetch is not cached.
func (l *Library) Load(ctx context.Context, key string) ([]algmatch.Compiled, error) {
	if lib, ok := l.cache.Get(key); ok {
		return lib, nil
	}

	ch := l.group.DoChan(key, func() (interface{}, error) {
		if lib, ok := l.cache.Get(key); ok {
			return lib, nil
		}

		algs, err := l.source.Fetch(context.WithoutCancel(ctx), key)
		if err != nil {
			l.logger.WithError(err).WithField("key", key).Warn("algorithm library fetch failed")
			return nil, fmt.Errorf("failed to fetch library %s: %w", key, err)
		}
		lib, err := algmatch.Compile(algs)
		if err != nil {
			return nil, err
		}

		l.cache.Add(key, lib)
		l.logger.WithFields(logrus.Fields{"key": key, "count": len(lib)}).Debug("algorithm library loaded")
		return lib, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]algmatch.Compiled), nil
	}
}

// Reset drops every cached library.
func (l *Library) Reset() {
	l.cache.Purge()
}

var (
	defaultLibraryMu   sync.Mutex
	defaultLibraryOnce sync.Once
	defaultLibrary     *Library
)

// DefaultLibrary returns the process-wide library over the embedded algorithms.
func DefaultLibrary() *Library {
	defaultLibraryMu.Lock()
	defer defaultLibraryMu.Unlock()
	defaultLibraryOnce.Do(func() {
		defaultLibrary = NewLibrary(algdb.Embedded(), nil)
	})
	return defaultLibrary
}

// SetDefaultLibrary replaces the process-wide library, for example with one
// reading a directory of custom algorithms.
func SetDefaultLibrary(lib *Library) {
	defaultLibraryMu.Lock()
	defer defaultLibraryMu.Unlock()
	defaultLibraryOnce.Do(func() {})
	defaultLibrary = lib
}

// ResetDefaultLibrary forgets the process-wide library so the next
// DefaultLibrary call builds a fresh one. Intended for tests.
func ResetDefaultLibrary() {
	defaultLibraryMu.Lock()
	defer defaultLibraryMu.Unlock()
	defaultLibraryOnce = sync.Once{}
	defaultLibrary = nil
}
