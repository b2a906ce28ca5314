// Package algdb supplies named algorithm libraries keyed by path, such as
// "cfop/oll". The built-in libraries are embedded; a directory of JSON files
// laid out the same way can replace them.
package algdb

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/SeamusWaldron/gocube_reconstruct/internal/algmatch"
)

// Library keys.
const (
	KeyOLL  = "cfop/oll"
	KeyPLL  = "cfop/pll"
	KeyCMLL = "roux/cmll"
)

// ErrUnknownKey is returned when no library exists for a key.
var ErrUnknownKey = errors.New("algdb: unknown library key")

//go:embed data
var embedded embed.FS

// Source fetches the algorithms stored under a key.
type Source interface {
	Fetch(ctx context.Context, key string) ([]algmatch.Algorithm, error)
}

// fsSource reads <key>.json from a filesystem.
type fsSource struct {
	fsys fs.FS
	name string
}

// Embedded returns the libraries compiled into the binary.
func Embedded() Source {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(err)
	}
	return &fsSource{fsys: sub, name: "embedded"}
}

// Dir returns a source reading <dir>/<key>.json.
func Dir(dir string) Source {
	return &fsSource{fsys: os.DirFS(dir), name: dir}
}

func (s *fsSource) Fetch(ctx context.Context, key string) ([]algmatch.Algorithm, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(s.fsys, filepath.ToSlash(key)+".json")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s in %s", ErrUnknownKey, key, s.name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read library %s: %w", key, err)
	}

	var algs []algmatch.Algorithm
	if err := json.Unmarshal(data, &algs); err != nil {
		return nil, fmt.Errorf("failed to parse library %s: %w", key, err)
	}
	return algs, nil
}

// Static serves fixed algorithm lists.
type Static map[string][]algmatch.Algorithm

func (s Static) Fetch(ctx context.Context, key string) ([]algmatch.Algorithm, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	algs, ok := s[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return algs, nil
}

// Chain tries each source in order and returns the first that knows the key.
type Chain []Source

func (c Chain) Fetch(ctx context.Context, key string) ([]algmatch.Algorithm, error) {
	for _, s := range c {
		algs, err := s.Fetch(ctx, key)
		if errors.Is(err, ErrUnknownKey) {
			continue
		}
		return algs, err
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
}
