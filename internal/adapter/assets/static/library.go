package staticassets

import (
	"context"
	"fmt"
	"sync"

	"gridstead/internal/app/ports"
	"gridstead/internal/domain/world"
)

// Library serves image metadata from a built-in manifest. The browser client
// owns the pixels; the server only needs natural dimensions, and it needs
// them before constructing any entity. Image resolves a path only after a
// LoadImages call has covered it, preserving the load-before-construct
// contract.
type Library struct {
	mu       sync.Mutex
	manifest map[string]ports.ImageInfo
	loaded   map[string]bool
}

func NewLibrary() *Library {
	return &Library{
		manifest: defaultManifest(),
		loaded:   make(map[string]bool),
	}
}

func defaultManifest() map[string]ports.ImageInfo {
	dims := map[string][2]float64{
		"assets/objects/tree.png":      {48, 64},
		"assets/objects/house.png":     {128, 96},
		"assets/objects/door_exit.png": {32, 40},
		"assets/items/log.png":         {24, 24},
		"assets/items/stone.png":       {20, 20},
		"assets/items/stick.png":       {24, 12},
	}
	for _, cfg := range world.DefaultTerrainRegistry() {
		dims[cfg.Asset] = [2]float64{world.TileSize, world.TileSize}
	}
	for _, cfg := range world.DefaultItemRegistry() {
		if _, ok := dims[cfg.Asset]; !ok {
			dims[cfg.Asset] = [2]float64{24, 24}
		}
	}
	out := make(map[string]ports.ImageInfo, len(dims))
	for path, wh := range dims {
		out[path] = ports.ImageInfo{Path: path, Width: wh[0], Height: wh[1]}
	}
	return out
}

func (l *Library) LoadImages(_ context.Context, paths []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range paths {
		if _, ok := l.manifest[p]; !ok {
			return fmt.Errorf("image %q: %w", p, ports.ErrAssetUnavailable)
		}
	}
	for _, p := range paths {
		l.loaded[p] = true
	}
	return nil
}

func (l *Library) Image(path string) (ports.ImageInfo, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.loaded[path] {
		return ports.ImageInfo{}, false
	}
	info, ok := l.manifest[path]
	return info, ok
}
