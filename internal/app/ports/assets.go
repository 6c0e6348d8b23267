package ports

import "context"

type ImageInfo struct {
	Path   string
	Width  float64
	Height float64
}

// AssetLibrary is the asset-loading collaborator. LoadImages must complete
// before any entity that needs natural dimensions is constructed; Image only
// resolves paths that have been loaded.
type AssetLibrary interface {
	LoadImages(ctx context.Context, paths []string) error
	Image(path string) (ImageInfo, bool)
}
