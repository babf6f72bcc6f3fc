package gassets

import (
	"embed"
	"os"
	"path"
)

//go:embed assets
var embeddedAssets embed.FS

// ReadAsset prefers a copy on disk under dir, then the embedded one.
func ReadAsset(dir, name string) ([]byte, error) {
	if dir != "" {
		if b, err := os.ReadFile(path.Join(dir, name)); err == nil {
			return b, nil
		}
	}
	return embeddedAssets.ReadFile(path.Join("assets", name))
}
