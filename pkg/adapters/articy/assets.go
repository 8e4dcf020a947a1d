package articy

import (
	"os"
	"path/filepath"
)

// DirAssetIndex checks asset references against a directory on disk,
// usually the Ren'Py game directory the target lives in. It implements
// ports.AssetIndex.
type DirAssetIndex struct {
	root string
}

func NewDirAssetIndex(root string) *DirAssetIndex {
	return &DirAssetIndex{root: root}
}

// Has reports whether the slash-separated relative path names an existing
// file under the root.
func (i *DirAssetIndex) Has(relPath string) bool {
	info, err := os.Stat(filepath.Join(i.root, filepath.FromSlash(relPath)))
	return err == nil && !info.IsDir()
}
