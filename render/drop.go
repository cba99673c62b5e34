package render

import (
	"io/fs"
	"path"
	"strings"
)

// droppedFile is one image file dropped onto the window.
type droppedFile struct {
	name string
	data []byte
}

// isImageName reports whether name has an image extension the cache can
// decode.
func isImageName(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif":
		return true
	}
	return false
}

// readDropped collects the image files in fsys, walking directories.
// Unreadable entries are skipped.
func readDropped(fsys fs.FS) []droppedFile {
	var out []droppedFile
	_ = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !isImageName(p) {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil || len(data) == 0 {
			return nil
		}
		out = append(out, droppedFile{name: path.Base(p), data: data})
		return nil
	})
	return out
}
