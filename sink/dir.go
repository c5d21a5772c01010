// Package sink persists composite images produced by a shapeset.Builder.
package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/gogpu/shapeset"
)

// ClassDir returns the folder name of a class: "class-<i>".
func ClassDir(class int) string {
	return "class-" + strconv.Itoa(class)
}

// FileName returns the file name of a composite: "<index>.png".
func FileName(index int) string {
	return strconv.Itoa(index) + ".png"
}

// Dir writes composites to <root>/class-<i>/<index>.png.
//
// I/O errors are returned to the caller unchanged in kind and never
// retried; files written before a failure stay on disk.
type Dir struct {
	root string

	mu      sync.Mutex
	created map[int]bool
}

// NewDir returns a sink rooted at root. Nothing is created until Prepare
// or the first Save.
func NewDir(root string) *Dir {
	return &Dir{root: root, created: make(map[int]bool)}
}

// Root returns the dataset root folder.
func (d *Dir) Root() string { return d.root }

// Prepare creates the root and the folders class-0 through
// class-(nclasses-1).
func (d *Dir) Prepare(nclasses int) error {
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return fmt.Errorf("sink: create root: %w", err)
	}
	for i := range nclasses {
		if err := d.ensureClass(i); err != nil {
			return err
		}
	}
	return nil
}

// Path returns the file path of a composite.
func (d *Dir) Path(class, index int) string {
	return filepath.Join(d.root, ClassDir(class), FileName(index))
}

// Save implements shapeset.Sink. The class folder is created on first use.
func (d *Dir) Save(class, index int, img *shapeset.Canvas) error {
	if err := d.ensureClass(class); err != nil {
		return err
	}
	path := d.Path(class, index)
	if err := img.SavePNG(path); err != nil {
		return fmt.Errorf("sink: write %s: %w", path, err)
	}
	shapeset.Logger().Debug("image saved", "path", path)
	return nil
}

func (d *Dir) ensureClass(class int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.created[class] {
		return nil
	}
	dir := filepath.Join(d.root, ClassDir(class))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("sink: create %s: %w", dir, err)
	}
	d.created[class] = true
	return nil
}
