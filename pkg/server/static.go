package server

import (
	"net/http"
	"os"
	"path"
)

// staticFS serves files from a directory but hides directories that have no
// index.html, so http.FileServer never renders a listing.
type staticFS struct {
	fs http.FileSystem
}

func newStaticFS(dir string) staticFS {
	return staticFS{fs: http.Dir(dir)}
}

func (s staticFS) Open(name string) (http.File, error) {
	f, err := s.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if !info.IsDir() {
		return f, nil
	}

	index, err := s.fs.Open(path.Join(name, "index.html"))
	if err != nil {
		f.Close()
		return nil, os.ErrNotExist
	}
	index.Close()
	return f, nil
}
