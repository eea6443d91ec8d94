package testutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/arthur-debert/expobridge/pkg/filesystem"
)

const maxLinkDepth = 40

var _ filesystem.FS = (*MemoryFS)(nil)

// MemoryFS is an in-memory filesystem.FS with real symlink semantics: Stat
// follows links, Lstat does not, and links in intermediate path components
// are resolved. Every mutating call that changes the tree is recorded so
// tests can assert that an operation touched nothing.
type MemoryFS struct {
	mu    sync.RWMutex
	nodes map[string]*memNode

	// Error injection
	errorPaths map[string]error

	mutations []string
}

type memNode struct {
	mode     os.FileMode
	modTime  time.Time
	content  []byte
	linkDest string
}

func (n *memNode) isDir() bool  { return n.mode.IsDir() }
func (n *memNode) isLink() bool { return n.mode&os.ModeSymlink != 0 }

// NewMemoryFS creates an empty filesystem holding only the root directory.
func NewMemoryFS() *MemoryFS {
	return &MemoryFS{
		nodes: map[string]*memNode{
			"/": {mode: 0755 | os.ModeDir, modTime: time.Now()},
		},
		errorPaths: make(map[string]error),
	}
}

func clean(path string) string {
	if !filepath.IsAbs(path) {
		path = "/" + path
	}
	return filepath.Clean(path)
}

func pathErr(op, path string, err error) error {
	return &fs.PathError{Op: op, Path: path, Err: err}
}

// resolve maps path to the real location of its node, following links in
// every component except possibly the last one.
func (m *MemoryFS) resolve(op, path string, followLast bool) (string, *memNode, error) {
	return m.resolveDepth(op, clean(path), followLast, 0)
}

func (m *MemoryFS) resolveDepth(op, path string, followLast bool, depth int) (string, *memNode, error) {
	if err, ok := m.errorPaths[path]; ok {
		return "", nil, err
	}
	if depth > maxLinkDepth {
		return "", nil, pathErr(op, path, errors.New("too many levels of symbolic links"))
	}

	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	current := "/"
	for i, part := range parts {
		if part == "" {
			continue
		}
		next := filepath.Join(current, part)
		node, ok := m.nodes[next]
		if !ok {
			return next, nil, pathErr(op, path, fs.ErrNotExist)
		}
		last := i == len(parts)-1
		if node.isLink() && (!last || followLast) {
			target := node.linkDest
			if !filepath.IsAbs(target) {
				target = filepath.Join(current, target)
			}
			rest := append([]string{target}, parts[i+1:]...)
			return m.resolveDepth(op, filepath.Clean(filepath.Join(rest...)), followLast, depth+1)
		}
		if !last && !node.isDir() {
			return next, nil, pathErr(op, path, errors.New("not a directory"))
		}
		current = next
	}
	return current, m.nodes[current], nil
}

// parent resolves the directory that will hold path and returns the real
// path the new entry gets.
func (m *MemoryFS) parent(op, path string) (string, error) {
	path = clean(path)
	if err, ok := m.errorPaths[path]; ok {
		return "", err
	}
	dir, node, err := m.resolve(op, filepath.Dir(path), true)
	if err != nil {
		return "", err
	}
	if !node.isDir() {
		return "", pathErr(op, path, errors.New("not a directory"))
	}
	return filepath.Join(dir, filepath.Base(path)), nil
}

func (m *MemoryFS) record(op, path string) {
	m.mutations = append(m.mutations, op+" "+path)
}

// Stat returns file info, following symlinks
func (m *MemoryFS) Stat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, node, err := m.resolve("stat", name, true)
	if err != nil {
		return nil, err
	}
	return &memInfo{node: node, name: filepath.Base(name)}, nil
}

// Lstat returns file info without following a final symlink
func (m *MemoryFS) Lstat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, node, err := m.resolve("lstat", name, false)
	if err != nil {
		return nil, err
	}
	return &memInfo{node: node, name: filepath.Base(name)}, nil
}

// ReadFile returns a copy of the file content
func (m *MemoryFS) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, node, err := m.resolve("open", name, true)
	if err != nil {
		return nil, err
	}
	if node.isDir() {
		return nil, pathErr("read", name, errors.New("is a directory"))
	}
	content := make([]byte, len(node.content))
	copy(content, node.content)
	return content, nil
}

// WriteFile creates or truncates a file. The parent directory must exist.
func (m *MemoryFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	loc, err := m.parent("open", name)
	if err != nil {
		return err
	}
	if existing, ok := m.nodes[loc]; ok {
		if existing.isLink() {
			if loc, existing, err = m.resolve("open", loc, true); err != nil {
				return err
			}
		}
		if existing.isDir() {
			return pathErr("open", name, errors.New("is a directory"))
		}
	}

	content := make([]byte, len(data))
	copy(content, data)
	m.nodes[loc] = &memNode{mode: perm.Perm(), modTime: time.Now(), content: content}
	m.record("write", loc)
	return nil
}

// MkdirAll creates a directory and any missing parents
func (m *MemoryFS) MkdirAll(path string, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = clean(path)
	if err, ok := m.errorPaths[path]; ok {
		return err
	}

	current := "/"
	for _, part := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
		if part == "" {
			continue
		}
		next := filepath.Join(current, part)
		node, ok := m.nodes[next]
		if !ok {
			m.nodes[next] = &memNode{mode: perm.Perm() | os.ModeDir, modTime: time.Now()}
			m.record("mkdir", next)
			current = next
			continue
		}
		if node.isLink() {
			loc, target, err := m.resolve("mkdir", next, true)
			if err != nil {
				return err
			}
			node, next = target, loc
		}
		if !node.isDir() {
			return pathErr("mkdir", next, errors.New("not a directory"))
		}
		current = next
	}
	return nil
}

// Symlink creates newname pointing at oldname
func (m *MemoryFS) Symlink(oldname, newname string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	loc, err := m.parent("symlink", newname)
	if err != nil {
		return err
	}
	if _, ok := m.nodes[loc]; ok {
		return pathErr("symlink", newname, fs.ErrExist)
	}
	m.nodes[loc] = &memNode{mode: 0777 | os.ModeSymlink, modTime: time.Now(), linkDest: oldname}
	m.record("symlink", loc)
	return nil
}

// Readlink returns the destination of a symbolic link
func (m *MemoryFS) Readlink(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, node, err := m.resolve("readlink", name, false)
	if err != nil {
		return "", err
	}
	if !node.isLink() {
		return "", pathErr("readlink", name, fs.ErrInvalid)
	}
	return node.linkDest, nil
}

// Remove removes a file, a symlink or an empty directory
func (m *MemoryFS) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	loc, node, err := m.resolve("remove", name, false)
	if err != nil {
		return err
	}
	if loc == "/" {
		return pathErr("remove", name, fs.ErrPermission)
	}
	if node.isDir() && len(m.children(loc)) > 0 {
		return pathErr("remove", name, errors.New("directory not empty"))
	}
	delete(m.nodes, loc)
	m.record("remove", loc)
	return nil
}

// RemoveAll removes path and everything below it. Symlinks are removed, not
// followed. A missing path is not an error.
func (m *MemoryFS) RemoveAll(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	loc, _, err := m.resolve("removeall", path, false)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if loc == "/" {
		return pathErr("removeall", path, fs.ErrPermission)
	}
	for p := range m.nodes {
		if p == loc || strings.HasPrefix(p, loc+"/") {
			delete(m.nodes, p)
		}
	}
	m.record("removeall", loc)
	return nil
}

// Rename moves oldpath, and everything below it, to newpath
func (m *MemoryFS) Rename(oldpath, newpath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	from, _, err := m.resolve("rename", oldpath, false)
	if err != nil {
		return err
	}
	to, err := m.parent("rename", newpath)
	if err != nil {
		return err
	}
	if existing, ok := m.nodes[to]; ok && existing.isDir() && len(m.children(to)) > 0 {
		return pathErr("rename", newpath, errors.New("directory not empty"))
	}

	moved := make(map[string]*memNode)
	for p, n := range m.nodes {
		if p == from || strings.HasPrefix(p, from+"/") {
			moved[to+strings.TrimPrefix(p, from)] = n
			delete(m.nodes, p)
		}
	}
	for p, n := range moved {
		m.nodes[p] = n
	}
	m.record("rename", from+" -> "+to)
	return nil
}

// ReadDir lists a directory sorted by name
func (m *MemoryFS) ReadDir(name string) ([]fs.DirEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	loc, node, err := m.resolve("readdir", name, true)
	if err != nil {
		return nil, err
	}
	if !node.isDir() {
		return nil, pathErr("readdir", name, errors.New("not a directory"))
	}

	children := m.children(loc)
	entries := make([]fs.DirEntry, 0, len(children))
	for _, child := range children {
		entries = append(entries, fs.FileInfoToDirEntry(&memInfo{node: m.nodes[child], name: filepath.Base(child)}))
	}
	return entries, nil
}

func (m *MemoryFS) children(dir string) []string {
	var out []string
	for p := range m.nodes {
		if p != "/" && filepath.Dir(p) == dir {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// WithError makes every call on path fail with err.
func (m *MemoryFS) WithError(path string, err error) *MemoryFS {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.errorPaths[clean(path)] = err
	return m
}

// Mutations returns the tree changes recorded so far, as "op path" strings.
func (m *MemoryFS) Mutations() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.mutations...)
}

// ResetMutations forgets recorded changes.
func (m *MemoryFS) ResetMutations() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutations = nil
}

type memInfo struct {
	node *memNode
	name string
}

func (fi *memInfo) Name() string       { return fi.name }
func (fi *memInfo) Size() int64        { return int64(len(fi.node.content)) }
func (fi *memInfo) Mode() os.FileMode  { return fi.node.mode }
func (fi *memInfo) ModTime() time.Time { return fi.node.modTime }
func (fi *memInfo) IsDir() bool        { return fi.node.isDir() }
func (fi *memInfo) Sys() interface{}   { return nil }
