package testutil

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/expobridge/pkg/filesystem"
	"github.com/stretchr/testify/require"
)

// JarBuilder assembles zip archives shaped like compiled script libraries.
// Entries keep the order they were added in.
type JarBuilder struct {
	entries []jarEntry
}

type jarEntry struct {
	name    string
	content string
}

// NewJar starts an empty archive.
func NewJar() *JarBuilder {
	return &JarBuilder{}
}

// File adds an entry. Names ending in "/" become directory entries.
func (b *JarBuilder) File(name, content string) *JarBuilder {
	b.entries = append(b.entries, jarEntry{name: name, content: content})
	return b
}

// Module adds <name>.js and a <name>.meta.js declaring the module.
func (b *JarBuilder) Module(name string) *JarBuilder {
	return b.
		File(name+".js", fmt.Sprintf("define(%q, [], function () {});\n", name)).
		File(name+".meta.js", fmt.Sprintf("// Kotlin.kotlin_module_metadata(1, %q, \"H4sIAAAAAAAAA\");\n", name))
}

// PackageJSON adds an embedded package.json.
func (b *JarBuilder) PackageJSON(name, version string) *JarBuilder {
	return b.File("package.json", fmt.Sprintf("{\n  \"name\": %q,\n  \"version\": %q,\n  \"main\": %q\n}\n", name, version, name+".js"))
}

// ScriptManifest adds a META-INF/MANIFEST.MF flagging a script library.
func (b *JarBuilder) ScriptManifest() *JarBuilder {
	return b.File("META-INF/MANIFEST.MF", "Manifest-Version: 1.0\r\nSpecification-Title: Kotlin JavaScript Lib\r\n")
}

// POM adds a Maven POM with the given coordinates.
func (b *JarBuilder) POM(group, artifact, version string) *JarBuilder {
	pom := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0">
  <modelVersion>4.0.0</modelVersion>
  <groupId>%s</groupId>
  <artifactId>%s</artifactId>
  <version>%s</version>
</project>
`, group, artifact, version)
	return b.File(fmt.Sprintf("META-INF/maven/%s/%s/pom.xml", group, artifact), pom)
}

// Bytes returns the encoded archive.
func (b *JarBuilder) Bytes(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range b.entries {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		if e.content != "" {
			_, err = w.Write([]byte(e.content))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// WriteTo stores the archive at path on fsys, creating parent directories.
func (b *JarBuilder) WriteTo(t *testing.T, fsys filesystem.FS, path string) string {
	t.Helper()
	require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, fsys.WriteFile(path, b.Bytes(t), 0644))
	return path
}
