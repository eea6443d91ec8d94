package artifact

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/expobridge/pkg/errors"
	"github.com/arthur-debert/expobridge/pkg/filesystem"
	"github.com/arthur-debert/expobridge/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openJar(t *testing.T, jar *testutil.JarBuilder) (*Archive, filesystem.FS) {
	t.Helper()
	fsys := testutil.NewMemoryFS()
	path := jar.WriteTo(t, fsys, "/repo/lib.jar")
	a, err := Open(fsys, Resolved{Path: path, Name: "lib", Version: "1.0"})
	require.NoError(t, err)
	return a, fsys
}

func TestIsScriptLibrary(t *testing.T) {
	tests := []struct {
		name string
		jar  *testutil.JarBuilder
		want bool
	}{
		{"meta.js module", testutil.NewJar().Module("kotlin"), true},
		{"embedded package.json", testutil.NewJar().PackageJSON("left-pad", "1.3.0"), true},
		{"nested package.json", testutil.NewJar().File("dist/package.json", "{}"), true},
		{"script manifest", testutil.NewJar().ScriptManifest().File("a.class", "x"), true},
		{"plain jvm jar", testutil.NewJar().File("META-INF/MANIFEST.MF", "Manifest-Version: 1.0\n").File("a/B.class", "x"), false},
		{"empty", testutil.NewJar(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := openJar(t, tt.jar)
			assert.Equal(t, tt.want, a.IsScriptLibrary())
		})
	}
}

func TestModuleNames(t *testing.T) {
	a, _ := openJar(t, testutil.NewJar().
		Module("kotlin").
		File("broken.meta.js", "// nothing to see").
		Module("kotlinx-coroutines-core"))

	names, err := a.ModuleNames()

	require.NoError(t, err)
	assert.Equal(t, []string{"kotlin", "kotlinx-coroutines-core"}, names)
}

func TestModuleNames_Escapes(t *testing.T) {
	a, _ := openJar(t, testutil.NewJar().
		File("x.meta.js", "  //  Kotlin.kotlin_module_metadata( 12 , \"with\\u002dhyphen\", \"data\");"))

	names, err := a.ModuleNames()

	require.NoError(t, err)
	assert.Equal(t, []string{"with-hyphen"}, names)
}

func TestManifest(t *testing.T) {
	a, _ := openJar(t, testutil.NewJar().PackageJSON("left-pad", "1.3.0"))

	m, err := a.Manifest()

	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "left-pad", m.Name)
	assert.Equal(t, "1.3.0", m.Version)
}

func TestManifest_Absent(t *testing.T) {
	a, _ := openJar(t, testutil.NewJar().Module("kotlin"))

	m, err := a.Manifest()

	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestManifest_Invalid(t *testing.T) {
	a, _ := openJar(t, testutil.NewJar().File("package.json", "{not json"))

	_, err := a.Manifest()

	assert.True(t, errors.IsErrorCode(err, errors.ErrArtifactExtraction))
}

func TestOpen_Failures(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	require.NoError(t, fsys.MkdirAll("/repo", 0755))
	require.NoError(t, fsys.WriteFile("/repo/corrupt.jar", []byte("definitely not a zip"), 0644))

	_, err := Open(fsys, Resolved{Path: "/repo/missing.jar", Name: "missing"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrArtifactExtraction))
	assert.Contains(t, err.Error(), "missing")

	_, err = Open(fsys, Resolved{Path: "/repo/corrupt.jar", Name: "corrupt", Version: "2"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrArtifactExtraction))
	assert.Equal(t, "corrupt:2", errors.GetErrorDetails(err)["artifact"])
}

func TestExtractTo(t *testing.T) {
	a, fsys := openJar(t, testutil.NewJar().
		File("META-INF/", "").
		ScriptManifest().
		Module("kotlin"))

	require.NoError(t, a.ExtractTo(fsys, "/staging/kotlin"))

	for _, name := range []string{"META-INF/MANIFEST.MF", "kotlin.js", "kotlin.meta.js"} {
		_, err := fsys.Stat(filepath.Join("/staging/kotlin", name))
		assert.NoError(t, err, name)
	}
}

func TestExtractTo_RejectsEscapingEntries(t *testing.T) {
	for _, name := range []string{"../evil.js", "a/../../evil.js", "/abs.js"} {
		t.Run(name, func(t *testing.T) {
			a, fsys := openJar(t, testutil.NewJar().File(name, "x"))

			err := a.ExtractTo(fsys, "/staging/lib")

			assert.True(t, errors.IsErrorCode(err, errors.ErrArtifactExtraction))
			_, statErr := fsys.Stat("/staging/evil.js")
			assert.Error(t, statErr)
		})
	}
}

func TestPOMAndComplete(t *testing.T) {
	a, _ := openJar(t, testutil.NewJar().
		Module("kotlin").
		POM("org.jetbrains.kotlin", "kotlin-stdlib-js", "1.3.11"))

	c, ok := a.POM()
	require.True(t, ok)
	assert.Equal(t, Coordinates{Group: "org.jetbrains.kotlin", Artifact: "kotlin-stdlib-js", Version: "1.3.11"}, c)

	completed := a.Complete(Resolved{Path: "/repo/lib.jar", Version: "1.3.20"})
	assert.Equal(t, "kotlin-stdlib-js", completed.Name)
	assert.Equal(t, "1.3.20", completed.Version, "declared values win")
	assert.Equal(t, "org.jetbrains.kotlin", completed.Group)
}

func TestPOM_ParentFallback(t *testing.T) {
	pom := `<project>
  <parent>
    <groupId>com.example</groupId>
    <version>2.0.1</version>
  </parent>
  <artifactId>child</artifactId>
</project>`
	a, _ := openJar(t, testutil.NewJar().File("META-INF/maven/com.example/child/pom.xml", pom))

	c, ok := a.POM()

	require.True(t, ok)
	assert.Equal(t, Coordinates{Group: "com.example", Artifact: "child", Version: "2.0.1"}, c)
}

func TestPOM_Absent(t *testing.T) {
	a, _ := openJar(t, testutil.NewJar().Module("kotlin"))

	_, ok := a.POM()
	assert.False(t, ok)

	r := Resolved{Path: "/x.jar"}
	assert.Equal(t, r, a.Complete(r))
}
