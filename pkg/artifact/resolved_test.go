package artifact

import (
	"testing"

	"github.com/arthur-debert/expobridge/pkg/errors"
	"github.com/arthur-debert/expobridge/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolved_Names(t *testing.T) {
	r := Resolved{Path: "/repo/kotlin-stdlib-js-1.3.11.jar", Group: "org.jetbrains.kotlin", Name: "kotlin-stdlib-js", Version: "1.3.11"}
	assert.Equal(t, "kotlin-stdlib-js-1.3.11", r.FileStem())
	assert.Equal(t, "org.jetbrains.kotlin:kotlin-stdlib-js:1.3.11", r.String())

	anonymous := Resolved{Path: "/repo/thing.zip"}
	assert.Equal(t, "thing", anonymous.FileStem())
	assert.Equal(t, "thing.zip", anonymous.String())
}

func TestLoadList(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	require.NoError(t, fsys.MkdirAll("/project/build", 0755))
	list := `artifacts:
  - path: libs/kotlin.jar
    name: kotlin
    version: 1.3.11
  - path: /abs/other.jar
    group: com.example
    name: other
`
	require.NoError(t, fsys.WriteFile("/project/build/artifacts.yaml", []byte(list), 0644))

	got, err := LoadList(fsys, "/project/build/artifacts.yaml")

	require.NoError(t, err)
	assert.Equal(t, []Resolved{
		{Path: "/project/build/libs/kotlin.jar", Name: "kotlin", Version: "1.3.11"},
		{Path: "/abs/other.jar", Group: "com.example", Name: "other"},
	}, got)
}

func TestLoadList_Errors(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	require.NoError(t, fsys.WriteFile("/bad.yaml", []byte("artifacts: [unterminated"), 0644))
	require.NoError(t, fsys.WriteFile("/nopath.yaml", []byte("artifacts:\n  - name: x\n"), 0644))

	_, err := LoadList(fsys, "/missing.yaml")
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileNotFound))

	_, err = LoadList(fsys, "/bad.yaml")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = LoadList(fsys, "/nopath.yaml")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}
