package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateConfigContent(t *testing.T) {
	content := GenerateConfigContent()

	assert.Contains(t, content, "[project]")
	assert.Contains(t, content, "[npm.dependencies]")
	assert.Contains(t, content, `# expo = "^32.0.6"`)
	assert.Contains(t, content, `# collision = "last-wins"`)
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "[") {
			continue
		}
		t.Errorf("value line left active: %q", line)
	}
}

func TestCommentOutConfigValues(t *testing.T) {
	in := "# comment\n[section]\nkey = 1\n\n  other = \"x\"\n"

	assert.Equal(t, "# comment\n[section]\n# key = 1\n\n#   other = \"x\"\n", commentOutConfigValues(in))
}

func TestRender(t *testing.T) {
	cfg, err := load(t, Options{ProjectDir: t.TempDir()})
	require.NoError(t, err)
	cfg.Npm.VersionReplacements = []Replacement{{Name: "kotlin", Version: "1.3.11"}}

	out, err := Render(cfg)

	require.NoError(t, err)
	assert.Contains(t, out, "[project]")
	assert.Contains(t, out, "[npm.dependencies]")
	assert.Contains(t, out, "[[npm.version_replacements]]")
	assert.Contains(t, out, "android")
	assert.Contains(t, out, filepath.Base(cfg.Workspace.BuildDir))
}
