package worker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sections.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSectionsFile(t *testing.T) {
	path := writeFile(t, `
sections:
  - business
  - " world "
  - ""
  - business
  - uk-news
`)

	sections, err := LoadSectionsFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"business", "world", "uk-news"}, sections)
}

func TestLoadSectionsFile_Empty(t *testing.T) {
	sections, err := LoadSectionsFile(writeFile(t, "sections: []\n"))
	require.NoError(t, err)
	assert.Empty(t, sections)
}

func TestLoadSectionsFile_Errors(t *testing.T) {
	_, err := LoadSectionsFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read sections file")

	_, err = LoadSectionsFile(writeFile(t, "sections: [business\n"))
	assert.ErrorContains(t, err, "parse sections file")

	_, err = LoadSectionsFile(writeFile(t, "sections:\n  nested: true\n"))
	assert.ErrorContains(t, err, "parse sections file")
}
