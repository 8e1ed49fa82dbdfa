package l10n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func writeCatalogs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"de.json":    `{"translations":{"Visionatrix":"Visionatrix DE","%n image":["%n Bild","%n Bilder"]},"pluralForm":"nplurals=2; plural=(n != 1);"}`,
		"pt_BR.json": `{"translations":{"Visionatrix":"Visionatrix BR"}}`,
		"README.md":  "not a catalog",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestMatch(t *testing.T) {
	b, err := Load(writeCatalogs(t))
	require.NoError(t, err)
	assert.Len(t, b.Languages(), 3)
	assert.Equal(t, language.English, b.Languages()[0])

	tests := []struct {
		header string
		want   string
	}{
		{header: "de-DE,de;q=0.9,en;q=0.8", want: "Visionatrix DE"},
		{header: "pt-BR", want: "Visionatrix BR"},
		{header: "fr-FR", want: "Visionatrix"},
		{header: "", want: "Visionatrix"},
		{header: "en-US", want: "Visionatrix"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, b.Match(tt.header).T("Visionatrix"), tt.header)
	}
}

func TestPluralEntriesIgnored(t *testing.T) {
	b, err := Load(writeCatalogs(t))
	require.NoError(t, err)
	assert.Equal(t, "%n image", b.Match("de").T("%n image"))
}

func TestLoadMissingDir(t *testing.T) {
	b, err := Load(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Equal(t, "Visionatrix", b.Match("de").T("Visionatrix"))
}

func TestLoadInvalidCatalog(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "de.json"), []byte("{"), 0o644))
	_, err := Load(dir)
	assert.ErrorContains(t, err, "de.json")
}

func TestNilTranslator(t *testing.T) {
	var tr *Translator
	assert.Equal(t, "Visionatrix", tr.T("Visionatrix"))
	assert.Equal(t, language.English, tr.Lang())
}
