// Package l10n holds the conventions of the Nextcloud translation tooling.
package l10n

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// TemplatesDir is the translationfiles entry holding .pot templates.
const TemplatesDir = "templates"

// ToolCommand returns the program and arguments running the translation
// tool with args. A .phar archive is run through php.
func ToolCommand(tool string, args ...string) (string, []string) {
	if strings.EqualFold(filepath.Ext(tool), ".phar") {
		return "php", append([]string{tool}, args...)
	}
	return tool, args
}

// Catalog is one gettext source and the binary catalog compiled from it.
type Catalog struct {
	Lang   string
	Source string
	Target string
}

// Catalogs maps every translationfiles/<lang>/<domain>.po below sourceDir to
// localeDir/<lang>/LC_MESSAGES/<domain>.mo, sorted by language and domain.
func Catalogs(sourceDir, localeDir string) ([]Catalog, error) {
	langs, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, err
	}

	var catalogs []Catalog
	for _, lang := range langs {
		if !lang.IsDir() || lang.Name() == TemplatesDir {
			continue
		}
		files, err := filepath.Glob(filepath.Join(sourceDir, lang.Name(), "*.po"))
		if err != nil {
			return nil, err
		}
		sort.Strings(files)
		for _, src := range files {
			domain := strings.TrimSuffix(filepath.Base(src), ".po")
			catalogs = append(catalogs, Catalog{
				Lang:   lang.Name(),
				Source: src,
				Target: filepath.Join(localeDir, lang.Name(), "LC_MESSAGES", domain+".mo"),
			})
		}
	}
	return catalogs, nil
}
