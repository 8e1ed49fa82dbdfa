// Package l10n resolves Nextcloud l10n catalogs for a request's
// Accept-Language header.
package l10n

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/language"

	"visionatrix-exapp/pkg/log"
)

// Translator maps source strings to one language. The zero value and nil
// return the input unchanged.
type Translator struct {
	lang     language.Tag
	messages map[string]string
}

// Lang is the matched language.
func (t *Translator) Lang() language.Tag {
	if t == nil {
		return language.English
	}
	return t.lang
}

// T translates s, falling back to s.
func (t *Translator) T(s string) string {
	if t == nil {
		return s
	}
	if v, ok := t.messages[s]; ok && v != "" {
		return v
	}
	return s
}

// Bundle holds every catalog found in a l10n directory.
type Bundle struct {
	tags        []language.Tag
	translators []*Translator
	matcher     language.Matcher
}

type catalogFile struct {
	Translations map[string]json.RawMessage `json:"translations"`
}

// Load reads <dir>/<lang>.json catalogs. A missing directory yields an
// English-only bundle.
func Load(dir string) (*Bundle, error) {
	b := &Bundle{}
	b.add(&Translator{lang: language.English})

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug("No l10n directory, serving English only", "dir", dir)
		b.matcher = language.NewMatcher(b.tags)
		return b, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read l10n directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		code := strings.TrimSuffix(name, ".json")
		tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
		if err != nil {
			log.Warn("Skipping l10n catalog with unknown language", "file", name, "error", err)
			continue
		}
		messages, err := readCatalog(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		b.add(&Translator{lang: tag, messages: messages})
	}

	b.matcher = language.NewMatcher(b.tags)
	return b, nil
}

func (b *Bundle) add(t *Translator) {
	b.tags = append(b.tags, t.lang)
	b.translators = append(b.translators, t)
}

func readCatalog(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	messages := make(map[string]string, len(file.Translations))
	for k, raw := range file.Translations {
		// plural entries are arrays, only singular strings are used
		var s string
		if json.Unmarshal(raw, &s) == nil {
			messages[k] = s
		}
	}
	return messages, nil
}

// Languages lists the available catalogs, English first.
func (b *Bundle) Languages() []language.Tag {
	return append([]language.Tag(nil), b.tags...)
}

// Match returns the translator for an Accept-Language header value.
func (b *Bundle) Match(acceptLanguage string) *Translator {
	if b == nil || len(b.translators) == 0 {
		return nil
	}
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return b.translators[0]
	}
	_, idx, conf := b.matcher.Match(prefs...)
	if conf == language.No {
		return b.translators[0]
	}
	return b.translators[idx]
}
