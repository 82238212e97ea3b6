package i18n

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// WithYAMLDir loads every {lang}.yaml or {lang}.yml file at the root of fsys.
//
// A catalog is rejected with ErrInvalidFile when its name is not a language
// tag, when a language has two files, or when a key holds a list or nothing.
//
//	es.yaml
//	en.yaml
func WithYAMLDir(fsys fs.FS) Option {
	return func(i *I18n) error {
		entries, err := fs.ReadDir(fsys, ".")
		if err != nil {
			return fmt.Errorf("reading catalog dir: %w", err)
		}

		seen := make(map[string]string, len(entries))
		for _, e := range entries {
			ext := strings.ToLower(path.Ext(e.Name()))
			if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
				continue
			}

			lang := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
			if _, err := language.Parse(lang); err != nil {
				return fmt.Errorf("%w: %q is not named after a language: %s", ErrInvalidFile, e.Name(), err)
			}
			if prev, dup := seen[lang]; dup {
				return fmt.Errorf("%w: %q and %q both hold %s", ErrInvalidFile, prev, e.Name(), lang)
			}
			seen[lang] = e.Name()

			translations, err := readCatalog(fsys, e.Name())
			if err != nil {
				return err
			}
			i.add(lang, translations)
		}
		return nil
	}
}

func readCatalog(fsys fs.FS, name string) (map[string]any, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", name, err)
	}

	var translations map[string]any
	if err := yaml.Unmarshal(data, &translations); err != nil {
		return nil, fmt.Errorf("%w: parsing %q: %s", ErrInvalidFile, name, err)
	}
	if key, ok := badLeaf(translations, ""); !ok {
		return nil, fmt.Errorf("%w: %q: key %q must hold text or a section", ErrInvalidFile, name, key)
	}
	return translations, nil
}

// badLeaf returns the first key under data whose value is neither a scalar
// nor a section.
func badLeaf(data map[string]any, prefix string) (string, bool) {
	for key, value := range data {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch v := value.(type) {
		case map[string]any:
			if k, ok := badLeaf(v, full); !ok {
				return k, false
			}
		case nil, []any:
			return full, false
		}
	}
	return "", true
}
