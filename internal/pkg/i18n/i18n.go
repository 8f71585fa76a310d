package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	DefaultLocale = "en"
	catalogFile   = "notifications.yaml"
)

type Translations map[string]string

//go:embed locales/*/notifications.yaml
var bundled embed.FS

var (
	locales = make(map[string]Translations)
	current = DefaultLocale
	mu      sync.RWMutex
)

func init() {
	if err := loadFS(bundled, "locales"); err != nil {
		panic(fmt.Sprintf("i18n: bundled catalogue: %v", err))
	}
}

// LoadTranslations overlays catalogues found under localePath/<locale>/notifications.yaml
// on top of the bundled ones.
func LoadTranslations(localePath string) error {
	if _, err := os.Stat(localePath); err != nil {
		return err
	}
	return loadFS(os.DirFS(localePath), ".")
}

func loadFS(fsys fs.FS, root string) error {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		locale := entry.Name()
		filePath := filepath.ToSlash(filepath.Join(root, locale, catalogFile))

		data, err := fs.ReadFile(fsys, filePath)
		if err != nil {
			continue
		}

		var catalog struct {
			Notifications Translations `yaml:"NOTIFICATIONS"`
		}
		if err := yaml.Unmarshal(data, &catalog); err != nil {
			return fmt.Errorf("failed to parse %s: %w", filePath, err)
		}

		if locales[locale] == nil {
			locales[locale] = make(Translations, len(catalog.Notifications))
		}
		for k, v := range catalog.Notifications {
			locales[locale][k] = v
		}
	}

	return nil
}

// SetLocale selects the locale used by T.
func SetLocale(locale string) {
	mu.Lock()
	defer mu.Unlock()
	current = locale
}

func Translate(locale, key string) string {
	mu.RLock()
	defer mu.RUnlock()

	if trans, ok := locales[locale]; ok {
		if val, ok := trans[key]; ok {
			return val
		}
	}

	if locale != DefaultLocale {
		if trans, ok := locales[DefaultLocale]; ok {
			if val, ok := trans[key]; ok {
				return val
			}
		}
	}

	return key
}

func Format(locale, key string, args ...any) string {
	if len(args) == 0 {
		return Translate(locale, key)
	}
	return fmt.Sprintf(Translate(locale, key), args...)
}

// T formats key in the locale chosen with SetLocale.
func T(key string, args ...any) string {
	mu.RLock()
	locale := current
	mu.RUnlock()
	return Format(locale, key, args...)
}
