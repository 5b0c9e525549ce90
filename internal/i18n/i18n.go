// Package i18n holds the storefront message catalogs.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var locales embed.FS

var ErrUnsupportedLanguage = errors.New("unsupported language")

// Catalog maps dotted keys to messages per language.
type Catalog struct {
	fallback string
	langs    []string
	messages map[string]map[string]string
	matcher  language.Matcher
	// matched is indexed like the matcher's supported tags.
	matched  []string
}

// Load parses the embedded catalogs. When languages are given only those
// are served, and each must have a catalog. fallback must be served.
func Load(fallback string, languages ...string) (*Catalog, error) {
	entries, err := locales.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}

	c := &Catalog{fallback: fallback, messages: make(map[string]map[string]string)}
	for _, e := range entries {
		lang := strings.TrimSuffix(e.Name(), ".toml")
		raw, err := locales.ReadFile(path.Join("locales", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		msgs, err := parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}
		c.messages[lang] = msgs
		c.langs = append(c.langs, lang)
	}
	sort.Strings(c.langs)

	if len(languages) > 0 {
		if err := c.restrict(languages); err != nil {
			return nil, err
		}
	}

	if _, ok := c.messages[fallback]; !ok {
		return nil, fmt.Errorf("%w: fallback %q", ErrUnsupportedLanguage, fallback)
	}

	// The fallback goes first so the matcher prefers it on no match.
	c.matched = []string{fallback}
	for _, l := range c.langs {
		if l != fallback {
			c.matched = append(c.matched, l)
		}
	}
	tags := make([]language.Tag, len(c.matched))
	for i, l := range c.matched {
		tags[i] = language.Make(l)
	}
	c.matcher = language.NewMatcher(tags)
	return c, nil
}

func parse(raw []byte) (map[string]string, error) {
	var tree map[string]any
	if err := toml.Unmarshal(raw, &tree); err != nil {
		return nil, err
	}
	out := make(map[string]string)
	flatten("", tree, out)
	return out, nil
}

func flatten(prefix string, tree map[string]any, out map[string]string) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch v := v.(type) {
		case map[string]any:
			flatten(key, v, out)
		case string:
			out[key] = v
		default:
			out[key] = fmt.Sprint(v)
		}
	}
}

func (c *Catalog) restrict(languages []string) error {
	served := make(map[string]map[string]string, len(languages))
	for _, l := range languages {
		msgs, ok := c.messages[l]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, l)
		}
		served[l] = msgs
	}
	c.messages = served
	c.langs = c.langs[:0]
	for l := range served {
		c.langs = append(c.langs, l)
	}
	sort.Strings(c.langs)
	return nil
}

// Languages lists the catalog languages in sorted order.
func (c *Catalog) Languages() []string {
	return append([]string(nil), c.langs...)
}

// Supports reports whether a catalog exists for the exact language code.
func (c *Catalog) Supports(lang string) bool {
	_, ok := c.messages[lang]
	return ok
}

// Match picks the best catalog language for an Accept-Language header value.
func (c *Catalog) Match(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return c.fallback
	}
	_, idx, conf := c.matcher.Match(tags...)
	if conf == language.No {
		return c.fallback
	}
	return c.matched[idx]
}

// T returns the message for key in lang, then in the fallback language,
// then the key itself.
func (c *Catalog) T(lang, key string) string {
	if msg, ok := c.messages[lang][key]; ok {
		return msg
	}
	if msg, ok := c.messages[c.fallback][key]; ok {
		return msg
	}
	return key
}
