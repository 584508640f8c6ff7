package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Catalog holds the translation trees of every supported locale. It is
// read-only after Load and safe for concurrent use.
type Catalog struct {
	fallback string
	tags     []language.Tag
	trees    map[string]map[string]interface{}
	raw      map[string][]byte
	matcher  language.Matcher
}

// Localizer translates keys for one request.
type Localizer struct {
	Locale string
	tree   map[string]interface{}
}

// Load parses the embedded locale files. fallback must be one of them.
func Load(fallback string) (*Catalog, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, err
	}

	c := &Catalog{trees: map[string]map[string]interface{}{}, raw: map[string][]byte{}}
	fallbackTag := language.Und
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".json")
		data, err := localeFS.ReadFile(path.Join("locales", e.Name()))
		if err != nil {
			return nil, err
		}
		var tree map[string]interface{}
		if err := json.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", name, err)
		}
		c.trees[name] = tree
		c.raw[name] = data

		tag := language.Make(name)
		if name == fallback {
			fallbackTag = tag
			continue
		}
		c.tags = append(c.tags, tag)
	}

	if fallbackTag == language.Und {
		return nil, fmt.Errorf("fallback locale %q not found", fallback)
	}
	// the matcher returns its first tag when nothing matches
	c.tags = append([]language.Tag{fallbackTag}, c.tags...)
	c.fallback = fallback
	c.matcher = language.NewMatcher(c.tags)
	return c, nil
}

func (c *Catalog) Supported(locale string) bool {
	_, ok := c.trees[locale]
	return ok
}

// Raw returns the locale file as shipped.
func (c *Catalog) Raw(locale string) ([]byte, bool) {
	data, ok := c.raw[locale]
	return data, ok
}

// Match picks a supported locale. An explicit choice wins over the
// Accept-Language header; anything unknown resolves to the fallback.
func (c *Catalog) Match(explicit, acceptLanguage string) string {
	if c.Supported(explicit) {
		return explicit
	}
	if acceptLanguage == "" {
		return c.fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return c.fallback
	}
	_, idx, conf := c.matcher.Match(tags...)
	if conf == language.No {
		return c.fallback
	}
	base, _ := c.tags[idx].Base()
	if c.Supported(base.String()) {
		return base.String()
	}
	return c.fallback
}

func (c *Catalog) Localizer(locale string) *Localizer {
	if !c.Supported(locale) {
		locale = c.fallback
	}
	return &Localizer{Locale: locale, tree: c.trees[locale]}
}

// T resolves a dotted key such as "errors.not_found". Missing keys are
// returned unchanged.
func (l *Localizer) T(key string) string {
	if l == nil {
		return key
	}
	var cur interface{} = l.tree
	for _, part := range strings.Split(key, ".") {
		node, ok := cur.(map[string]interface{})
		if !ok {
			return key
		}
		cur = node[part]
	}
	if s, ok := cur.(string); ok {
		return s
	}
	return key
}

func (l *Localizer) Dir() string {
	if l != nil && l.Locale == "ar" {
		return "rtl"
	}
	return "ltr"
}
