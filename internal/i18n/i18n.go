// Package i18n holds the UI string tables of the wizard and the dashboard.
//
// Tables live in embedded YAML files, one per locale tag, and are validated
// against a list of required keys when loaded, so a missing translation is
// a startup error rather than a blank label.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales
var locales embed.FS

// WizardKeys must be present in every wizard locale.
var WizardKeys = []string{
	"title", "lbl_lang", "lbl_name", "lbl_phone", "lbl_email", "lbl_upload",
	"no_file", "file_chosen", "btn_start", "loading", "finalizing", "question",
	"answer_ph", "time_remaining", "time_up", "final_title", "final_msg",
	"err_fields", "err_phone", "err_file", "err_generic", "err_empty_answer", "err_submit",
}

// AdminKeys must be present in every dashboard locale.
var AdminKeys = []string{
	"title", "subtitle", "th_candidate", "th_phone", "th_email", "th_lang",
	"th_status", "th_score", "th_cv", "view_cv", "no_cv",
	"status_invited", "status_rejected", "status_review", "status_pending",
	"update_success", "update_failed", "qa_title", "no_answer", "no_sessions",
	"not_found", "offline_cached", "cv_saved", "archived", "exported", "help",
}

// Catalog is a set of string tables keyed by locale tag.
type Catalog struct {
	tags    []language.Tag
	tables  map[language.Tag]map[string]string
	matcher language.Matcher
}

// Wizard loads the embedded candidate wizard tables; "en" is the fallback.
func Wizard() (*Catalog, error) {
	return Load(locales, "locales/wizard", "en", WizardKeys)
}

// Admin loads the embedded dashboard tables; "ru" is the fallback.
func Admin() (*Catalog, error) {
	return Load(locales, "locales/admin", "ru", AdminKeys)
}

// Load reads every "<tag>.yaml" file in dir. defaultTag must be among them
// and becomes the fallback for unsupported tags. Every table must define
// all required keys.
func Load(fsys fs.FS, dir string, defaultTag string, required []string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read locales %s: %w", dir, err)
	}

	def, err := language.Parse(defaultTag)
	if err != nil {
		return nil, fmt.Errorf("default locale %q: %w", defaultTag, err)
	}

	c := &Catalog{tables: make(map[language.Tag]map[string]string)}
	var errs []error

	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".yaml")
		tag, err := language.Parse(name)
		if err != nil {
			errs = append(errs, fmt.Errorf("locale file %s: %w", e.Name(), err))
			continue
		}

		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		table := map[string]string{}
		if err := yaml.Unmarshal(data, &table); err != nil {
			errs = append(errs, fmt.Errorf("parse %s: %w", e.Name(), err))
			continue
		}
		if missing := missingKeys(table, required); len(missing) > 0 {
			errs = append(errs, fmt.Errorf("locale %s: missing keys %s", tag, strings.Join(missing, ", ")))
			continue
		}

		c.tables[tag] = table
		if tag == def {
			c.tags = append([]language.Tag{tag}, c.tags...)
		} else {
			c.tags = append(c.tags, tag)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if _, ok := c.tables[def]; !ok {
		return nil, fmt.Errorf("default locale %s not found in %s", def, dir)
	}

	c.matcher = language.NewMatcher(c.tags)
	return c, nil
}

func missingKeys(table map[string]string, required []string) []string {
	var missing []string
	for _, k := range required {
		if v, ok := table[k]; !ok || v == "" {
			missing = append(missing, k)
		}
	}
	sort.Strings(missing)
	return missing
}

// Match returns the supported tag closest to s, or the fallback tag.
func (c *Catalog) Match(s string) language.Tag {
	_, idx, conf := c.matcher.Match(language.Make(s))
	if conf == language.No {
		return c.tags[0]
	}
	return c.tags[idx]
}

// Supported reports whether s names one of the loaded locales exactly.
func (c *Catalog) Supported(s string) bool {
	tag, err := language.Parse(s)
	if err != nil {
		return false
	}
	_, ok := c.tables[tag]
	return ok
}

// Tags lists the loaded locales, fallback first.
func (c *Catalog) Tags() []language.Tag {
	return append([]language.Tag(nil), c.tags...)
}

// For returns a Translator bound to the locale matching s.
func (c *Catalog) For(s string) Translator {
	return Translator{tag: c.Match(s), table: c.tables[c.Match(s)]}
}

// Translator looks up strings of one locale.
type Translator struct {
	tag   language.Tag
	table map[string]string
}

// T returns the string for key, or the key itself when it is unknown.
func (t Translator) T(key string) string {
	if v, ok := t.table[key]; ok {
		return v
	}
	return key
}

// Tag is the locale this translator serves.
func (t Translator) Tag() language.Tag {
	return t.tag
}

// Lang is the base language code, e.g. "ru".
func (t Translator) Lang() string {
	base, _ := t.tag.Base()
	return base.String()
}
