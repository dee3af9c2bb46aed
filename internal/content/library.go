// Package content holds the portfolio's static records. All copy is
// compiled in as one YAML document per locale and validated once at load;
// nothing is mutated afterwards.
package content

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// DefaultLang is used when no better locale matches a request.
const DefaultLang = "en"

type document struct {
	Lang         string        `yaml:"lang" validate:"required"`
	Profile      Profile       `yaml:"profile"`
	Nav          []NavItem     `yaml:"nav" validate:"min=1,dive"`
	Labels       Labels        `yaml:"labels"`
	Research     Research      `yaml:"research"`
	Projects     []Project     `yaml:"projects" validate:"dive"`
	Publications []Publication `yaml:"publications" validate:"dive"`
	Experience   []Experience  `yaml:"experience" validate:"dive"`
	Education    []Education   `yaml:"education" validate:"dive"`
}

// Catalog is the full content of the site in one locale.
type Catalog struct {
	Tag          language.Tag
	Profile      Profile
	Nav          []NavItem
	Labels       Labels
	Research     Research
	Experience   []Experience
	Education    []Education
	Projects     *Table[Project]
	Publications *Table[Publication]
}

// Lang returns the catalog's BCP 47 tag as a string.
func (c *Catalog) Lang() string { return c.Tag.String() }

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseCatalog decodes and validates a single locale document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("validate catalog %q: %w", doc.Lang, err)
	}
	tag, err := language.Parse(doc.Lang)
	if err != nil {
		return nil, fmt.Errorf("catalog language %q: %w", doc.Lang, err)
	}

	seen := make(map[string]struct{}, len(doc.Nav))
	for _, item := range doc.Nav {
		if _, dup := seen[item.ID]; dup {
			return nil, fmt.Errorf("catalog %s: duplicate nav section %q", tag, item.ID)
		}
		seen[item.ID] = struct{}{}
	}

	projects, err := NewTable(doc.Projects)
	if err != nil {
		return nil, fmt.Errorf("catalog %s projects: %w", tag, err)
	}
	publications, err := NewTable(doc.Publications)
	if err != nil {
		return nil, fmt.Errorf("catalog %s publications: %w", tag, err)
	}

	return &Catalog{
		Tag:          tag,
		Profile:      doc.Profile,
		Nav:          doc.Nav,
		Labels:       doc.Labels,
		Research:     doc.Research,
		Experience:   doc.Experience,
		Education:    doc.Education,
		Projects:     projects,
		Publications: publications,
	}, nil
}

// Library holds every locale's catalog and negotiates between them.
type Library struct {
	catalogs map[language.Tag]*Catalog
	tags     []language.Tag
	matcher  language.Matcher
}

// Load reads the catalogs compiled into the binary.
func Load(defaultLang string) (*Library, error) {
	return LoadFS(localeFS, "locales/*.yaml", defaultLang)
}

// LoadFS reads every catalog matching pattern in fsys. The catalog for
// defaultLang becomes the fallback for unmatched requests.
func LoadFS(fsys fs.FS, pattern, defaultLang string) (*Library, error) {
	names, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no catalogs match %s", pattern)
	}
	sort.Strings(names)

	def, err := language.Parse(defaultLang)
	if err != nil {
		return nil, fmt.Errorf("default language %q: %w", defaultLang, err)
	}

	lib := &Library{catalogs: make(map[language.Tag]*Catalog, len(names))}
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		cat, err := ParseCatalog(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path.Base(name), err)
		}
		if _, dup := lib.catalogs[cat.Tag]; dup {
			return nil, fmt.Errorf("%s: duplicate catalog for %s", path.Base(name), cat.Tag)
		}
		lib.catalogs[cat.Tag] = cat
		if cat.Tag == def {
			lib.tags = append([]language.Tag{cat.Tag}, lib.tags...)
		} else {
			lib.tags = append(lib.tags, cat.Tag)
		}
	}
	if lib.tags[0] != def {
		return nil, fmt.Errorf("no catalog for default language %s", def)
	}
	lib.matcher = language.NewMatcher(lib.tags)
	return lib, nil
}

// Tags lists the supported locales, default first.
func (l *Library) Tags() []language.Tag {
	out := make([]language.Tag, len(l.tags))
	copy(out, l.tags)
	return out
}

// Default returns the fallback locale.
func (l *Library) Default() language.Tag { return l.tags[0] }

// Match picks the supported locale closest to the preferred tags.
func (l *Library) Match(preferred ...language.Tag) language.Tag {
	if len(preferred) == 0 {
		return l.Default()
	}
	_, idx, conf := l.matcher.Match(preferred...)
	if conf == language.No {
		return l.Default()
	}
	return l.tags[idx]
}

// Parse maps a user-supplied language string onto a supported locale. The
// bool is false when the value is malformed or nothing matches.
func (l *Library) Parse(value string) (language.Tag, bool) {
	tag, err := language.Parse(value)
	if err != nil {
		return l.Default(), false
	}
	_, idx, conf := l.matcher.Match(tag)
	if conf == language.No {
		return l.Default(), false
	}
	return l.tags[idx], true
}

// Catalog returns the catalog for the best match of the preferred tags.
func (l *Library) Catalog(preferred ...language.Tag) *Catalog {
	return l.catalogs[l.Match(preferred...)]
}
