// Package passages provides the texts children read aloud. A catalog is
// built from the embedded defaults and an optional user TOML file.
package passages

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gosimple/slug"
)

//go:embed catalog.toml
var defaultCatalog string

// DefaultID is the passage used when none is chosen.
const DefaultID = "whiskers"

// Passage is one reading text.
type Passage struct {
	ID         string `toml:"id"`
	Title      string `toml:"title"`
	Content    string `toml:"content"`
	GradeLevel int    `toml:"grade"`
	Difficulty int    `toml:"difficulty"`
	Category   string `toml:"category"`
}

// WordCount returns the number of whitespace-separated words in the content.
func (p Passage) WordCount() int {
	return len(strings.Fields(p.Content))
}

type catalogFile struct {
	Passages []Passage `toml:"passage"`
}

// Catalog is an ordered, id-indexed set of passages.
type Catalog struct {
	list []Passage
	byID map[string]int
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := parse(defaultCatalog, "embedded catalog")
	if err != nil {
		panic(err)
	}
	return c
}

// Load returns the embedded catalog merged with the user file at path.
// User passages replace built-ins with the same id. A missing file is not
// an error.
func Load(path string) (*Catalog, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("read passages: %w", err)
	}
	user, err := parse(string(data), path)
	if err != nil {
		return nil, err
	}
	for _, p := range user.list {
		c.put(p)
	}
	return c, nil
}

func parse(data, source string) (*Catalog, error) {
	var f catalogFile
	if _, err := toml.Decode(data, &f); err != nil {
		return nil, fmt.Errorf("decode %s: %w", source, err)
	}
	c := &Catalog{byID: make(map[string]int)}
	for i, p := range f.Passages {
		p.Title = strings.TrimSpace(p.Title)
		p.Content = strings.Join(strings.Fields(p.Content), " ")
		if p.Title == "" || p.Content == "" {
			return nil, fmt.Errorf("%s: passage %d needs a title and content", source, i+1)
		}
		if p.ID == "" {
			p.ID = slug.Make(p.Title)
		}
		if p.GradeLevel < 1 {
			p.GradeLevel = 1
		}
		c.put(p)
	}
	return c, nil
}

func (c *Catalog) put(p Passage) {
	if i, ok := c.byID[p.ID]; ok {
		c.list[i] = p
		return
	}
	c.byID[p.ID] = len(c.list)
	c.list = append(c.list, p)
}

// All returns every passage sorted by grade then title.
func (c *Catalog) All() []Passage {
	out := append([]Passage(nil), c.list...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].GradeLevel != out[j].GradeLevel {
			return out[i].GradeLevel < out[j].GradeLevel
		}
		return out[i].Title < out[j].Title
	})
	return out
}

// Get looks a passage up by id.
func (c *Catalog) Get(id string) (Passage, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Passage{}, false
	}
	return c.list[i], true
}

// ForGrade returns the passages at the highest grade that does not exceed
// grade. When every passage is above grade, the lowest grade is used.
func (c *Catalog) ForGrade(grade int) []Passage {
	all := c.All()
	best := 0
	for _, p := range all {
		if p.GradeLevel <= grade && p.GradeLevel > best {
			best = p.GradeLevel
		}
	}
	if best == 0 && len(all) > 0 {
		best = all[0].GradeLevel
	}
	var out []Passage
	for _, p := range all {
		if p.GradeLevel == best {
			out = append(out, p)
		}
	}
	return out
}

// Pick returns the passage with id, or the first passage for grade when id
// is empty.
func (c *Catalog) Pick(id string, grade int) (Passage, error) {
	if id != "" {
		p, ok := c.Get(id)
		if !ok {
			return Passage{}, fmt.Errorf("unknown passage %q", id)
		}
		return p, nil
	}
	if p, ok := c.Get(DefaultID); ok && grade == p.GradeLevel {
		return p, nil
	}
	ps := c.ForGrade(grade)
	if len(ps) == 0 {
		return Passage{}, fmt.Errorf("no passages available")
	}
	return ps[0], nil
}
