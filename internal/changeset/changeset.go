// Package changeset classifies the status lines printed by a dry-run update.
package changeset

import (
	"strings"

	"github.com/samber/lo"
)

type Category int

const (
	Modified Category = iota
	Added
	Removed
	Uncontrolled
	Updated
)

// Categories lists every category in display order.
var Categories = []Category{Modified, Added, Removed, Uncontrolled, Updated}

var prefixes = map[string]Category{
	"M ": Modified,
	"A ": Added,
	"R ": Removed,
	"? ": Uncontrolled,
	"U ": Updated,
}

func (c Category) String() string {
	switch c {
	case Modified:
		return "modified"
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Uncontrolled:
		return "uncontrolled"
	case Updated:
		return "updated"
	}
	return "unknown"
}

// Title is the group header used when rendering.
func (c Category) Title() string {
	s := c.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// Changeset holds the paths of one dry-run, grouped by category in the
// order they were reported.
type Changeset struct {
	Modified     []string `json:"modified"`
	Added        []string `json:"added"`
	Removed      []string `json:"removed"`
	Uncontrolled []string `json:"uncontrolled"`
	Updated      []string `json:"updated"`
}

type Group struct {
	Category Category
	Paths    []string
}

// Classify parses raw dry-run output. Lines with an unknown prefix are
// ignored.
func Classify(raw string) Changeset {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	var cs Changeset
	for _, line := range strings.Split(raw, "\n") {
		if len(line) < 2 {
			continue
		}

		category, ok := prefixes[line[:2]]
		if !ok {
			continue
		}

		path := line[2:]
		if path == "" {
			continue
		}

		cs.add(category, path)
	}

	return cs
}

func (c *Changeset) add(category Category, path string) {
	switch category {
	case Modified:
		c.Modified = append(c.Modified, path)
	case Added:
		c.Added = append(c.Added, path)
	case Removed:
		c.Removed = append(c.Removed, path)
	case Uncontrolled:
		c.Uncontrolled = append(c.Uncontrolled, path)
	case Updated:
		c.Updated = append(c.Updated, path)
	}
}

func (c Changeset) Paths(category Category) []string {
	switch category {
	case Modified:
		return c.Modified
	case Added:
		return c.Added
	case Removed:
		return c.Removed
	case Uncontrolled:
		return c.Uncontrolled
	case Updated:
		return c.Updated
	}
	return nil
}

func (c Changeset) Contains(category Category, path string) bool {
	return lo.Contains(c.Paths(category), path)
}

func (c Changeset) Len() int {
	return lo.SumBy(Categories, func(category Category) int { return len(c.Paths(category)) })
}

func (c Changeset) Empty() bool {
	return c.Len() == 0
}

// Groups returns the non-empty categories in display order.
func (c Changeset) Groups() []Group {
	groups := lo.Map(Categories, func(category Category, _ int) Group {
		return Group{Category: category, Paths: c.Paths(category)}
	})

	return lo.Filter(groups, func(g Group, _ int) bool { return len(g.Paths) > 0 })
}

// Render formats the changeset as one indented block per non-empty group,
// blocks separated by a blank line.
func (c Changeset) Render() string {
	blocks := lo.Map(c.Groups(), func(g Group, _ int) string {
		var b strings.Builder
		b.WriteString(g.Category.Title())
		b.WriteString(":")
		for _, path := range g.Paths {
			b.WriteString("\n    ")
			b.WriteString(path)
		}
		return b.String()
	})

	return strings.Join(blocks, "\n\n")
}
