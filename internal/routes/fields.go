package routes

import (
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/host"
)

// Frontmatter keys read during derivation.
const (
	TitleKey  = "metaTitle"
	WeightKey = "weight"
)

// Names of the fields attached to every Mdx node.
const (
	FieldSlug   = "slug"
	FieldID     = "id"
	FieldTitle  = "title"
	FieldWeight = "weight"
)

// Category is a content family that carries extra frontmatter fields.
type Category int

const (
	CategoryJob Category = iota + 1
	CategoryDataStory
)

type categorySpec struct {
	category Category
	name     string
	marker   string
	fields   []string
}

var categorySpecs = []categorySpec{
	{CategoryJob, "job", "jobs/job-", []string{"jobTitle", "jobLocation"}},
	{CategoryDataStory, "data-story", "data-stories", []string{"subtitle", "by", "date", "heroImage"}},
}

func (c Category) spec() (categorySpec, bool) {
	for _, s := range categorySpecs {
		if s.category == c {
			return s, true
		}
	}
	return categorySpec{}, false
}

func (c Category) String() string {
	if s, ok := c.spec(); ok {
		return s.name
	}
	return "unknown"
}

// Fields lists the frontmatter keys copied for the category.
func (c Category) Fields() []string {
	s, _ := c.spec()
	out := make([]string, len(s.fields))
	copy(out, s.fields)
	return out
}

// Classify returns every category whose marker occurs in path. Categories are
// independent; a path may match more than one.
func Classify(path string) []Category {
	p := filepath.ToSlash(path)
	var out []Category
	for _, s := range categorySpecs {
		if strings.Contains(p, s.marker) {
			out = append(out, s.category)
		}
	}
	return out
}

// DeriveCategoryFields copies each matched category's keys from frontmatter.
// Absent keys are present in the result with a nil value. A path matching no
// category yields an empty map.
func DeriveCategoryFields(path string, frontmatter map[string]any) map[string]any {
	out := map[string]any{}
	for _, c := range Classify(path) {
		for _, key := range c.Fields() {
			out[key] = frontmatter[key]
		}
	}
	return out
}

// DerivedFields are the routing fields computed for one node.
type DerivedFields struct {
	Slug   string
	ID     string
	Title  string
	Weight *float64
	Extras map[string]any
}

// Derive computes the fields for node. It reads only the parent file and
// frontmatter.
func Derive(node *content.Node) DerivedFields {
	parent := node.Parent
	return DerivedFields{
		Slug:   DeriveSlug(parent.RelativePath, parent.Ext),
		ID:     node.ID,
		Title:  DeriveTitle(node.Frontmatter[TitleKey], parent.Name),
		Weight: weight(node.Frontmatter[WeightKey]),
		Extras: DeriveCategoryFields(parent.AbsolutePath, node.Frontmatter),
	}
}

func weight(v any) *float64 {
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint64:
		f = float64(n)
	case float64:
		f = n
	default:
		return nil
	}
	return &f
}

type namedField struct {
	name  string
	value any
}

// fields returns the attach order: the four base fields, then category
// extras in category declaration order.
func (d DerivedFields) fields(path string) []namedField {
	var w any
	if d.Weight != nil {
		w = *d.Weight
	}
	out := []namedField{
		{FieldSlug, d.Slug},
		{FieldID, d.ID},
		{FieldTitle, d.Title},
		{FieldWeight, w},
	}
	for _, c := range Classify(path) {
		for _, key := range c.Fields() {
			out = append(out, namedField{key, d.Extras[key]})
		}
	}
	return out
}

// AttachDerived derives and attaches fields for an Mdx node. Other node
// types are left alone and reported as not handled.
func AttachDerived(api host.FieldAttacher, node *content.Node) (DerivedFields, bool) {
	if node == nil || node.Type != content.TypeMdx {
		return DerivedFields{}, false
	}
	d := Derive(node)
	for _, f := range d.fields(node.Parent.AbsolutePath) {
		api.AttachField(node, f.name, f.value)
	}
	return d, true
}
