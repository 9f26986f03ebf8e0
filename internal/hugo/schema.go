package hugo

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

// FieldsTypeSuffix marks a declared type as the field set of a node type:
// "MdxFields" declares fields every Mdx node carries.
const FieldsTypeSuffix = "Fields"

// TypeDef is one object type from a schema declaration.
type TypeDef struct {
	Name       string
	Interfaces []string
	Fields     []FieldDef
}

// FieldDef is one field of a TypeDef.
type FieldDef struct {
	Name string
	Type string
}

var (
	typeDefPattern  = regexp.MustCompile(`type\s+([A-Za-z_]\w*)(?:\s+implements\s+([\w\s&,]+?))?\s*\{([^{}]*)\}`)
	fieldDefPattern = regexp.MustCompile(`^([A-Za-z_]\w*)\s*:\s*(\[?[A-Za-z_]\w*!?\]?!?)$`)
)

// ParseTypeDefs reads object type definitions in SDL form. Only the subset
// site modules use is understood: object types with optional interfaces and
// scalar or list fields.
func ParseTypeDefs(sdl string) ([]TypeDef, error) {
	matches := typeDefPattern.FindAllStringSubmatchIndex(sdl, -1)
	rest := typeDefPattern.ReplaceAllString(sdl, "")
	if strings.TrimSpace(rest) != "" {
		return nil, errors.SchemaError("unrecognized schema declaration").
			WithContext("text", strings.TrimSpace(rest)).Build()
	}
	if len(matches) == 0 {
		return nil, errors.SchemaError("no type definitions found").Build()
	}

	defs := make([]TypeDef, 0, len(matches))
	for _, m := range matches {
		def := TypeDef{Name: sdl[m[2]:m[3]]}
		if m[4] >= 0 {
			for _, iface := range strings.FieldsFunc(sdl[m[4]:m[5]], func(r rune) bool {
				return r == '&' || r == ',' || r == ' ' || r == '\t' || r == '\n'
			}) {
				def.Interfaces = append(def.Interfaces, iface)
			}
		}
		for _, line := range strings.FieldsFunc(sdl[m[6]:m[7]], func(r rune) bool { return r == '\n' || r == ',' }) {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			fm := fieldDefPattern.FindStringSubmatch(line)
			if fm == nil {
				return nil, errors.SchemaError("invalid field definition").
					WithContext("type", def.Name).
					WithContext("field", line).Build()
			}
			def.Fields = append(def.Fields, FieldDef{Name: fm[1], Type: fm[2]})
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// schemaRegistry accumulates declared types. Redeclaring a type merges its
// fields.
type schemaRegistry struct {
	types map[string]*TypeDef
	order []string
}

func newSchemaRegistry() *schemaRegistry {
	return &schemaRegistry{types: map[string]*TypeDef{}}
}

func (s *schemaRegistry) declare(defs []TypeDef) {
	for _, d := range defs {
		existing, ok := s.types[d.Name]
		if !ok {
			def := d
			s.types[d.Name] = &def
			s.order = append(s.order, d.Name)
			continue
		}
		for _, f := range d.Fields {
			replaced := false
			for i := range existing.Fields {
				if existing.Fields[i].Name == f.Name {
					existing.Fields[i] = f
					replaced = true
				}
			}
			if !replaced {
				existing.Fields = append(existing.Fields, f)
			}
		}
	}
}

// nodeFields returns the field names declared for nodeType's fields type.
func (s *schemaRegistry) nodeFields(nodeType string) []string {
	def, ok := s.types[nodeType+FieldsTypeSuffix]
	if !ok {
		return nil
	}
	names := make([]string, len(def.Fields))
	for i, f := range def.Fields {
		names[i] = f.Name
	}
	return names
}
