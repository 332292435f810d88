package storage

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

// Entity describes one logical entity served by the store.
//
// UniqueKeys are absolute uniqueness constraints (they consider every row,
// deleted or not); ActiveUniqueKeys apply only among rows whose deleted_at is
// null, so a business key can be reused after its holder was soft-deleted.
type Entity struct {
	Name             string // singular lowerCamel name, e.g. "reportVersion"
	Table            string
	SoftDelete       bool
	Timestamps       bool // store maintains created_at/updated_at
	UniqueKeys       [][]string
	ActiveUniqueKeys [][]string
}

// Schema is the set of entities known to the service. It is built once at
// startup and read-only afterwards.
type Schema struct {
	byName  map[string]Entity
	ordered []Entity
}

func NewSchema(entities ...Entity) *Schema {
	s := &Schema{byName: make(map[string]Entity, len(entities))}
	for _, e := range entities {
		if e.Table == "" {
			e.Table = TableName(e.Name)
		}
		s.byName[e.Name] = e
		s.ordered = append(s.ordered, e)
	}
	return s
}

// Lookup resolves an entity by name.
func (s *Schema) Lookup(name string) (Entity, error) {
	e, ok := s.byName[name]
	if !ok {
		return Entity{}, fmt.Errorf("%w: %s", ErrUnknownEntity, name)
	}
	return e, nil
}

// Entities returns every entity in registration order.
func (s *Schema) Entities() []Entity {
	return s.ordered
}

// TableName derives the table for a lowerCamel entity name the same way the
// ORM layer does: snake_case, pluralized.
func TableName(entity string) string {
	return inflection.Plural(toSnake(entity))
}

func toSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// DefaultSchema lists the entities of the medical report service. Report is
// the primary versioned record; the rest are the soft-deletable reference
// entities around it.
func DefaultSchema() *Schema {
	return NewSchema(
		Entity{
			Name:             "report",
			SoftDelete:       true,
			Timestamps:       true,
			ActiveUniqueKeys: [][]string{{"report_number"}},
		},
		Entity{
			Name:       "reportVersion",
			SoftDelete: true,
			UniqueKeys: [][]string{{"report_id", "version_number"}},
		},
		Entity{Name: "reportType", SoftDelete: true, Timestamps: true},
		Entity{Name: "practitioner", SoftDelete: true, Timestamps: true},
		Entity{Name: "patient", SoftDelete: true, Timestamps: true},
		Entity{Name: "user", SoftDelete: true, Timestamps: true},
		Entity{Name: "tag", SoftDelete: true, Timestamps: true},
		Entity{Name: "reportTag", SoftDelete: true, Timestamps: true},
		Entity{Name: "attachment", SoftDelete: true, Timestamps: true},
	)
}
