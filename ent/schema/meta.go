package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// Meta is a key-value table for store bookkeeping such as the version of
// the binary that last wrote the database.
type Meta struct {
	ent.Schema
}

func (Meta) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			NotEmpty().
			Unique().
			Immutable(),
		field.String("value").Default(""),
	}
}
