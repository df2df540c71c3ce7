package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Learner holds one user's progression record. The full record is kept as
// JSON in data; the remaining columns are projections used for queries.
type Learner struct {
	ent.Schema
}

func (Learner) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			NotEmpty().
			Unique().
			Immutable(),
		field.String("name").
			Default(""),
		field.String("role").
			Default("student"),
		field.Int("experience_total").
			Default(0),
		field.Int64("version").
			Default(0).
			Comment("Bumped on every write; guards concurrent commits"),
		field.Text("data").
			Comment("JSON encoded progression.Learner"),
		field.Int64("updated_at").
			Default(0),
	}
}

func (Learner) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("role"),
		index.Fields("experience_total"),
	}
}
