package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Course is an authored course and its unit structure.
type Course struct {
	ent.Schema
}

func (Course) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			NotEmpty().
			Unique().
			Immutable(),
		field.String("title"),
		field.String("flag").Default(""),
		field.String("code").
			Unique().
			Comment("Six character join code"),
		field.String("owner_id").Default(""),
		field.Text("structure").
			Comment("JSON encoded course.Structure"),
		field.Int64("created_at").Default(0),
	}
}

func (Course) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("owner_id"),
	}
}
