package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// LifeEvent records a change to a learner's lives.
type LifeEvent struct {
	ent.Schema
}

func (LifeEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (LifeEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("learner_id").NotEmpty(),
		field.String("reason").
			NotEmpty().
			Comment("regenerated, lost or recovered"),
		field.Int("lives_before"),
		field.Int("lives_after"),
	}
}

func (LifeEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("learner_id"),
		index.Fields("reason"),
	}
}
