package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ProgressEvent records one committed exercise session.
type ProgressEvent struct {
	ent.Schema
}

func (ProgressEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (ProgressEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("UUID of the exercise session"),
		field.String("learner_id").
			NotEmpty(),
		field.String("course_id").
			Default(""),
		field.Int("lesson_id"),
		field.Int("score").
			Default(0),
		field.Int("total_questions").
			Default(0),
		field.Bool("passed"),
		field.Bool("practice").
			Comment("Replay of an already completed lesson"),
		field.Int("effective_experience").
			Default(0).
			Comment("Experience credited after the failure penalty"),
		field.Float("rating_delta").
			Default(0),
		field.Text("leveled_up").
			Default("").
			Comment("Comma separated achievement keys that gained a level"),
	}
}

func (ProgressEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("learner_id"),
		index.Fields("session_id"),
		index.Fields("course_id"),
	}
}
