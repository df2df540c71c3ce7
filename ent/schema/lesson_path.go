package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// LessonPath is the ordered lesson sequence of one learner in one course.
type LessonPath struct {
	ent.Schema
}

func (LessonPath) Fields() []ent.Field {
	return []ent.Field{
		field.String("learner_id").NotEmpty(),
		field.String("course_id").Default(""),
		field.Text("lessons").
			Comment("JSON encoded progression.Path"),
		field.Int64("updated_at").Default(0),
	}
}

func (LessonPath) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("learner_id", "course_id").Unique(),
	}
}
