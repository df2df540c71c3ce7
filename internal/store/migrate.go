package store

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/madan-d/classmos/ent/schema"
)

// Table names.
const (
	tableLearners      = "learners"
	tableLessonPaths   = "lesson_paths"
	tableCourses       = "courses"
	tableMeta          = "meta"
	tableProgress      = "progress_events"
	tableLifeEvents    = "life_events"
	tableLLMRequests   = "llm_request_events"
	tableGlobalCounter = "global_sequence"
)

// schemas lists every ent schema and the table it is migrated to.
var schemas = []struct {
	table  string
	schema ent.Interface
}{
	{tableLearners, entschema.Learner{}},
	{tableLessonPaths, entschema.LessonPath{}},
	{tableCourses, entschema.Course{}},
	{tableMeta, entschema.Meta{}},
	{tableProgress, entschema.ProgressEvent{}},
	{tableLifeEvents, entschema.LifeEvent{}},
	{tableLLMRequests, entschema.LLMRequestEvent{}},
}

// migrate creates or updates all tables described by the ent schemas.
func migrate(ctx context.Context, drv dialect.Driver) error {
	tables := make([]*schema.Table, 0, len(schemas))
	for _, s := range schemas {
		t, err := tableFor(s.table, s.schema)
		if err != nil {
			return err
		}
		tables = append(tables, t)
	}

	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	return m.Create(ctx, tables...)
}

// tableFor builds the SQL table for an ent schema from its field and index
// descriptors, mixins first. Schemas without an "id" field get an
// auto-increment integer key.
func tableFor(name string, s ent.Interface) (*schema.Table, error) {
	var fields []ent.Field
	var indexes []ent.Index
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	t := schema.NewTable(name)
	byName := map[string]*schema.Column{}

	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, d.Name, d.Err)
		}
		c := &schema.Column{
			Name:     d.Name,
			Type:     d.Info.Type,
			Unique:   d.Unique,
			Nullable: d.Optional || d.Nillable,
		}
		if d.Default != nil && reflect.TypeOf(d.Default).Kind() != reflect.Func {
			c.Default = d.Default
		}
		if d.Name == "id" {
			c.Unique = false
			t.AddPrimary(c)
		} else {
			t.AddColumn(c)
		}
		byName[d.Name] = c
	}

	if _, ok := byName["id"]; !ok {
		id := &schema.Column{Name: "id", Type: field.TypeInt, Increment: true}
		t.AddPrimary(id)
		byName["id"] = id
	}

	for _, idx := range indexes {
		d := idx.Descriptor()
		cols := make([]*schema.Column, 0, len(d.Fields))
		for _, f := range d.Fields {
			c, ok := byName[f]
			if !ok {
				return nil, fmt.Errorf("%s: index on unknown field %q", name, f)
			}
			cols = append(cols, c)
		}
		t.Indexes = append(t.Indexes, &schema.Index{
			Name:    name + "_" + strings.Join(d.Fields, "_"),
			Unique:  d.Unique,
			Columns: cols,
		})
	}

	return t, nil
}
