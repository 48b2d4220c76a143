package schema

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	gormschema "gorm.io/gorm/schema"

	"github.com/yungbote/forumcore/internal/domain"
)

// Catalog is the exported field and constraint list consumed by migration tooling.
type Catalog struct {
	Tables []TableSpec `json:"tables" yaml:"tables"`
	Rules  []Rule      `json:"rules" yaml:"rules"`
}

type TableSpec struct {
	Name        string           `json:"name" yaml:"name"`
	Model       string           `json:"model" yaml:"model"`
	KeyType     KeyType          `json:"key_type" yaml:"key_type"`
	Columns     []ColumnSpec     `json:"columns" yaml:"columns"`
	Indexes     []IndexSpec      `json:"indexes,omitempty" yaml:"indexes,omitempty"`
	Checks      []CheckSpec      `json:"checks,omitempty" yaml:"checks,omitempty"`
	ForeignKeys []ForeignKeySpec `json:"foreign_keys,omitempty" yaml:"foreign_keys,omitempty"`
}

type ColumnSpec struct {
	Name       string `json:"name" yaml:"name"`
	Type       string `json:"type" yaml:"type"`
	Size       int    `json:"size,omitempty" yaml:"size,omitempty"`
	Nullable   bool   `json:"nullable" yaml:"nullable"`
	PrimaryKey bool   `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`
	Unique     bool   `json:"unique,omitempty" yaml:"unique,omitempty"`
	Default    string `json:"default,omitempty" yaml:"default,omitempty"`
}

type IndexSpec struct {
	Name    string   `json:"name" yaml:"name"`
	Unique  bool     `json:"unique" yaml:"unique"`
	Columns []string `json:"columns" yaml:"columns"`
}

type CheckSpec struct {
	Name       string `json:"name" yaml:"name"`
	Expression string `json:"expression" yaml:"expression"`
}

type ForeignKeySpec struct {
	Name       string `json:"name" yaml:"name"`
	Column     string `json:"column" yaml:"column"`
	References string `json:"references" yaml:"references"`
	OnDelete   string `json:"on_delete" yaml:"on_delete"`
}

// Describe parses every domain model with GORM's schema parser and joins the
// result with the cascade rules.
func Describe() (*Catalog, error) {
	cache := &sync.Map{}
	namer := gormschema.NamingStrategy{}
	out := &Catalog{Rules: append([]Rule(nil), Rules...)}
	for _, model := range domain.Models() {
		sch, err := gormschema.Parse(model, cache, namer)
		if err != nil {
			return nil, fmt.Errorf("parse %T: %w", model, err)
		}
		kt, ok := Tables[sch.Table]
		if !ok {
			return nil, fmt.Errorf("model %T maps to unregistered table %q", model, sch.Table)
		}
		out.Tables = append(out.Tables, describeTable(sch, kt, reflect.TypeOf(model).Elem().String()))
	}
	return out, nil
}

func describeTable(sch *gormschema.Schema, kt KeyType, model string) TableSpec {
	t := TableSpec{Name: sch.Table, Model: model, KeyType: kt}

	for _, idx := range sch.ParseIndexes() {
		spec := IndexSpec{Name: idx.Name, Unique: idx.Class == "UNIQUE"}
		for _, f := range idx.Fields {
			spec.Columns = append(spec.Columns, f.DBName)
		}
		t.Indexes = append(t.Indexes, spec)
	}
	sort.Slice(t.Indexes, func(i, j int) bool { return t.Indexes[i].Name < t.Indexes[j].Name })

	for _, f := range sch.Fields {
		if f.DBName == "" {
			continue
		}
		t.Columns = append(t.Columns, ColumnSpec{
			Name:       f.DBName,
			Type:       string(f.DataType),
			Size:       f.Size,
			Nullable:   !f.NotNull && !f.PrimaryKey,
			PrimaryKey: f.PrimaryKey,
			Unique:     f.Unique || f.UniqueIndex != "",
			Default:    f.DefaultValue,
		})
	}

	for name, chk := range sch.ParseCheckConstraints() {
		t.Checks = append(t.Checks, CheckSpec{Name: name, Expression: chk.Constraint})
	}
	sort.Slice(t.Checks, func(i, j int) bool { return t.Checks[i].Name < t.Checks[j].Name })

	for _, r := range ReferencesFrom(sch.Table) {
		t.ForeignKeys = append(t.ForeignKeys, ForeignKeySpec{
			Name:       r.ConstraintName(),
			Column:     r.Column,
			References: r.Parent + ".id",
			OnDelete:   r.Policy.OnDelete(),
		})
	}
	return t
}

// Table looks up one table in the catalog.
func (c *Catalog) Table(name string) (TableSpec, bool) {
	for _, t := range c.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return TableSpec{}, false
}

// Column looks up one column of the table.
func (t TableSpec) Column(name string) (ColumnSpec, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSpec{}, false
}
