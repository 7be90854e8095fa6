package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/daFish/functional-test-helpers/pkg/fixture"
)

// schemaFile is the YAML layout of a schema fixture:
//
//	tables:
//	  - name: users
//	    columns:
//	      - {name: id, type: integer, autoIncrement: true}
//	      - {name: email, type: string, length: 180}
//	    primaryKey: [id]
//	    unique: [[email]]
type schemaFile struct {
	Tables []struct {
		Name    string `yaml:"name"`
		Columns []struct {
			Name          string     `yaml:"name"`
			Type          ColumnType `yaml:"type"`
			Length        int        `yaml:"length"`
			Nullable      bool       `yaml:"nullable"`
			Default       any        `yaml:"default"`
			AutoIncrement bool       `yaml:"autoIncrement"`
		} `yaml:"columns"`
		PrimaryKey []string   `yaml:"primaryKey"`
		Unique     [][]string `yaml:"unique"`
	} `yaml:"tables"`
}

// dataFile is the YAML layout of a data fixture. Row columns keep the
// order they are written in.
type dataFile struct {
	Tables []struct {
		Name string    `yaml:"name"`
		Rows []yamlRow `yaml:"rows"`
	} `yaml:"tables"`
}

type yamlRow Row

func (r *yamlRow) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var v any
		if err := node.Content[i+1].Decode(&v); err != nil {
			return err
		}
		*r = append(*r, Value{Column: node.Content[i].Value, Value: v})
	}
	return nil
}

// LoadSchema reads a YAML schema fixture.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	return ParseSchema(path, data)
}

// ParseSchema validates and decodes a YAML schema document.
func ParseSchema(source string, data []byte) (*Schema, error) {
	if _, err := fixture.ValidateYAML(fixture.KindSchema, source, data); err != nil {
		return nil, err
	}
	var file schemaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode %s: %w", source, err)
	}

	s := New()
	for _, ft := range file.Tables {
		t := s.Table(ft.Name)
		for _, fc := range ft.Columns {
			t.AddColumn(&Column{
				Name:          fc.Name,
				Type:          fc.Type,
				Length:        fc.Length,
				Nullable:      fc.Nullable,
				Default:       fc.Default,
				AutoIncrement: fc.AutoIncrement,
			})
		}
		if len(ft.PrimaryKey) > 0 {
			t.PrimaryKey(ft.PrimaryKey...)
		}
		for _, u := range ft.Unique {
			t.UniqueIndex(u...)
		}
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return s, nil
}

// LoadData reads a YAML data fixture.
func LoadData(path string) (*DataSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}
	return ParseData(path, data)
}

// ParseData validates and decodes a YAML data document.
func ParseData(source string, data []byte) (*DataSet, error) {
	if _, err := fixture.ValidateYAML(fixture.KindData, source, data); err != nil {
		return nil, err
	}
	var file dataFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode %s: %w", source, err)
	}

	d := NewDataSet()
	for _, ft := range file.Tables {
		rows := make([]Row, len(ft.Rows))
		for i, r := range ft.Rows {
			rows[i] = Row(r)
		}
		d.Insert(ft.Name, rows...)
	}
	return d, nil
}
