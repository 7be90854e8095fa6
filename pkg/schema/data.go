package schema

import "fmt"

// Value is one column value of a row.
type Value struct {
	Column string
	Value  any
}

// Row is an ordered list of column values.
type Row []Value

// Values builds a Row from alternating column names and values:
//
//	schema.Values("id", 1, "name", "alice")
//
// It panics on an odd argument count or a non-string column name.
func Values(pairs ...any) Row {
	if len(pairs)%2 != 0 {
		panic(fmt.Sprintf("schema.Values: odd argument count %d", len(pairs)))
	}
	row := make(Row, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		col, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("schema.Values: column name at %d is %T, not string", i, pairs[i]))
		}
		row = append(row, Value{Column: col, Value: pairs[i+1]})
	}
	return row
}

// Columns returns the column names in order.
func (r Row) Columns() []string {
	out := make([]string, len(r))
	for i, v := range r {
		out[i] = v.Column
	}
	return out
}

// TableData is the rows declared for one table.
type TableData struct {
	Table string
	Rows  []Row
}

// DataSet holds seed rows per table. Tables keep the order of their first
// Insert, rows the order they were inserted in.
type DataSet struct {
	tables []*TableData
}

// NewDataSet returns an empty data set.
func NewDataSet() *DataSet {
	return &DataSet{}
}

// Insert appends rows to table.
func (d *DataSet) Insert(table string, rows ...Row) *DataSet {
	td := d.lookup(table)
	if td == nil {
		td = &TableData{Table: table}
		d.tables = append(d.tables, td)
	}
	td.Rows = append(td.Rows, rows...)
	return d
}

// Tables returns the per-table rows in declaration order.
func (d *DataSet) Tables() []TableData {
	out := make([]TableData, len(d.tables))
	for i, td := range d.tables {
		out[i] = *td
	}
	return out
}

// Rows returns the rows declared for table.
func (d *DataSet) Rows(table string) []Row {
	if td := d.lookup(table); td != nil {
		return td.Rows
	}
	return nil
}

// Len returns the total number of rows.
func (d *DataSet) Len() int {
	n := 0
	for _, td := range d.tables {
		n += len(td.Rows)
	}
	return n
}

func (d *DataSet) lookup(table string) *TableData {
	for _, td := range d.tables {
		if td.Table == table {
			return td
		}
	}
	return nil
}
