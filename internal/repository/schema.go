package repository

import (
	"fmt"
	"strings"

	"github.com/aasthafoundation/careboard/internal/db"
)

type Kind int

const (
	Text Kind = iota
	Int
	Real
)

type Column struct {
	Name string
	Kind Kind
}

// Table is the writable column whitelist of one table. Every table also has
// the server-owned id and created_at columns.
type Table struct {
	Name    string
	Columns []Column
}

const (
	colID        = "id"
	colCreatedAt = "created_at"
)

var tables = []Table{
	{Name: "residents", Columns: []Column{
		{"name", Text}, {"address", Text}, {"gender", Text}, {"dob", Text},
		{"aadhar_no", Text}, {"pan_no", Text}, {"date_of_admission", Text},
		{"date_of_leaving", Text}, {"remarks", Text},
	}},
	{Name: "staff", Columns: []Column{
		{"employee_id", Text}, {"name", Text}, {"gender", Text}, {"age", Int},
		{"department", Text}, {"role", Text}, {"date_of_joining", Text},
		{"salary", Real}, {"working_hours", Text}, {"status", Text},
		{"performance_rating", Text},
	}},
	{Name: "caretakers", Columns: []Column{
		{"name", Text}, {"age", Int},
	}},
	{Name: "visitors", Columns: []Column{
		{"name", Text}, {"address", Text}, {"contact_number", Text}, {"age", Int},
		{"gender", Text}, {"in_time", Text}, {"out_time", Text},
		{"visit_date", Text}, {"purpose", Text},
	}},
	{Name: "donations", Columns: []Column{
		{"donor_name", Text}, {"age", Int}, {"amount", Real},
		{"payment_method", Text}, {"donation_date", Text}, {"city", Text},
	}},
	{Name: "medical_records", Columns: []Column{
		{"patient_name", Text}, {"diagnosis", Text}, {"gender", Text},
		{"age", Int}, {"record_date", Text}, {"time_slot", Text},
	}},
}

var tablesByName = func() map[string]Table {
	m := make(map[string]Table, len(tables))
	for _, t := range tables {
		m[t.Name] = t
	}
	return m
}()

// Tables lists every managed table in creation order.
func Tables() []Table {
	return append([]Table(nil), tables...)
}

func LookupTable(name string) (Table, bool) {
	t, ok := tablesByName[name]
	return t, ok
}

func (t Table) column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// selectList is the column list used by SELECT and RETURNING clauses.
func (t Table) selectList() []string {
	cols := make([]string, 0, len(t.Columns)+2)
	cols = append(cols, colID)
	for _, c := range t.Columns {
		cols = append(cols, c.Name)
	}
	return append(cols, colCreatedAt)
}

func sqlType(d db.Dialect, k Kind) string {
	switch k {
	case Int:
		return "INTEGER"
	case Real:
		if d == db.Postgres {
			return "DOUBLE PRECISION"
		}
		return "REAL"
	}
	return "TEXT"
}

func (t Table) createSQL(d db.Dialect) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n\t%s TEXT PRIMARY KEY", t.Name, colID)
	for _, c := range t.Columns {
		fmt.Fprintf(&b, ",\n\t%s %s", c.Name, sqlType(d, c.Kind))
	}
	fmt.Fprintf(&b, ",\n\t%s TIMESTAMP NOT NULL DEFAULT %s\n)", colCreatedAt, d.Now())
	return b.String()
}

func (t Table) indexSQL() string {
	return fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_created_at ON %s (%s)", t.Name, t.Name, colCreatedAt)
}
