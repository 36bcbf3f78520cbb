package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vaibhaw-/omopgen/internal/omopgen/cdm"
	"github.com/vaibhaw-/omopgen/internal/omopgen/logger"
)

// Dialect selects SQL syntax for scripts and live loads.
type Dialect string

const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
)

// SQLName is the file name of the generated SQL script.
const SQLName = "omop_cdm.sql"

// ErrUnknownDialect is returned for a dialect other than postgres or mysql.
var ErrUnknownDialect = errors.New("unknown SQL dialect")

// ParseDialect accepts "postgres" (or "postgresql") and "mysql".
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postgres", "postgresql":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownDialect)
}

func (d Dialect) sqlType(t cdm.ColumnType) string {
	switch t {
	case cdm.TypeBigint:
		return "BIGINT"
	case cdm.TypeInteger:
		return "INTEGER"
	case cdm.TypeDate:
		return "DATE"
	case cdm.TypeTimestamp:
		if d == MySQL {
			return "DATETIME"
		}
		return "TIMESTAMP"
	case cdm.TypeNumeric:
		return "NUMERIC"
	default:
		if d == MySQL {
			return "VARCHAR(255)"
		}
		return "TEXT"
	}
}

// CreateTable returns the CREATE TABLE statement for table. The first
// column is the primary key.
func CreateTable(d Dialect, table string) (string, error) {
	cols, ok := cdm.Columns[table]
	if !ok {
		return "", fmt.Errorf("%q: %w", table, ErrUnknownTable)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", table)
	for i, col := range cols {
		fmt.Fprintf(&b, "    %s %s", col, d.sqlType(cdm.TypeOf(col)))
		if i == 0 {
			b.WriteString(" PRIMARY KEY")
		}
		if i < len(cols)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(");")
	return b.String(), nil
}

// DDL returns DROP and CREATE statements for every table, children dropped
// before parents.
func DDL(d Dialect) ([]string, error) {
	stmts := []string{}
	for i := len(cdm.TableOrder) - 1; i >= 0; i-- {
		stmts = append(stmts, fmt.Sprintf("DROP TABLE IF EXISTS %s;", cdm.TableOrder[i]))
	}
	for _, t := range cdm.TableOrder {
		s, err := CreateTable(d, t)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

// Indexes returns person_id and visit_occurrence_id lookup indexes for the
// child tables.
func Indexes() []string {
	out := []string{}
	for _, t := range cdm.TableOrder[1:] {
		out = append(out, fmt.Sprintf("CREATE INDEX idx_%s_person ON %s(person_id);", t, t))
		if t != cdm.VisitOccurrenceTable {
			out = append(out, fmt.Sprintf("CREATE INDEX idx_%s_visit ON %s(visit_occurrence_id);", t, t))
		}
	}
	return out
}

// sqlEscape escapes single quotes for inline SQL literals.
func sqlEscape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// SQLLiteral renders a field as an inline SQL literal.
func SQLLiteral(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case int, int64, float64:
		return FormatValue(x)
	default:
		return "'" + sqlEscape(FormatValue(x)) + "'"
	}
}

// WriteSQL writes a complete import script for tables: schema, one
// INSERT per record, then indexes.
func WriteSQL(w io.Writer, d Dialect, tables []cdm.Table) (int, error) {
	bw := bufio.NewWriter(w)
	if d == Postgres {
		fmt.Fprintf(bw, "-- Generated OMOP CDM v5.4 data for PostgreSQL\n")
		fmt.Fprintf(bw, "-- Import with: psql -U <user> -d <database> -f %s\n\n", SQLName)
	} else {
		fmt.Fprintf(bw, "-- Generated OMOP CDM v5.4 data for MySQL\n")
		fmt.Fprintf(bw, "-- Import with: mysql -u <user> -p <database> < %s\n\n", SQLName)
	}

	ddl, err := DDL(d)
	if err != nil {
		return 0, err
	}
	for _, s := range ddl {
		fmt.Fprintln(bw, s)
	}
	fmt.Fprintln(bw)

	total := 0
	for _, t := range tables {
		cols, ok := cdm.Columns[t.Name]
		if !ok {
			return total, fmt.Errorf("%q: %w", t.Name, ErrUnknownTable)
		}
		prefix := fmt.Sprintf("INSERT INTO %s (%s) VALUES (", t.Name, strings.Join(cols, ", "))
		vals := make([]string, len(cols))
		for i, rec := range t.Records {
			fields := rec.Fields()
			for j, col := range cols {
				v, ok := fields[col]
				if !ok {
					return total, fmt.Errorf("%s row %d column %s: %w", t.Name, i, col, ErrMissingColumn)
				}
				vals[j] = SQLLiteral(v)
			}
			fmt.Fprintf(bw, "%s%s);\n", prefix, strings.Join(vals, ","))
		}
		fmt.Fprintf(bw, "\n-- Inserted %d rows into %s\n\n", len(t.Records), t.Name)
		total += len(t.Records)
	}

	for _, s := range Indexes() {
		fmt.Fprintln(bw, s)
	}
	fmt.Fprintln(bw, "\n-- Indexes created")
	return total, bw.Flush()
}

// WriteSQLFile writes the import script to dir/omop_cdm.sql.
func WriteSQLFile(dir string, d Dialect, tables []cdm.Table) (File, error) {
	if err := CheckDir(dir); err != nil {
		return File{}, err
	}
	path := filepath.Join(dir, SQLName)
	f, err := os.Create(path)
	if err != nil {
		return File{}, fmt.Errorf("create %s: %w", path, err)
	}
	rows, err := WriteSQL(f, d, tables)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return File{}, err
	}
	logger.L().Infow("sql script written", "path", path, "dialect", d, "rows", rows)
	return File{Name: SQLName, Rows: rows}, nil
}
