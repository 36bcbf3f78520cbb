package dbload

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"

	"github.com/vaibhaw-/omopgen/internal/omopgen/cdm"
	"github.com/vaibhaw-/omopgen/internal/omopgen/export"
	"github.com/vaibhaw-/omopgen/internal/omopgen/logger"
)

// ErrHeaderMismatch is returned when a CSV header differs from the table's
// column order.
var ErrHeaderMismatch = errors.New("csv header does not match table columns")

// DefaultTimeout bounds each table's transaction.
const DefaultTimeout = 5 * time.Minute

// Options configures a load.
type Options struct {
	Dialect      export.Dialect
	DSN          string
	Dir          string // export directory holding <table>.csv
	Timeout      time.Duration
	CreateSchema bool // drop and recreate the five tables first
}

// Result maps table name to rows loaded.
type Result map[string]int

// BuildDSN constructs a DSN for postgres or mysql from parts.
func BuildDSN(d export.Dialect, user, pass, host string, port int, db string) string {
	if d == export.Postgres {
		if port == 0 {
			port = 5432
		}
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable", user, pass, host, port, db)
	}
	if port == 0 {
		port = 3306
	}
	cfg := mysql.NewConfig()
	cfg.User = user
	cfg.Passwd = pass
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	cfg.DBName = db
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

// InsertStatement returns a parameterised single-row INSERT for table.
func InsertStatement(d export.Dialect, table string, cols []string) string {
	ph := make([]string, len(cols))
	for i := range cols {
		if d == export.Postgres {
			ph[i] = fmt.Sprintf("$%d", i+1)
		} else {
			ph[i] = "?"
		}
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), strings.Join(ph, ", "))
}

// RowArgs converts a CSV record to statement arguments. Empty fields are
// null.
func RowArgs(record []string) []any {
	args := make([]any, len(record))
	for i, v := range record {
		if v == "" {
			args[i] = nil
		} else {
			args[i] = v
		}
	}
	return args
}

// Check verifies that dir holds a CSV for every table with the expected
// header. It touches no database.
func Check(dir string) error {
	if err := export.CheckDir(dir); err != nil {
		return err
	}
	for _, table := range cdm.TableOrder {
		f, _, err := openTable(dir, table)
		if err != nil {
			return err
		}
		f.Close()
	}
	return nil
}

// openTable opens dir/<table>.csv and consumes its header.
func openTable(dir, table string) (*os.File, *csv.Reader, error) {
	path := filepath.Join(dir, export.CSVName(table))
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	r := csv.NewReader(f)
	r.ReuseRecord = true
	header, err := r.Read()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	want := cdm.Columns[table]
	if strings.Join(header, ",") != strings.Join(want, ",") {
		f.Close()
		return nil, nil, fmt.Errorf("%s: %w", path, ErrHeaderMismatch)
	}
	r.FieldsPerRecord = len(want)
	return f, r, nil
}

// Load copies every exported table into the database, parents first, one
// transaction per table.
func Load(ctx context.Context, opts Options) (Result, error) {
	log := logger.L()
	if opts.Dialect != export.Postgres && opts.Dialect != export.MySQL {
		return nil, fmt.Errorf("%q: %w", opts.Dialect, export.ErrUnknownDialect)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if err := Check(opts.Dir); err != nil {
		return nil, err
	}

	db, err := sql.Open(string(opts.Dialect), opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", opts.Dialect, err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	err = db.PingContext(pingCtx)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", opts.Dialect, err)
	}
	log.Infow("connected", "driver", opts.Dialect)

	if opts.CreateSchema {
		stmts, err := export.DDL(opts.Dialect)
		if err != nil {
			return nil, err
		}
		for _, s := range stmts {
			if _, err := db.ExecContext(ctx, s); err != nil {
				return nil, fmt.Errorf("schema: %w", err)
			}
		}
		log.Infow("schema created", "tables", len(cdm.TableOrder))
	}

	res := Result{}
	for _, table := range cdm.TableOrder {
		start := time.Now()
		n, err := loadTable(ctx, db, opts, table)
		if err != nil {
			return res, fmt.Errorf("load %s: %w", table, err)
		}
		res[table] = n
		log.Infow("table loaded", "table", table, "rows", n, "duration", time.Since(start))
	}
	return res, nil
}

func loadTable(ctx context.Context, db *sql.DB, opts Options, table string) (int, error) {
	f, r, err := openTable(opts.Dir, table)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	cols := cdm.Columns[table]
	query := InsertStatement(opts.Dialect, table, cols)
	if opts.Dialect == export.Postgres {
		query = pq.CopyIn(table, cols...)
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	n := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return n, err
		}
		if _, err := stmt.ExecContext(ctx, RowArgs(rec)...); err != nil {
			return n, fmt.Errorf("row %d: %w", n+1, err)
		}
		n++
		if n%10000 == 0 {
			logger.L().Debugw("rows sent", "table", table, "rows", n)
		}
	}
	if opts.Dialect == export.Postgres {
		// flush the COPY buffer
		if _, err := stmt.ExecContext(ctx); err != nil {
			return n, fmt.Errorf("copy: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return n, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}
