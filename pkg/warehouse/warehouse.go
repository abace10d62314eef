// Package warehouse runs generated queries against a database/sql data
// source. The pure Go SQLite driver is registered as "sqlite".
package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/helmcode/questionnaire/pkg/model"
)

// DefaultDriver is used when no driver is configured.
const DefaultDriver = "sqlite"

// ErrNoCredentials means no data source was configured.
var ErrNoCredentials = errors.New("warehouse credentials not configured (set warehouse.dsn or QUESTIONNAIRE_WAREHOUSE_DSN)")

// Config selects the data source.
type Config struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// Client wraps an open database handle.
type Client struct {
	db     *sql.DB
	driver string
	logger *zap.Logger
}

// Open connects to the configured data source and pings it.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, ErrNoCredentials
	}
	driver := cfg.Driver
	if driver == "" {
		driver = DefaultDriver
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, &model.CollaboratorError{Collaborator: "warehouse", Op: "open", Err: err}
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &model.CollaboratorError{Collaborator: "warehouse", Op: "connect", Err: err}
	}
	logger.Debug("warehouse connected", zap.String("driver", driver))
	return &Client{db: db, driver: driver, logger: logger}, nil
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.db.Close()
}

// Result is a query result with every cell rendered as text.
type Result struct {
	Columns []string
	Rows    [][]string
}

// Execute runs query and collects all rows. NULL cells become "".
func (c *Client) Execute(ctx context.Context, query string) (*Result, error) {
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		c.logger.Warn("query failed", zap.Error(err))
		return nil, &model.CollaboratorError{Collaborator: "warehouse", Op: "query", Err: err}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &model.CollaboratorError{Collaborator: "warehouse", Op: "columns", Err: err}
	}

	result := &Result{Columns: cols}
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &model.CollaboratorError{Collaborator: "warehouse", Op: "scan", Err: err}
		}
		row := make([]string, len(cols))
		for i, v := range values {
			row[i] = cell(v)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &model.CollaboratorError{Collaborator: "warehouse", Op: "read rows", Err: err}
	}
	c.logger.Debug("query complete", zap.Int("rows", len(result.Rows)), zap.Int("columns", len(cols)))
	return result, nil
}

func cell(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case float64:
		return model.FormatNumber(x)
	default:
		return fmt.Sprint(x)
	}
}

// WriteTable prints the result as aligned columns.
func (r *Result) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(r.Columns, "\t"))
	for _, row := range r.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "(%d rows)\n", len(r.Rows))
	return nil
}
