package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	// Import database drivers
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"github.com/FreePeak/pet-mcp-server/internal/logger"
)

// Common database errors
var (
	ErrNoDatabase     = errors.New("no database connection")
	ErrUnsupportedDB  = errors.New("unsupported database type")
	ErrMissingDBName  = errors.New("database name is required")
	ErrAlreadyOpen    = errors.New("database connection already open")
	errPingTimeoutMsg = "failed to ping database"
)

// Config represents database connection configuration
type Config struct {
	Type     string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	// SlowQueryThreshold is the duration above which a statement is logged
	SlowQueryThreshold time.Duration
}

// SetDefaults sets default values for the configuration if they are not set
func (c *Config) SetDefaults() {
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = 25
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = 5
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = 5 * time.Minute
	}
	if c.ConnMaxIdleTime == 0 {
		c.ConnMaxIdleTime = 5 * time.Minute
	}
	if c.SlowQueryThreshold == 0 {
		c.SlowQueryThreshold = DefaultSlowQueryThreshold
	}
}

// Database is the subset of database/sql the repositories need, plus the
// dialect details that differ between drivers
type Database interface {
	Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row
	Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)

	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	DriverName() string
	ConnectionString() string
	// Rebind rewrites '?' placeholders into the driver's placeholder style
	Rebind(query string) string
	// Metrics returns timings of the statements run through Query, QueryRow and Exec
	Metrics() *QueryTracker
}

type database struct {
	config     Config
	db         *sql.DB
	driverName string
	dsn        string
	tracker    *QueryTracker
}

// NewDatabase creates a database handle for the configured driver. No
// connection is made until Connect is called.
func NewDatabase(config Config) (Database, error) {
	config.SetDefaults()

	var dsn string
	var driverName string

	switch config.Type {
	case "mysql":
		driverName = "mysql"
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
			config.User, config.Password, config.Host, config.Port, config.Name)
	case "postgres":
		driverName = "postgres"
		dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			config.Host, config.Port, config.User, config.Password, config.Name)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDB, config.Type)
	}

	if config.Name == "" {
		return nil, ErrMissingDBName
	}

	return &database{
		config:     config,
		driverName: driverName,
		dsn:        dsn,
		tracker:    NewQueryTracker(config.SlowQueryThreshold),
	}, nil
}

// NewFromDB wraps a pool that is already open. Connect must not be called
// on the result.
func NewFromDB(conn *sql.DB, config Config) (Database, error) {
	if conn == nil {
		return nil, ErrNoDatabase
	}
	config.SetDefaults()
	switch config.Type {
	case "mysql", "postgres":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDB, config.Type)
	}
	return &database{
		config:     config,
		db:         conn,
		driverName: config.Type,
		tracker:    NewQueryTracker(config.SlowQueryThreshold),
	}, nil
}

// Connect opens the pool and verifies it with a ping
func (d *database) Connect(ctx context.Context) error {
	if d.db != nil {
		return ErrAlreadyOpen
	}

	conn, err := sql.Open(d.driverName, d.dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	conn.SetMaxOpenConns(d.config.MaxOpenConns)
	conn.SetMaxIdleConns(d.config.MaxIdleConns)
	conn.SetConnMaxLifetime(d.config.ConnMaxLifetime)
	conn.SetConnMaxIdleTime(d.config.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := conn.PingContext(pingCtx); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Error("Error closing database connection: %v", closeErr)
		}
		return fmt.Errorf("%s: %w", errPingTimeoutMsg, err)
	}

	d.db = conn
	logger.Info("Connected to %s database at %s", d.config.Type, d.ConnectionString())

	return nil
}

// Close closes the database connection
func (d *database) Close() error {
	if d.db == nil {
		return nil
	}
	d.tracker.LogSummary()
	err := d.db.Close()
	d.db = nil
	return err
}

// Ping checks if the database connection is still alive
func (d *database) Ping(ctx context.Context) error {
	if d.db == nil {
		return ErrNoDatabase
	}
	return d.db.PingContext(ctx)
}

// Query executes a query that returns rows
func (d *database) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	if d.db == nil {
		return nil, ErrNoDatabase
	}
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, d.Rebind(query), args...)
	d.tracker.Observe(query, args, time.Since(start), err)
	return rows, err
}

// QueryRow executes a query that is expected to return at most one row
func (d *database) QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	if d.db == nil {
		return nil
	}
	start := time.Now()
	row := d.db.QueryRowContext(ctx, d.Rebind(query), args...)
	d.tracker.Observe(query, args, time.Since(start), row.Err())
	return row
}

// Exec executes a query without returning any rows
func (d *database) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	if d.db == nil {
		return nil, ErrNoDatabase
	}
	start := time.Now()
	result, err := d.db.ExecContext(ctx, d.Rebind(query), args...)
	d.tracker.Observe(query, args, time.Since(start), err)
	return result, err
}

// BeginTx starts a transaction
func (d *database) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	if d.db == nil {
		return nil, ErrNoDatabase
	}
	return d.db.BeginTx(ctx, opts)
}

// DriverName returns the name of the database driver
func (d *database) DriverName() string {
	return d.driverName
}

// Metrics returns the statement timings
func (d *database) Metrics() *QueryTracker {
	return d.tracker
}

// Rebind rewrites '?' placeholders for the driver
func (d *database) Rebind(query string) string {
	return Rebind(d.driverName, query)
}

// ConnectionString returns the connection string (with password masked)
func (d *database) ConnectionString() string {
	switch d.config.Type {
	case "mysql":
		return fmt.Sprintf("%s:***@tcp(%s:%d)/%s",
			d.config.User, d.config.Host, d.config.Port, d.config.Name)
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=*** dbname=%s sslmode=disable",
			d.config.Host, d.config.Port, d.config.User, d.config.Name)
	default:
		return "unknown"
	}
}

// Rebind converts '?' placeholders to '$1, $2, ...' for postgres. Other
// drivers get the query unchanged. Question marks inside single-quoted
// literals are left alone.
func Rebind(driverName, query string) string {
	if driverName != "postgres" {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
