package sql

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	DefaultMaxRetries    = 3
	DefaultRetryInterval = 5 * time.Second

	livenessStatement = "SELECT 1"
)

// StatementKind classifies a statement by its leading keyword.
type StatementKind int

const (
	KindOther StatementKind = iota
	KindSelect
	KindInsert
)

func (k StatementKind) String() string {
	switch k {
	case KindSelect:
		return "select"
	case KindInsert:
		return "insert"
	default:
		return "other"
	}
}

// ClassifyStatement inspects the leading keyword of stmt, skipping leading
// comments. Common table expressions count as selects.
func ClassifyStatement(stmt string) StatementKind {
	trimmed := strings.ToLower(stripLeadingComments(stmt))
	switch {
	case strings.HasPrefix(trimmed, "select"), strings.HasPrefix(trimmed, "with"), strings.HasPrefix(trimmed, "("):
		return KindSelect
	case strings.HasPrefix(trimmed, "insert"):
		return KindInsert
	default:
		return KindOther
	}
}

func stripLeadingComments(stmt string) string {
	rest := strings.TrimSpace(stmt)
	for {
		switch {
		case strings.HasPrefix(rest, "/*"):
			end := strings.Index(rest, "*/")
			if end < 0 {
				return ""
			}
			rest = strings.TrimSpace(rest[end+2:])
		case strings.HasPrefix(rest, "--"), strings.HasPrefix(rest, "#"):
			end := strings.IndexByte(rest, '\n')
			if end < 0 {
				return ""
			}
			rest = strings.TrimSpace(rest[end+1:])
		default:
			return rest
		}
	}
}

// Row is a single result row keyed by column name. Result.Columns keeps the
// column order.
type Row map[string]interface{}

// Result is the outcome of Execute. Which fields are set depends on Kind:
// select fills Columns/Rows, insert fills LastInsertID, anything else
// fills RowsAffected.
type Result struct {
	Kind         StatementKind
	Columns      []string
	Rows         []Row
	LastInsertID int64
	RowsAffected int64
}

// Opener creates a fresh gorm handle. It is called for the first connection
// and for every reconnect attempt.
type Opener func() (*gorm.DB, error)

// ClientOptions tunes the reconnect policy.
type ClientOptions struct {
	MaxRetries    int
	RetryInterval time.Duration
}

// Client wraps a pooled gorm handle, checks it before every operation and
// reconnects with a fixed delay when the check fails.
type Client struct {
	mu   sync.RWMutex
	db   *gorm.DB
	open Opener
	opts ClientOptions

	// wait is swapped out in tests to avoid real sleeps.
	wait func(ctx context.Context, d time.Duration) error
}

// NewClient opens the first connection through open.
func NewClient(open Opener, opts ClientOptions) (*Client, error) {
	if open == nil {
		return nil, errors.New("relational opener is nil")
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = DefaultRetryInterval
	}

	db, err := open()
	if err != nil {
		logrus.WithError(err).Error("relational: initial connection failed")
		return nil, &ConnectionError{Attempts: 1, Err: err}
	}
	logrus.Info("relational: connected")

	return &Client{
		db:   db,
		open: open,
		opts: opts,
		wait: sleepContext,
	}, nil
}

// Dialect returns the name of the active gorm dialector.
func (c *Client) Dialect() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.db == nil || c.db.Dialector == nil {
		return ""
	}
	return c.db.Dialector.Name()
}

// Ping reports whether the current handle answers the liveness statement.
func (c *Client) Ping(ctx context.Context) bool {
	c.mu.RLock()
	db := c.db
	c.mu.RUnlock()
	return isAlive(ctx, db)
}

// Session returns a live handle bound to ctx for ORM-style calls.
func (c *Client) Session(ctx context.Context) (*gorm.DB, error) {
	db, err := c.ensure(ctx)
	if err != nil {
		return nil, err
	}
	return db.WithContext(ctx), nil
}

// Execute runs stmt inside a transaction. Selects return their rows,
// inserts the new identifier and other statements the affected row count.
func (c *Client) Execute(ctx context.Context, stmt string, args ...interface{}) (*Result, error) {
	db, err := c.ensure(ctx)
	if err != nil {
		return nil, err
	}

	kind := ClassifyStatement(stmt)
	logrus.WithFields(logrus.Fields{
		"sql":    stmt,
		"params": args,
		"kind":   kind.String(),
	}).Debug("relational: execute")

	result := &Result{Kind: kind}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch kind {
		case KindSelect:
			return scanRows(tx, result, stmt, args)
		case KindInsert:
			return execInsert(ctx, tx, result, stmt, args)
		default:
			res := tx.Exec(stmt, args...)
			if res.Error != nil {
				return res.Error
			}
			result.RowsAffected = res.RowsAffected
			return nil
		}
	})
	if err != nil {
		logrus.WithError(err).WithField("sql", stmt).Error("relational: statement failed")
		return nil, newQueryError(stmt, err)
	}
	return result, nil
}

// Query decodes every row of a selecting statement into dest (a pointer to
// a slice of structs).
func (c *Client) Query(ctx context.Context, dest interface{}, stmt string, args ...interface{}) error {
	db, err := c.ensure(ctx)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"sql": stmt, "params": args}).Debug("relational: query")

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Raw(stmt, args...).Scan(dest).Error
	})
	if err != nil {
		return newQueryError(stmt, err)
	}
	return nil
}

// FetchOne decodes the first row of stmt into dest and reports whether a
// row was found.
func (c *Client) FetchOne(ctx context.Context, dest interface{}, stmt string, args ...interface{}) (bool, error) {
	db, err := c.ensure(ctx)
	if err != nil {
		return false, err
	}

	var found bool
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Raw(stmt, args...).Scan(dest)
		found = res.RowsAffected > 0
		return res.Error
	})
	logrus.WithFields(logrus.Fields{
		"sql":    stmt,
		"params": args,
		"found":  found,
	}).Debug("relational: fetch one")
	if err != nil {
		return false, newQueryError(stmt, err)
	}
	return found, nil
}

// FindPage loads one page of table rows matching the equality filter into
// dest, ordered by primary key.
func (c *Client) FindPage(ctx context.Context, dest interface{}, table string, filter map[string]interface{}, skip, pageSize int) error {
	db, err := c.ensure(ctx)
	if err != nil {
		return err
	}
	if skip < 0 {
		skip = 0
	}
	logrus.WithFields(logrus.Fields{
		"table":     table,
		"filter":    filter,
		"skip":      skip,
		"page_size": pageSize,
	}).Debug("relational: find page")

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Table(table)
		for _, key := range sortedKeys(filter) {
			query = query.Where(fmt.Sprintf("%s = ?", key), filter[key])
		}
		return query.Order("id ASC").Offset(skip).Limit(pageSize).Find(dest).Error
	})
	if err != nil {
		return newQueryError("SELECT * FROM "+table, err)
	}
	return nil
}

// Transaction runs fn in a transaction on a live handle.
func (c *Client) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	db, err := c.ensure(ctx)
	if err != nil {
		return err
	}
	if err := db.WithContext(ctx).Transaction(fn); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return newQueryError("", err)
	}
	return nil
}

// Close releases the underlying pool.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return nil
	}
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	c.db = nil
	return sqlDB.Close()
}

// ensure returns a handle that answered the liveness check, reconnecting when needed.
func (c *Client) ensure(ctx context.Context) (*gorm.DB, error) {
	c.mu.RLock()
	db := c.db
	c.mu.RUnlock()
	if isAlive(ctx, db) {
		return db, nil
	}
	return c.reconnect(ctx)
}

func (c *Client) reconnect(ctx context.Context) (*gorm.DB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// another caller may have reconnected while we waited for the lock
	if c.db != nil && isAlive(ctx, c.db) {
		return c.db, nil
	}

	var lastErr error
	for attempt := 1; attempt <= c.opts.MaxRetries; attempt++ {
		logrus.WithField("attempt", attempt).Warn("relational: reconnecting")

		db, err := c.open()
		if err == nil {
			if isAlive(ctx, db) {
				closeHandle(c.db)
				c.db = db
				logrus.WithField("attempt", attempt).Info("relational: reconnected")
				return db, nil
			}
			closeHandle(db)
			err = errors.New("liveness check failed after reconnect")
		}
		lastErr = err

		if attempt < c.opts.MaxRetries {
			if werr := c.wait(ctx, c.opts.RetryInterval); werr != nil {
				return nil, &ConnectionError{Attempts: attempt, Err: werr}
			}
		}
	}

	logrus.WithError(lastErr).WithField("attempts", c.opts.MaxRetries).Error("relational: giving up")
	return nil, &ConnectionError{Attempts: c.opts.MaxRetries, Err: lastErr}
}

func isAlive(ctx context.Context, db *gorm.DB) bool {
	if db == nil {
		return false
	}
	if err := db.WithContext(ctx).Exec(livenessStatement).Error; err != nil {
		logrus.WithError(err).Warn("relational: liveness check failed")
		return false
	}
	return true
}

func closeHandle(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func scanRows(tx *gorm.DB, result *Result, stmt string, args []interface{}) error {
	rows, err := tx.Raw(stmt, args...).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return err
	}
	result.Columns = columns
	result.Rows = make([]Row, 0)

	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return err
		}
		row := make(Row, len(columns))
		for i, col := range columns {
			if raw, ok := values[i].([]byte); ok {
				row[col] = string(raw)
				continue
			}
			row[col] = values[i]
		}
		result.Rows = append(result.Rows, row)
	}
	return rows.Err()
}

func execInsert(ctx context.Context, tx *gorm.DB, result *Result, stmt string, args []interface{}) error {
	if tx.Dialector != nil && tx.Dialector.Name() == "postgres" {
		res := tx.Raw(strings.TrimRight(strings.TrimSpace(stmt), ";")+" RETURNING id", args...).Scan(&result.LastInsertID)
		if res.Error != nil {
			return res.Error
		}
		result.RowsAffected = res.RowsAffected
		return nil
	}

	res, err := tx.Statement.ConnPool.ExecContext(ctx, stmt, args...)
	if err != nil {
		return err
	}
	if result.LastInsertID, err = res.LastInsertId(); err != nil {
		return err
	}
	result.RowsAffected, _ = res.RowsAffected()
	return nil
}

func sortedKeys(filter map[string]interface{}) []string {
	keys := make([]string, 0, len(filter))
	for key := range filter {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Int64 converts a scanned numeric column to int64. Textual values (how
// mysql returns DECIMAL aggregates) are parsed; fractions are rounded and
// unparsable values are logged and read as 0.
func (r Row) Int64(column string) int64 {
	switch v := r[column].(type) {
	case nil:
		return 0
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case uint64:
		return int64(v)
	case uint32:
		return int64(v)
	case float64:
		return int64(math.Round(v))
	case float32:
		return int64(math.Round(float64(v)))
	case string:
		return parseInt64(column, v)
	default:
		logrus.WithFields(logrus.Fields{
			"column": column,
			"type":   fmt.Sprintf("%T", v),
		}).Warn("relational: column is not numeric")
		return 0
	}
}

func parseInt64(column, raw string) int64 {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"column": column,
			"value":  raw,
		}).Warn("relational: failed to parse numeric column")
		return 0
	}
	if f != math.Trunc(f) {
		logrus.WithFields(logrus.Fields{
			"column": column,
			"value":  raw,
		}).Debug("relational: rounding fractional value")
	}
	return int64(math.Round(f))
}
