package sql

import (
	"fmt"
)

// ConnectionError is returned when the relational store stays unreachable
// after all reconnect attempts.
type ConnectionError struct {
	Attempts int
	Err      error
}

func (e *ConnectionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("relational store unreachable after %d attempts", e.Attempts)
	}
	return fmt.Sprintf("relational store unreachable after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// QueryError wraps a statement the driver rejected. The surrounding
// transaction has been rolled back when it is returned.
type QueryError struct {
	Statement string
	Err       error
}

func (e *QueryError) Error() string {
	if e.Statement == "" {
		return fmt.Sprintf("query failed: %v", e.Err)
	}
	return fmt.Sprintf("query failed: %v (statement: %s)", e.Err, e.Statement)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

func newQueryError(statement string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*ConnectionError); ok {
		return err
	}
	if _, ok := err.(*QueryError); ok {
		return err
	}
	return &QueryError{Statement: statement, Err: err}
}
