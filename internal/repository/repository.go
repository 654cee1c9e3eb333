// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update data, abstracting SQL logic away from the service layer
package repository

import (
	"context"
	"time"

	"github.com/dhchicaiza/registros/internal/database"
)

// base runs every statement on its own connection and under the query deadline.
type base struct {
	db           database.Provider
	queryTimeout time.Duration
}

// withConn acquires a connection, runs fn and releases the connection on
// every path.
func (b base) withConn(ctx context.Context, fn func(ctx context.Context, q database.Querier) error) error {
	if b.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.queryTimeout)
		defer cancel()
	}

	conn, err := b.db.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release(ctx)

	return fn(ctx, conn)
}
