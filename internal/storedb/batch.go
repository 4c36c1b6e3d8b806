package storedb

import (
	"context"
	"database/sql"
	"fmt"
)

// batchInserter groups inserts into transactions of ingestChunkSize rows so
// large flat files load without holding one giant transaction open.
type batchInserter struct {
	ctx   context.Context
	db    *sql.DB
	query string

	tx    *sql.Tx
	stmt  *sql.Stmt
	count int
}

func newBatchInserter(ctx context.Context, db *sql.DB, query string) *batchInserter {
	return &batchInserter{ctx: ctx, db: db, query: query}
}

// add inserts one row, committing the current chunk when it fills up.
func (b *batchInserter) add(args ...any) error {
	if b.tx == nil {
		tx, err := b.db.BeginTx(b.ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		stmt, err := tx.PrepareContext(b.ctx, b.query)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		b.tx, b.stmt = tx, stmt
	}

	if _, err := b.stmt.ExecContext(b.ctx, args...); err != nil {
		_ = b.tx.Rollback()
		b.tx, b.stmt = nil, nil
		return fmt.Errorf("failed to insert row: %w", err)
	}

	b.count++
	if b.count%ingestChunkSize == 0 {
		return b.flush()
	}
	return nil
}

// flush commits the open chunk, if any.
func (b *batchInserter) flush() error {
	if b.tx == nil {
		return nil
	}
	_ = b.stmt.Close()
	if err := b.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit chunk: %w", err)
	}
	b.tx, b.stmt = nil, nil
	return nil
}
