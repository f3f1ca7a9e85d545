package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

var NoTX interface{}

// TransactionManager executes a function within a database transaction,
// passing the underlying transaction handle via the Tx argument.
//
// Use-case interfaces stay free of driver types; repositories accepting a Tx
// detect it implementation-side (e.g. pgx.Tx for Postgres) and fall back to
// the pool when nil is passed.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
