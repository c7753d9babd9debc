package infrastructure

import (
	"database/sql"

	"github.com/rpoliveira/controlefin/internal/ledger/domain"
)

// pgTx adapts *sql.Tx to domain.Tx. Both ledger repositories hand out and
// accept the same wrapper, so one transaction can span expense and goal
// writes.
type pgTx struct {
	*sql.Tx
}

func sqlTx(tx domain.Tx) *sql.Tx {
	return tx.(*pgTx).Tx
}
