package memory

import "context"

// TxManager satisfies ports.TxManager without a transaction scope. The
// memory repos take their own locks per call, so holding a store-wide lock
// across the callback would deadlock; real atomicity lives in the gorm
// adapter.
type TxManager struct{}

func NewTxManager() TxManager {
	return TxManager{}
}

func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
