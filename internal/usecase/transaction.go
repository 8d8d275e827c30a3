package usecase

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
)

// Transaction sequences multi-step writes that have no database transaction
// spanning them. Each operation may register a compensation; when an
// operation fails, the compensations of every operation that already ran are
// executed in reverse order.
type Transaction struct {
	operations    []operation
	compensations []operation
	logger        *log.Logger
}

type operation struct {
	name string
	fn   func(context.Context) error
}

func NewTransaction(logger *log.Logger) *Transaction {
	return &Transaction{logger: logger}
}

func (t *Transaction) AddOperation(name string, fn func(context.Context) error) {
	t.operations = append(t.operations, operation{name, fn})
}

// AddCompensation registers the undo for the operation added at the same
// position. Operations without an undo may register a nil fn.
func (t *Transaction) AddCompensation(name string, fn func(context.Context) error) {
	t.compensations = append(t.compensations, operation{name, fn})
}

// Execute runs the operations in order. On the first failure it rolls back
// everything that already ran and returns the failing operation's error.
func (t *Transaction) Execute(ctx context.Context) error {
	for i, op := range t.operations {
		if err := op.fn(ctx); err != nil {
			t.rollback(ctx, i)
			return fmt.Errorf("operation %q failed: %w (rolled back %d operations)", op.name, err, i)
		}
	}
	return nil
}

func (t *Transaction) rollback(ctx context.Context, failedAt int) {
	for i := failedAt - 1; i >= 0; i-- {
		if i >= len(t.compensations) || t.compensations[i].fn == nil {
			continue
		}
		comp := t.compensations[i]
		if err := comp.fn(ctx); err != nil {
			// Nothing left to do but flag the inconsistency for reconciliation.
			t.logger.Error("compensation failed, manual cleanup may be required",
				"compensation", comp.name, "err", err)
		}
	}
}
