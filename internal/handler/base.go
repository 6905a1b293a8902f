// Package handler wraps core operations as Bubble Tea commands.
package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/JonMunkholm/inventory/internal/core"
)

// Service is the part of core.Service the interactive session drives.
type Service interface {
	ViewProduct(ctx context.Context, id int64) (core.Product, error)
	SaveProduct(ctx context.Context, name string, quantity, price int64) (core.Product, bool, error)
	Products(ctx context.Context) ([]core.Product, error)
	Backup(ctx context.Context) (core.BackupResult, error)
	BackupPath() string
}

var _ Service = (*core.Service)(nil)

// WdMsg carries an informational line for the status bar.
type WdMsg string

// DoneMsg reports a completed command.
type DoneMsg string

// ErrMsg reports a failed command.
type ErrMsg struct{ Err error }

func (e ErrMsg) Error() string { return e.Err.Error() }

// ProductMsg carries the product returned by a view.
type ProductMsg struct{ Product core.Product }

// ProductsMsg carries the full product list.
type ProductsMsg struct{ Products []core.Product }

// fail wraps err in an ErrMsg, naming the operation when it ran out of time.
func fail(op string, err error) ErrMsg {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrMsg{Err: fmt.Errorf("%s timeout: %w", op, err)}
	}
	return ErrMsg{Err: err}
}
