package signer

import (
	"context"

	"golang.org/x/sync/semaphore"
)

type exclusiveTransactor struct {
	next Transactor
	sem  *semaphore.Weighted
}

// NewExclusiveTransactor admits one Transact at a time. A concurrent call fails
// with ErrSignerBusy instead of waiting, so two signer sessions never interleave.
//
//nolint:ireturn
func NewExclusiveTransactor(next Transactor) Transactor {
	return &exclusiveTransactor{
		next: next,
		sem:  semaphore.NewWeighted(1),
	}
}

func (t *exclusiveTransactor) Transact(ctx context.Context, fn TransactFunc) error {
	if !t.sem.TryAcquire(1) {
		return ErrSignerBusy
	}
	defer t.sem.Release(1)

	return t.next.Transact(ctx, fn)
}
