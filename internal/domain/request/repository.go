package request

import "context"

type DepositRequestRepository interface {
	// CreateIfAbsent inserts r unless a row with r.ID already exists.
	// It reports whether the insert happened; false means a redelivered
	// DepositRequested was already applied.
	CreateIfAbsent(ctx context.Context, r *DepositRequest) (bool, error)
	Get(ctx context.Context, id string) (*DepositRequest, error)
	Save(ctx context.Context, r *DepositRequest) error
}

type WithdrawRequestRepository interface {
	CreateIfAbsent(ctx context.Context, r *WithdrawRequest) (bool, error)
	Get(ctx context.Context, id string) (*WithdrawRequest, error)
	Save(ctx context.Context, r *WithdrawRequest) error
}

type DepositExecutionRepository interface {
	CreateIfAbsent(ctx context.Context, e *DepositExecution) (bool, error)
}

type WithdrawExecutionRepository interface {
	CreateIfAbsent(ctx context.Context, e *WithdrawExecution) (bool, error)
}

type AdminWithdrawalRepository interface {
	CreateIfAbsent(ctx context.Context, w *AdminWithdrawal) (bool, error)
}
