package loan

import "context"

type Repository interface {
	// CreateIfAbsent inserts l unless a row with l.ID already exists and
	// reports whether the insert happened. A false result means the same
	// LoanIssued log was already applied.
	CreateIfAbsent(ctx context.Context, l *Loan) (bool, error)
	Get(ctx context.Context, id string) (*Loan, error)
	Save(ctx context.Context, l *Loan) error
}

type PaymentRepository interface {
	CreateIfAbsent(ctx context.Context, p *Payment) (bool, error)
}
