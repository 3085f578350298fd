package vault

import "context"

type Repository interface {
	// FindOrCreate inserts defaults if no row exists for defaults.ID and
	// returns the stored row either way. An existing row is never reset.
	FindOrCreate(ctx context.Context, defaults *Vault) (*Vault, error)
	Get(ctx context.Context, id string) (*Vault, error)
	Save(ctx context.Context, v *Vault) error
}

type LenderRepository interface {
	FindOrCreate(ctx context.Context, defaults *Lender) (*Lender, error)
	Get(ctx context.Context, id string) (*Lender, error)
	Save(ctx context.Context, l *Lender) error
}

type BorrowerRepository interface {
	FindOrCreate(ctx context.Context, defaults *Borrower) (*Borrower, error)
	Get(ctx context.Context, id string) (*Borrower, error)
	Save(ctx context.Context, b *Borrower) error
}
