package accesscontrol

import "context"

type RoleRepository interface {
	FindOrCreate(ctx context.Context, defaults *Role) (*Role, error)
	Get(ctx context.Context, id string) (*Role, error)
	Save(ctx context.Context, r *Role) error
}

type MemberRepository interface {
	Get(ctx context.Context, id string) (*Member, error)
	// Save upserts by primary key.
	Save(ctx context.Context, m *Member) error
}

type RoleEventRepository interface {
	CreateIfAbsent(ctx context.Context, e *RoleEvent) (bool, error)
}
