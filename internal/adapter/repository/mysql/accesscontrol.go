package mysql

import (
	"context"

	acDomain "securevault-indexer/internal/domain/accesscontrol"

	"gorm.io/gorm"
)

type RoleRepository struct{ db *gorm.DB }

func NewRoleRepository(db *gorm.DB) *RoleRepository { return &RoleRepository{db: db} }

func (r *RoleRepository) FindOrCreate(ctx context.Context, defaults *acDomain.Role) (*acDomain.Role, error) {
	res := r.db.WithContext(ctx).Where("id = ?", defaults.ID).FirstOrCreate(defaults)
	return defaults, res.Error
}

func (r *RoleRepository) Get(ctx context.Context, id string) (*acDomain.Role, error) {
	var out acDomain.Role
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *RoleRepository) Save(ctx context.Context, role *acDomain.Role) error {
	return r.db.WithContext(ctx).Save(role).Error
}

type MemberRepository struct{ db *gorm.DB }

func NewMemberRepository(db *gorm.DB) *MemberRepository { return &MemberRepository{db: db} }

func (r *MemberRepository) Get(ctx context.Context, id string) (*acDomain.Member, error) {
	var out acDomain.Member
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *MemberRepository) Save(ctx context.Context, m *acDomain.Member) error {
	return r.db.WithContext(ctx).Save(m).Error
}

type RoleEventRepository struct{ db *gorm.DB }

func NewRoleEventRepository(db *gorm.DB) *RoleEventRepository { return &RoleEventRepository{db: db} }

func (r *RoleEventRepository) CreateIfAbsent(ctx context.Context, e *acDomain.RoleEvent) (bool, error) {
	return createIfAbsent(ctx, r.db, e)
}
