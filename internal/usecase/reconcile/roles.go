package reconcile

import (
	"context"
	"errors"

	"securevault-indexer/internal/domain/accesscontrol"
	"securevault-indexer/internal/domain/event"
	"securevault-indexer/internal/domain/uow"
	"securevault-indexer/pkg/id"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
)

func (u *Usecase) roleKey(role common.Hash) string {
	return id.Compose(u.vaultID, role.Hex())
}

func (u *Usecase) findOrCreateRole(ctx context.Context, r uow.Repos, role common.Hash, ts uint64) (*accesscontrol.Role, error) {
	return r.Roles.FindOrCreate(ctx, &accesscontrol.Role{
		ID:            u.roleKey(role),
		VaultID:       u.vaultID,
		RoleHash:      role.Hex(),
		RoleName:      accesscontrol.RoleName(role),
		AdminRoleHash: accesscontrol.DefaultAdminRoleHash.Hex(),
		AdminRoleName: accesscontrol.DefaultAdminRoleName,
		UpdatedAt:     ts,
	})
}

func (u *Usecase) applyRoleGranted(ctx context.Context, r uow.Repos, e *event.RoleGranted) error {
	if _, err := u.ensureVault(ctx, r, e.Timestamp); err != nil {
		return err
	}
	role, err := u.findOrCreateRole(ctx, r, e.Role, e.Timestamp)
	if err != nil {
		return err
	}

	account := lowerAddr(e.Account)
	created, err := r.RoleEvents.CreateIfAbsent(ctx, &accesscontrol.RoleEvent{
		ID:          id.ForLog(id.Compose(role.ID, string(accesscontrol.EventGranted)), txHashHex(e.Meta), e.LogIndex),
		RoleID:      role.ID,
		EventType:   accesscontrol.EventGranted,
		Account:     strptr(account),
		TxHash:      txHashHex(e.Meta),
		BlockNumber: e.BlockNumber,
		Timestamp:   e.Timestamp,
	})
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	memberID := id.Compose(role.ID, account)
	member, err := r.RoleMembers.Get(ctx, memberID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		member = &accesscontrol.Member{
			ID:               memberID,
			RoleID:           role.ID,
			Account:          account,
			IsActive:         true,
			GrantedAt:        e.Timestamp,
			GrantTxHash:      txHashHex(e.Meta),
			GrantBlockNumber: e.BlockNumber,
			UpdatedAt:        e.Timestamp,
		}
		role.MemberCount++
	case err != nil:
		return err
	case member.IsActive:
		// The contract re-emits grants for accounts that already hold the
		// role; only the grant metadata is refreshed.
		member.GrantedAt = e.Timestamp
		member.GrantTxHash = txHashHex(e.Meta)
		member.GrantBlockNumber = e.BlockNumber
		member.UpdatedAt = e.Timestamp
	default:
		member.IsActive = true
		member.GrantedAt = e.Timestamp
		member.GrantTxHash = txHashHex(e.Meta)
		member.GrantBlockNumber = e.BlockNumber
		member.RevokedAt = nil
		member.RevokeTxHash = nil
		member.RevokeBlockNum = nil
		member.UpdatedAt = e.Timestamp
		role.MemberCount++
	}
	if err := r.RoleMembers.Save(ctx, member); err != nil {
		return err
	}

	role.UpdatedAt = e.Timestamp
	return r.Roles.Save(ctx, role)
}

func (u *Usecase) applyRoleRevoked(ctx context.Context, r uow.Repos, e *event.RoleRevoked) error {
	if _, err := u.ensureVault(ctx, r, e.Timestamp); err != nil {
		return err
	}
	role, err := u.findOrCreateRole(ctx, r, e.Role, e.Timestamp)
	if err != nil {
		return err
	}

	account := lowerAddr(e.Account)
	created, err := r.RoleEvents.CreateIfAbsent(ctx, &accesscontrol.RoleEvent{
		ID:          id.ForLog(id.Compose(role.ID, string(accesscontrol.EventRevoked)), txHashHex(e.Meta), e.LogIndex),
		RoleID:      role.ID,
		EventType:   accesscontrol.EventRevoked,
		Account:     strptr(account),
		TxHash:      txHashHex(e.Meta),
		BlockNumber: e.BlockNumber,
		Timestamp:   e.Timestamp,
	})
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	member, err := r.RoleMembers.Get(ctx, id.Compose(role.ID, account))
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Revocation of an account never seen granted only produces the
		// audit row above.
		return nil
	case err != nil:
		return err
	case !member.IsActive:
		return nil
	}

	member.IsActive = false
	member.RevokedAt = u64ptr(e.Timestamp)
	member.RevokeTxHash = strptr(txHashHex(e.Meta))
	member.RevokeBlockNum = u64ptr(e.BlockNumber)
	member.UpdatedAt = e.Timestamp
	if err := r.RoleMembers.Save(ctx, member); err != nil {
		return err
	}

	if role.MemberCount > 0 {
		role.MemberCount--
	}
	role.UpdatedAt = e.Timestamp
	return r.Roles.Save(ctx, role)
}

func (u *Usecase) applyRoleAdminChanged(ctx context.Context, r uow.Repos, e *event.RoleAdminChanged) error {
	if _, err := u.ensureVault(ctx, r, e.Timestamp); err != nil {
		return err
	}
	role, err := u.findOrCreateRole(ctx, r, e.Role, e.Timestamp)
	if err != nil {
		return err
	}

	created, err := r.RoleEvents.CreateIfAbsent(ctx, &accesscontrol.RoleEvent{
		ID:            id.ForLog(id.Compose(role.ID, string(accesscontrol.EventAdminChanged)), txHashHex(e.Meta), e.LogIndex),
		RoleID:        role.ID,
		EventType:     accesscontrol.EventAdminChanged,
		AdminRoleHash: strptr(e.NewAdminRole.Hex()),
		AdminRoleName: strptr(accesscontrol.RoleName(e.NewAdminRole)),
		TxHash:        txHashHex(e.Meta),
		BlockNumber:   e.BlockNumber,
		Timestamp:     e.Timestamp,
	})
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	role.AdminRoleHash = e.NewAdminRole.Hex()
	role.AdminRoleName = accesscontrol.RoleName(e.NewAdminRole)
	role.UpdatedAt = e.Timestamp
	return r.Roles.Save(ctx, role)
}
