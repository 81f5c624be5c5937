package accesscontrol

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/royalty-ledger/internal/core/domain"
	"github.com/tdex-network/royalty-ledger/internal/core/ports"
	"gopkg.in/macaroon-bakery.v2/bakery"
	"gopkg.in/macaroon-bakery.v2/bakery/identchecker"
)

// Policy is a role based access control. A caller is allowed to run an
// operation if it belongs to the ACL of every permission the operation
// requires. Callers are identified by their checksummed hex address.
type Policy struct {
	acls       map[bakery.Op]map[string]struct{}
	locker     *sync.RWMutex
	authorizer identchecker.Authorizer
}

// NewPolicy returns a policy granting admin permissions to admins and
// manager permissions to managers.
func NewPolicy(admins, managers []common.Address) *Policy {
	p := &Policy{
		acls:   make(map[bakery.Op]map[string]struct{}),
		locker: &sync.RWMutex{},
	}
	p.authorizer = identchecker.ACLAuthorizer{GetACL: p.getACL}

	for _, admin := range admins {
		p.Grant(admin, AdminPermissions()...)
	}
	for _, manager := range managers {
		p.Grant(manager, ManagerPermissions()...)
	}
	return p
}

var _ ports.AccessControl = (*Policy)(nil)

// Grant adds caller to the ACLs of the given permissions.
func (p *Policy) Grant(caller common.Address, ops ...bakery.Op) {
	p.locker.Lock()
	defer p.locker.Unlock()

	for _, op := range ops {
		if _, ok := p.acls[op]; !ok {
			p.acls[op] = make(map[string]struct{})
		}
		p.acls[op][caller.Hex()] = struct{}{}
	}
}

// Revoke removes caller from every ACL.
func (p *Policy) Revoke(caller common.Address) {
	p.locker.Lock()
	defer p.locker.Unlock()

	for _, members := range p.acls {
		delete(members, caller.Hex())
	}
}

func (p *Policy) Authorize(
	ctx context.Context, caller common.Address, op domain.Operation,
) (bool, error) {
	required, ok := PermissionsByOperation()[op]
	if !ok {
		return false, fmt.Errorf("unknown operation %s", op)
	}

	allowed, _, err := p.authorizer.Authorize(
		ctx, identchecker.SimpleIdentity(caller.Hex()), required,
	)
	if err != nil {
		return false, err
	}

	for i, ok := range allowed {
		if !ok {
			log.Debugf(
				"%s denied to %s: missing %s:%s",
				op, caller.Hex(), required[i].Entity, required[i].Action,
			)
			return false, nil
		}
	}
	return true, nil
}

// getACL returns the callers granted op. No ACL is public.
func (p *Policy) getACL(_ context.Context, op bakery.Op) ([]string, bool, error) {
	p.locker.RLock()
	defer p.locker.RUnlock()

	members := p.acls[op]
	acl := make([]string, 0, len(members))
	for member := range members {
		acl = append(acl, member)
	}
	return acl, false, nil
}
