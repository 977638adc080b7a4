// Package authz is the capability check: may a role perform an action on
// an object. Policies come from configuration, one per line:
//
//	p, ACCESSOR, notification:inbox, read
//	g, QUALIFYING_ACCESSOR, ACCESSOR
package authz

import (
	"errors"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

var ErrInvalidPolicy = errors.New("authz: invalid policy line")

// Enforcer is satisfied by *casbin.Enforcer.
type Enforcer interface {
	Enforce(rvals ...any) (bool, error)
}

// New builds an in-memory enforcer. A line without a leading "p" or "g"
// is read as a policy.
func New(lines []string) (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, line := range lines {
		fields := strings.Split(line, ",")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}

		kind := "p"
		if fields[0] == "p" || fields[0] == "g" {
			kind, fields = fields[0], fields[1:]
		}

		switch {
		case kind == "p" && len(fields) == 3:
			_, err = e.AddPolicy(fields[0], fields[1], fields[2])
		case kind == "g" && len(fields) == 2:
			_, err = e.AddGroupingPolicy(fields[0], fields[1])
		default:
			err = fmt.Errorf("%w: %q", ErrInvalidPolicy, line)
		}
		if err != nil {
			return nil, err
		}
	}

	return e, nil
}
