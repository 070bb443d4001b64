// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package supervisor

import (
	"fmt"
	"sort"
	"strings"
)

// Role is one part of the pipeline a process can serve.
type Role string

const (
	RoleEnricher Role = "enricher"
	RoleTracker  Role = "tracker"
	RoleMailer   Role = "mailer"
	RoleObserver Role = "observer"
	RoleAPI      Role = "api"
)

// AllRoles lists every role in start order.
var AllRoles = []Role{RoleEnricher, RoleTracker, RoleMailer, RoleObserver, RoleAPI}

// Roles is a set of roles.
type Roles map[Role]bool

// ParseRoles reads a comma separated role list. An empty list means every role.
func ParseRoles(list string) (Roles, error) {
	roles := Roles{}
	for _, part := range strings.Split(list, ",") {
		name := Role(strings.ToLower(strings.TrimSpace(part)))
		if name == "" {
			continue
		}
		if !name.valid() {
			return nil, fmt.Errorf("unknown role %q (want one of %s)", name, joinRoles(AllRoles))
		}
		roles[name] = true
	}
	if len(roles) == 0 {
		for _, r := range AllRoles {
			roles[r] = true
		}
	}
	return roles, nil
}

// Has reports whether r is in the set.
func (rs Roles) Has(r Role) bool {
	return rs[r]
}

func (rs Roles) String() string {
	list := make([]Role, 0, len(rs))
	for r := range rs {
		list = append(list, r)
	}
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
	return joinRoles(list)
}

func (r Role) valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

func joinRoles(roles []Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, ",")
}
