package domain

import (
	"context"
	"fmt"
	"regexp"
)

// RolePattern decides which role names grant tag management access.
// A role matches only if the whole name matches the expression.
type RolePattern struct {
	expr string
	re   *regexp.Regexp
}

// NewRolePattern compiles expr as a full-match role name pattern.
func NewRolePattern(expr string) (RolePattern, error) {
	re, err := regexp.Compile(`^(?:` + expr + `)$`)
	if err != nil {
		return RolePattern{}, fmt.Errorf("%w: role pattern %q: %v", ErrInvalidInput, expr, err)
	}
	return RolePattern{expr: expr, re: re}, nil
}

// Matches reports whether name satisfies the pattern. The zero RolePattern matches nothing.
func (p RolePattern) Matches(name string) bool {
	if p.re == nil {
		return false
	}
	return p.re.MatchString(name)
}

func (p RolePattern) String() string {
	return p.expr
}

// RoleDirectory resolves the platform's role ids to role names.
type RoleDirectory interface {
	GuildRoleNames(ctx context.Context, guildID string) (map[string]string, error)
}
