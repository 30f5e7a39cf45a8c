package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Role 用户角色
type Role string

const (
	RoleUser    Role = "user"
	RoleArtist  Role = "artist"
	RolePremium Role = "premium"
)

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleUser, RoleArtist, RolePremium:
		return r, true
	}
	return "", false
}

// RoleSet 角色集合，以 JSON 数组形式存储
type RoleSet []Role

// Has reports whether the set contains r.
func (s RoleSet) Has(r Role) bool {
	for _, have := range s {
		if have == r {
			return true
		}
	}
	return false
}

// With returns the set with r added. Roles are never removed.
func (s RoleSet) With(r Role) RoleSet {
	if s.Has(r) {
		return s
	}
	out := make(RoleSet, 0, len(s)+1)
	out = append(out, s...)
	return append(out, r)
}

// Strings returns the role names, for token claims.
func (s RoleSet) Strings() []string {
	out := make([]string, len(s))
	for i, r := range s {
		out[i] = string(r)
	}
	return out
}

// Scan 实现 sql.Scanner 接口
func (s *RoleSet) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported role set column type %T", value)
	}
	if len(bytes) == 0 || string(bytes) == "null" {
		*s = nil
		return nil
	}
	return json.Unmarshal(bytes, s)
}

// Value 实现 driver.Valuer 接口
func (s RoleSet) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
