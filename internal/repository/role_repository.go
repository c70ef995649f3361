package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// Role is a named permission bundle persisted in the 'roles' table.
type Role struct {
	ID   uint64
	Name string
}

// Permission is a named capability persisted in the 'permissions' table.
type Permission struct {
	ID   uint64
	Name string
}

// RoleRepo encapsulates role, permission and membership queries. The model is
// flat: user -> role -> permission, no role hierarchy.
type RoleRepo struct{ DB *sql.DB }

func NewRoleRepo(db *sql.DB) *RoleRepo { return &RoleRepo{DB: db} }

// GetRoleByName fetches a role by its unique name.
func (r *RoleRepo) GetRoleByName(ctx context.Context, name string) (Role, error) {
	var role Role
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name FROM roles WHERE name=? LIMIT 1", name).Scan(&role.ID, &role.Name)
	return role, err
}

// EnsureRole returns the role with the given name, creating it when absent.
// A concurrent insert racing on the unique name is resolved by re-reading.
func (r *RoleRepo) EnsureRole(ctx context.Context, name string) (Role, error) {
	name = strings.TrimSpace(name)
	role, err := r.GetRoleByName(ctx, name)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Role{}, err
	}
	res, err := r.DB.ExecContext(ctx, "INSERT INTO roles (name) VALUES (?)", name)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return r.GetRoleByName(ctx, name)
		}
		return Role{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Role{}, err
	}
	return Role{ID: uint64(id), Name: name}, nil
}

// EnsurePermission returns the permission with the given name, creating it
// when absent. Same race handling as EnsureRole.
func (r *RoleRepo) EnsurePermission(ctx context.Context, name string) (Permission, error) {
	name = strings.TrimSpace(name)
	var p Permission
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name FROM permissions WHERE name=? LIMIT 1", name).Scan(&p.ID, &p.Name)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Permission{}, err
	}
	res, err := r.DB.ExecContext(ctx, "INSERT INTO permissions (name) VALUES (?)", name)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			err = r.DB.QueryRowContext(ctx,
				"SELECT id,name FROM permissions WHERE name=? LIMIT 1", name).Scan(&p.ID, &p.Name)
			return p, err
		}
		return Permission{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Permission{}, err
	}
	return Permission{ID: uint64(id), Name: name}, nil
}

// AssignRole links a user to a role, creating the role first when it does not
// exist. Assigning an already-held role is a no-op returning the existing
// role, enforced by INSERT IGNORE against the composite primary key.
func (r *RoleRepo) AssignRole(ctx context.Context, userID, roleName string) (Role, error) {
	role, err := r.EnsureRole(ctx, roleName)
	if err != nil {
		return Role{}, err
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT IGNORE INTO user_roles (user_id, role_id) VALUES (?,?)", userID, role.ID)
	if err != nil {
		return Role{}, err
	}
	return role, nil
}

// GrantPermission links a role to a permission, creating either side when
// absent. Idempotent like AssignRole.
func (r *RoleRepo) GrantPermission(ctx context.Context, roleName, permName string) (Role, Permission, error) {
	role, err := r.EnsureRole(ctx, roleName)
	if err != nil {
		return Role{}, Permission{}, err
	}
	perm, err := r.EnsurePermission(ctx, permName)
	if err != nil {
		return Role{}, Permission{}, err
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT IGNORE INTO role_permissions (role_id, permission_id) VALUES (?,?)", role.ID, perm.ID)
	if err != nil {
		return Role{}, Permission{}, err
	}
	return role, perm, nil
}

// ListUserRoles returns the names of all roles directly assigned to a user.
// One hop, no inheritance.
func (r *RoleRepo) ListUserRoles(ctx context.Context, userID string) ([]string, error) {
	const q = `SELECT r.name FROM roles r
	           JOIN user_roles ur ON ur.role_id = r.id
	           WHERE ur.user_id = ? ORDER BY r.name`
	return r.listNames(ctx, q, userID)
}

// ListUserPermissions returns the de-duplicated permission names reachable
// via user -> role -> role_permission -> permission.
func (r *RoleRepo) ListUserPermissions(ctx context.Context, userID string) ([]string, error) {
	const q = `SELECT DISTINCT p.name FROM permissions p
	           JOIN role_permissions rp ON rp.permission_id = p.id
	           JOIN user_roles ur ON ur.role_id = rp.role_id
	           WHERE ur.user_id = ? ORDER BY p.name`
	return r.listNames(ctx, q, userID)
}

func (r *RoleRepo) listNames(ctx context.Context, query, userID string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
