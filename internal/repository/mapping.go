package repository

import (
	"cmp"
	"strings"

	"github.com/adamanr/org_registry/internal/entity"
	"github.com/jackc/pgx/v5"
)

// mapper binds an entity type to its Table. values and scan follow Table.All order.
type mapper[K comparable, E any] struct {
	table   Table
	key     func(E) K
	keyArgs func(K) []any
	emptyID func(K) bool
	compare func(a, b K) int
	values  func(E) []any
	scan    func(row pgx.Row) (E, error)
}

func auditValues(a entity.Audit) []any {
	return []any{a.RegisteredBy, a.RegisteredAt, a.UpdatedBy, a.UpdatedAt, string(a.DeleteFlag)}
}

// nullCols collects scan targets for non-key columns, any of which may hold
// NULL in legacy rows. NULL leaves the destination at its zero value.
type nullCols struct {
	fill []func()
}

func nullable[T any](n *nullCols, dst *T) any {
	var v *T
	n.fill = append(n.fill, func() {
		var zero T
		*dst = zero
		if v != nil {
			*dst = *v
		}
	})
	return &v
}

func (n *nullCols) apply() {
	for _, f := range n.fill {
		f()
	}
}

// auditTargets scans del_at through flag; the caller converts it after apply.
func auditTargets(n *nullCols, a *entity.Audit, flag *string) []any {
	return []any{
		nullable(n, &a.RegisteredBy),
		nullable(n, &a.RegisteredAt),
		&a.UpdatedBy,
		&a.UpdatedAt,
		nullable(n, flag),
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

var departmentMapper = mapper[string, entity.Department]{
	table:   DepartmentTable,
	key:     entity.Department.DeptCode,
	keyArgs: func(code string) []any { return []any{code} },
	emptyID: blank,
	compare: cmp.Compare[string],
	values: func(d entity.Department) []any {
		p := d.Params()
		args := []any{p.DeptCode, p.DeptName}
		args = append(args, auditValues(p.Audit)...)
		return append(args, p.ParentDeptCode)
	},
	scan: func(row pgx.Row) (entity.Department, error) {
		var (
			p    entity.DepartmentParams
			n    nullCols
			flag string
		)
		dest := []any{&p.DeptCode, nullable(&n, &p.DeptName)}
		dest = append(dest, auditTargets(&n, &p.Audit, &flag)...)
		dest = append(dest, &p.ParentDeptCode)

		if err := row.Scan(dest...); err != nil {
			return entity.Department{}, err
		}
		n.apply()
		p.DeleteFlag = entity.DeletionFlag(flag)
		return entity.NewDepartment(p), nil
	},
}

var positionMapper = mapper[string, entity.Position]{
	table:   PositionTable,
	key:     entity.Position.PstCode,
	keyArgs: func(code string) []any { return []any{code} },
	emptyID: blank,
	compare: cmp.Compare[string],
	values: func(pos entity.Position) []any {
		p := pos.Params()
		args := []any{p.PstCode, p.PstName, p.Sno}
		return append(args, auditValues(p.Audit)...)
	},
	scan: func(row pgx.Row) (entity.Position, error) {
		var (
			p    entity.PositionParams
			n    nullCols
			flag string
		)
		dest := []any{&p.PstCode, nullable(&n, &p.PstName), nullable(&n, &p.Sno)}
		dest = append(dest, auditTargets(&n, &p.Audit, &flag)...)

		if err := row.Scan(dest...); err != nil {
			return entity.Position{}, err
		}
		n.apply()
		p.DeleteFlag = entity.DeletionFlag(flag)
		return entity.NewPosition(p), nil
	},
}

var deptPosRelMapper = mapper[entity.DeptPosRelKey, entity.DeptPosRel]{
	table:   DeptPosRelTable,
	key:     entity.DeptPosRel.Key,
	keyArgs: func(k entity.DeptPosRelKey) []any { return []any{k.UserPid, k.DeptCode} },
	emptyID: func(k entity.DeptPosRelKey) bool { return k.UserPid == 0 || blank(k.DeptCode) },
	compare: func(a, b entity.DeptPosRelKey) int {
		if c := cmp.Compare(a.UserPid, b.UserPid); c != 0 {
			return c
		}
		return cmp.Compare(a.DeptCode, b.DeptCode)
	},
	values: func(r entity.DeptPosRel) []any {
		p := r.Params()
		return []any{p.UserPid, p.DeptCode, p.PstCode, p.GnfdYmd, p.Prrk}
	},
	scan: func(row pgx.Row) (entity.DeptPosRel, error) {
		var (
			p entity.DeptPosRelParams
			n nullCols
		)
		dest := []any{
			&p.UserPid,
			&p.DeptCode,
			nullable(&n, &p.PstCode),
			nullable(&n, &p.GnfdYmd),
			nullable(&n, &p.Prrk),
		}
		if err := row.Scan(dest...); err != nil {
			return entity.DeptPosRel{}, err
		}
		n.apply()
		return entity.NewDeptPosRel(p), nil
	},
}

var userMapper = mapper[int64, entity.User]{
	table:   UserTable,
	key:     entity.User.UserPid,
	keyArgs: func(pid int64) []any { return []any{pid} },
	emptyID: func(pid int64) bool { return pid == 0 },
	compare: cmp.Compare[int64],
	values: func(u entity.User) []any {
		p := u.Params()
		args := []any{p.UserPid, p.UserID, p.UserName, p.Email}
		return append(args, auditValues(p.Audit)...)
	},
	scan: func(row pgx.Row) (entity.User, error) {
		var (
			p    entity.UserParams
			n    nullCols
			flag string
		)
		dest := []any{&p.UserPid, nullable(&n, &p.UserID), nullable(&n, &p.UserName), nullable(&n, &p.Email)}
		dest = append(dest, auditTargets(&n, &p.Audit, &flag)...)

		if err := row.Scan(dest...); err != nil {
			return entity.User{}, err
		}
		n.apply()
		p.DeleteFlag = entity.DeletionFlag(flag)
		return entity.NewUser(p), nil
	},
}
