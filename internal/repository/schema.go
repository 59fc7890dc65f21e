package repository

import (
	"fmt"
	"strings"
)

// Column maps an entity field to its column.
type Column struct {
	Field string
	Name  string
}

// Table is the persisted schema contract of one entity. Keys and Columns are
// listed in the order values are bound and scanned.
type Table struct {
	Name    string
	Keys    []Column
	Columns []Column
}

var auditColumns = []Column{
	{Field: "RegisteredBy", Name: "reg_ps_id"},
	{Field: "RegisteredAt", Name: "reg_dtm"},
	{Field: "UpdatedBy", Name: "upd_ps_id"},
	{Field: "UpdatedAt", Name: "upd_dtm"},
	{Field: "DeleteFlag", Name: "del_at"},
}

var (
	DepartmentTable = Table{
		Name: "tbl_department_info",
		Keys: []Column{{Field: "DeptCode", Name: "dept_code"}},
		Columns: concat(
			[]Column{{Field: "DeptName", Name: "dept_nm"}},
			auditColumns,
			[]Column{{Field: "ParentDeptCode", Name: "prnt_dept_code"}},
		),
	}

	PositionTable = Table{
		Name: "tbl_position_info",
		Keys: []Column{{Field: "PstCode", Name: "pst_code"}},
		Columns: concat(
			[]Column{{Field: "PstName", Name: "pst_nm"}, {Field: "Sno", Name: "sno"}},
			auditColumns,
		),
	}

	DeptPosRelTable = Table{
		Name: "tbl_dept_pos_rel",
		Keys: []Column{{Field: "UserPid", Name: "user_pid"}, {Field: "DeptCode", Name: "dept_code"}},
		Columns: []Column{
			{Field: "PstCode", Name: "pst_code"},
			{Field: "GnfdYmd", Name: "gnfd_ymd"},
			{Field: "Prrk", Name: "prrk"},
		},
	}

	UserTable = Table{
		Name: "tbl_user_info",
		Keys: []Column{{Field: "UserPid", Name: "user_pid"}},
		Columns: concat(
			[]Column{{Field: "UserID", Name: "user_id"}, {Field: "UserName", Name: "user_nm"}, {Field: "Email", Name: "email"}},
			auditColumns,
		),
	}
)

func concat(groups ...[]Column) []Column {
	var out []Column
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// All returns key columns followed by the remaining columns.
func (t Table) All() []Column {
	return concat(t.Keys, t.Columns)
}

// ColumnFor returns the column name mapped to an entity field.
func (t Table) ColumnFor(field string) (string, bool) {
	for _, c := range t.All() {
		if c.Field == field {
			return c.Name, true
		}
	}
	return "", false
}

func names(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Name
	}
	return out
}

func (t Table) keyCondition() string {
	conds := make([]string, len(t.Keys))
	for i, k := range t.Keys {
		conds[i] = fmt.Sprintf("%s = $%d", k.Name, i+1)
	}
	return strings.Join(conds, " AND ")
}

func (t Table) SelectByKeySQL() string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s",
		strings.Join(names(t.All()), ", "), t.Name, t.keyCondition())
}

func (t Table) SelectAllSQL() string {
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		strings.Join(names(t.All()), ", "), t.Name, strings.Join(names(t.Keys), ", "))
}

// UpsertSQL inserts a row or overwrites every non-key column of the row with
// the same key.
func (t Table) UpsertSQL() string {
	all := t.All()
	placeholders := make([]string, len(all))
	for i := range all {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	action := "NOTHING"
	if len(t.Columns) > 0 {
		sets := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			sets[i] = fmt.Sprintf("%s = EXCLUDED.%s", c.Name, c.Name)
		}
		action = "UPDATE SET " + strings.Join(sets, ", ")
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO %s",
		t.Name,
		strings.Join(names(all), ", "),
		strings.Join(placeholders, ", "),
		strings.Join(names(t.Keys), ", "),
		action,
	)
}

func (t Table) DeleteSQL() string {
	return fmt.Sprintf("DELETE FROM %s WHERE %s", t.Name, t.keyCondition())
}
