package entity

import "encoding/json"

// DepartmentParams carries every field of a Department.
type DepartmentParams struct {
	DeptCode       string  `json:"dept_code"`
	DeptName       string  `json:"dept_nm"`
	ParentDeptCode *string `json:"prnt_dept_code"`
	Audit
}

// Department is a node of the organization tree. The parent link is a plain
// code and is not checked against existing departments.
type Department struct {
	deptCode       string
	deptName       string
	parentDeptCode *string
	auditTrail
}

func NewDepartment(p DepartmentParams) Department {
	return Department{
		deptCode:       p.DeptCode,
		deptName:       p.DeptName,
		parentDeptCode: cloneString(p.ParentDeptCode),
		auditTrail:     newAuditTrail(p.Audit),
	}
}

func (d Department) DeptCode() string        { return d.deptCode }
func (d Department) DeptName() string        { return d.deptName }
func (d Department) ParentDeptCode() *string { return cloneString(d.parentDeptCode) }

// IsRoot reports whether the department has no parent.
func (d Department) IsRoot() bool {
	return d.parentDeptCode == nil || *d.parentDeptCode == ""
}

func (d Department) Params() DepartmentParams {
	return DepartmentParams{
		DeptCode:       d.deptCode,
		DeptName:       d.deptName,
		ParentDeptCode: cloneString(d.parentDeptCode),
		Audit:          d.Audit(),
	}
}

func (d Department) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Params())
}

func (d *Department) UnmarshalJSON(data []byte) error {
	var p DepartmentParams
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*d = NewDepartment(p)
	return nil
}
