package entity

import (
	"encoding/json"
	"fmt"
	"time"
)

// DeptPosRelKey identifies a DeptPosRel. It is a comparable value, so two keys
// with the same user and department are == and hash to the same map slot.
type DeptPosRelKey struct {
	UserPid  int64  `json:"user_pid"`
	DeptCode string `json:"dept_code"`
}

func NewDeptPosRelKey(userPid int64, deptCode string) DeptPosRelKey {
	return DeptPosRelKey{UserPid: userPid, DeptCode: deptCode}
}

func (k DeptPosRelKey) String() string {
	return fmt.Sprintf("%d:%s", k.UserPid, k.DeptCode)
}

type DeptPosRelParams struct {
	UserPid  int64     `json:"user_pid"`
	DeptCode string    `json:"dept_code"`
	PstCode  string    `json:"pst_code"`
	GnfdYmd  time.Time `json:"gnfd_ymd"`
	Prrk     int32     `json:"prrk"`
}

// DeptPosRel assigns a user to a department with a position, effective from
// GnfdYmd. Prrk ranks the assignment among the user's departments.
type DeptPosRel struct {
	userPid  int64
	deptCode string
	pstCode  string
	gnfdYmd  time.Time
	prrk     int32
}

func NewDeptPosRel(p DeptPosRelParams) DeptPosRel {
	return DeptPosRel{
		userPid:  p.UserPid,
		deptCode: p.DeptCode,
		pstCode:  p.PstCode,
		gnfdYmd:  p.GnfdYmd,
		prrk:     p.Prrk,
	}
}

func (r DeptPosRel) UserPid() int64     { return r.userPid }
func (r DeptPosRel) DeptCode() string   { return r.deptCode }
func (r DeptPosRel) PstCode() string    { return r.pstCode }
func (r DeptPosRel) GnfdYmd() time.Time { return r.gnfdYmd }
func (r DeptPosRel) Prrk() int32        { return r.prrk }

func (r DeptPosRel) Key() DeptPosRelKey {
	return NewDeptPosRelKey(r.userPid, r.deptCode)
}

func (r DeptPosRel) Params() DeptPosRelParams {
	return DeptPosRelParams{
		UserPid:  r.userPid,
		DeptCode: r.deptCode,
		PstCode:  r.pstCode,
		GnfdYmd:  r.gnfdYmd,
		Prrk:     r.prrk,
	}
}

func (r DeptPosRel) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Params())
}

func (r *DeptPosRel) UnmarshalJSON(data []byte) error {
	var p DeptPosRelParams
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = NewDeptPosRel(p)
	return nil
}
