package entity

import "encoding/json"

type UserParams struct {
	UserPid  int64  `json:"user_pid"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_nm"`
	Email    string `json:"email"`
	Audit
}

// User is referenced by DeptPosRel through UserPid.
type User struct {
	userPid  int64
	userID   string
	userName string
	email    string
	auditTrail
}

func NewUser(p UserParams) User {
	return User{
		userPid:    p.UserPid,
		userID:     p.UserID,
		userName:   p.UserName,
		email:      p.Email,
		auditTrail: newAuditTrail(p.Audit),
	}
}

func (u User) UserPid() int64   { return u.userPid }
func (u User) UserID() string   { return u.userID }
func (u User) UserName() string { return u.userName }
func (u User) Email() string    { return u.email }

func (u User) Params() UserParams {
	return UserParams{
		UserPid:  u.userPid,
		UserID:   u.userID,
		UserName: u.userName,
		Email:    u.email,
		Audit:    u.Audit(),
	}
}

func (u User) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.Params())
}

func (u *User) UnmarshalJSON(data []byte) error {
	var p UserParams
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*u = NewUser(p)
	return nil
}
