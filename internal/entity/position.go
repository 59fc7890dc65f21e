package entity

import "encoding/json"

type PositionParams struct {
	PstCode string `json:"pst_code"`
	PstName string `json:"pst_nm"`
	Sno     int32  `json:"sno"`
	Audit
}

// Position is a flat lookup entry; Sno orders positions for display.
type Position struct {
	pstCode string
	pstName string
	sno     int32
	auditTrail
}

func NewPosition(p PositionParams) Position {
	return Position{
		pstCode:    p.PstCode,
		pstName:    p.PstName,
		sno:        p.Sno,
		auditTrail: newAuditTrail(p.Audit),
	}
}

func (p Position) PstCode() string { return p.pstCode }
func (p Position) PstName() string { return p.pstName }
func (p Position) Sno() int32      { return p.sno }

func (p Position) Params() PositionParams {
	return PositionParams{
		PstCode: p.pstCode,
		PstName: p.pstName,
		Sno:     p.sno,
		Audit:   p.Audit(),
	}
}

func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Params())
}

func (p *Position) UnmarshalJSON(data []byte) error {
	var params PositionParams
	if err := json.Unmarshal(data, &params); err != nil {
		return err
	}
	*p = NewPosition(params)
	return nil
}
