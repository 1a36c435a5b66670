package ast

type (
	ExprID uint32
	TypeID uint32
)

const (
	NoExprID ExprID = 0
	NoTypeID TypeID = 0
)

func (id ExprID) IsValid() bool { return id != NoExprID }
func (id TypeID) IsValid() bool { return id != NoTypeID }
