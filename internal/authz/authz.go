package authz

import "qrstore/internal/domain/model"

// 認証済みの呼び出し主。JWT検証ミドルウェアがcontextに積む。
type Principal struct {
	UserID int64
	Email  string
	Role   model.Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == model.RoleAdmin
}

// owner-or-admin の判定はここに一本化する。
// 各handler/usecaseが個別にroleを見ると判定がばらつくため。
func CanAccess(p Principal, ownerID int64) bool {
	if p.IsAdmin() {
		return true
	}
	return p.UserID == ownerID
}
