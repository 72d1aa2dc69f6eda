package usecase

import (
	"context"
	"net/http"
	"strings"

	"qrstore/internal/authz"
	"qrstore/internal/domain/model"
	repo "qrstore/internal/repository"
)

// UserUsecase はユーザー管理（一覧・更新・削除）の業務ロジック。
type UserUsecase struct {
	userRepo repo.UserRepository
	hasher   PasswordHasher
}

func NewUserUsecase(userRepo repo.UserRepository, hasher PasswordHasher) *UserUsecase {
	return &UserUsecase{userRepo: userRepo, hasher: hasher}
}

type UpdateUserInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Role    string `json:"role"`
}

type UpdatePasswordInput struct {
	NewPassword string `json:"newPassword"`
}

// 全ユーザー一覧（管理者のみ）
func (u *UserUsecase) List(ctx context.Context, p authz.Principal) ([]model.User, error) {
	if !p.IsAdmin() {
		return nil, NewHTTPError(http.StatusForbidden, "admin only")
	}

	users, err := u.userRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return users, nil
}

// ユーザー取得（管理者のみ）
func (u *UserUsecase) Get(ctx context.Context, p authz.Principal, id int64) (model.User, error) {
	if !p.IsAdmin() {
		return model.User{}, NewHTTPError(http.StatusForbidden, "admin only")
	}
	if id <= 0 {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	user, err := u.userRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return model.User{}, NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return user, nil
}

// プロフィール更新（本人または管理者）。roleの変更は管理者だけ。
func (u *UserUsecase) Update(ctx context.Context, p authz.Principal, id int64, in UpdateUserInput) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if !authz.CanAccess(p, id) {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}

	fields := map[string]interface{}{}
	if strings.TrimSpace(in.Name) != "" {
		fields["name"] = in.Name
	}
	if in.Phone != "" {
		fields["phone"] = in.Phone
	}
	if in.Address != "" {
		fields["address"] = in.Address
	}
	if in.Role != "" {
		if !p.IsAdmin() {
			return NewHTTPError(http.StatusForbidden, "only admins can change roles")
		}
		if in.Role != string(model.RoleUser) && in.Role != string(model.RoleAdmin) {
			return NewHTTPError(http.StatusBadRequest, "invalid role")
		}
		fields["role"] = in.Role
	}

	if len(fields) == 0 {
		return NewHTTPError(http.StatusBadRequest, "no fields to update")
	}

	err := u.userRepo.Update(ctx, id, fields)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// パスワード更新（本人または管理者）
func (u *UserUsecase) UpdatePassword(ctx context.Context, p authz.Principal, id int64, in UpdatePasswordInput) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if !authz.CanAccess(p, id) {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if len(in.NewPassword) < 8 {
		return NewHTTPError(http.StatusBadRequest, "password must be at least 8 characters")
	}

	hashed, err := u.hasher.Hash(in.NewPassword)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	err = u.userRepo.UpdatePassword(ctx, id, hashed)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// ユーザー削除（管理者のみ）
func (u *UserUsecase) Delete(ctx context.Context, p authz.Principal, id int64) error {
	if !p.IsAdmin() {
		return NewHTTPError(http.StatusForbidden, "admin only")
	}
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.userRepo.Delete(ctx, id)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
