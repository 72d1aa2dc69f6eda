package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"qrstore/internal/domain/model"
	"qrstore/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Fake: TokenIssuer
// =====================

type fakeTokenIssuer struct {
	token string
	err   error
}

func (f *fakeTokenIssuer) Issue(user model.User, now time.Time) (string, time.Time, error) {
	if f.err != nil {
		return "", time.Time{}, f.err
	}
	return f.token, now.Add(24 * time.Hour), nil
}

func newAuthUC(userRepo *MockUserRepository, issuer usecase.TokenIssuer) *usecase.AuthUsecase {
	hasher := usecase.NewBcryptPasswordHasher(4) //テストは最小コストで回す
	verifier := usecase.NewBcryptPasswordVerifier()
	return usecase.NewAuthUsecase(userRepo, hasher, verifier, issuer)
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h := usecase.NewBcryptPasswordHasher(4)
	hashed, err := h.Hash(plain)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}
	return hashed
}

// =====================
// Register
// =====================

func TestAuthUsecase_Register_Success(t *testing.T) {
	ctx := context.Background()

	userRepo := new(MockUserRepository)

	email := "user@test.com"

	userRepo.On("FindByEmail", mock.Anything, email).Return(model.User{}, false, nil)

	//roleは必ずuserで保存される
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.Email == email && u.Role == model.RoleUser && u.PasswordHash != ""
	})).Return(model.User{ID: 1, Email: email, Role: model.RoleUser}, nil)

	u := newAuthUC(userRepo, &fakeTokenIssuer{token: "tok"})

	out, err := u.Register(ctx, usecase.RegisterInput{
		Name:     "taro",
		Email:    email,
		Password: "CorrectPW1",
	})
	assert.NoError(t, err)
	assert.Equal(t, email, out.User.Email)

	userRepo.AssertExpectations(t)
}

func TestAuthUsecase_Register_DuplicateEmail(t *testing.T) {
	ctx := context.Background()

	userRepo := new(MockUserRepository)
	userRepo.On("FindByEmail", mock.Anything, "user@test.com").Return(model.User{ID: 1}, true, nil)

	u := newAuthUC(userRepo, &fakeTokenIssuer{token: "tok"})

	_, err := u.Register(ctx, usecase.RegisterInput{
		Name:     "taro",
		Email:    "user@test.com",
		Password: "CorrectPW1",
	})
	assertHTTPStatus(t, err, http.StatusConflict)

	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Register_BadEmail(t *testing.T) {
	ctx := context.Background()

	userRepo := new(MockUserRepository)
	u := newAuthUC(userRepo, &fakeTokenIssuer{token: "tok"})

	_, err := u.Register(ctx, usecase.RegisterInput{
		Name:     "taro",
		Email:    "not-an-email",
		Password: "CorrectPW1",
	})
	assertHTTPStatus(t, err, http.StatusBadRequest)

	userRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Register_ShortPassword(t *testing.T) {
	ctx := context.Background()

	u := newAuthUC(new(MockUserRepository), &fakeTokenIssuer{token: "tok"})

	_, err := u.Register(ctx, usecase.RegisterInput{
		Name:     "taro",
		Email:    "user@test.com",
		Password: "short",
	})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

// =====================
// Login
// =====================

func TestAuthUsecase_Login_Success(t *testing.T) {
	ctx := context.Background()

	userRepo := new(MockUserRepository)

	email := "user@test.com"
	pass := "CorrectPW1"

	userRepo.On("FindByEmail", mock.Anything, email).Return(model.User{
		ID:           1,
		Email:        email,
		PasswordHash: mustHash(t, pass),
		Role:         model.RoleUser,
	}, true, nil)

	u := newAuthUC(userRepo, &fakeTokenIssuer{token: "signed-token"})

	out, err := u.Login(ctx, usecase.LoginInput{Email: email, Password: pass})
	assert.NoError(t, err)
	assert.Equal(t, "signed-token", out.Token)
	assert.Equal(t, email, out.User.Email)
	assert.False(t, out.ExpiresAt.IsZero())

	userRepo.AssertExpectations(t)
}

// パスワード違い。メールが存在するかどうかは教えない。
func TestAuthUsecase_Login_WrongPassword(t *testing.T) {
	ctx := context.Background()

	userRepo := new(MockUserRepository)
	userRepo.On("FindByEmail", mock.Anything, "user@test.com").Return(model.User{
		ID:           1,
		Email:        "user@test.com",
		PasswordHash: mustHash(t, "CorrectPW1"),
	}, true, nil)

	u := newAuthUC(userRepo, &fakeTokenIssuer{token: "tok"})

	_, err := u.Login(ctx, usecase.LoginInput{Email: "user@test.com", Password: "WrongPW99"})
	assertHTTPStatus(t, err, http.StatusUnauthorized)
}

func TestAuthUsecase_Login_UnknownEmail(t *testing.T) {
	ctx := context.Background()

	userRepo := new(MockUserRepository)
	userRepo.On("FindByEmail", mock.Anything, "nobody@test.com").Return(model.User{}, false, nil)

	u := newAuthUC(userRepo, &fakeTokenIssuer{token: "tok"})

	_, err := u.Login(ctx, usecase.LoginInput{Email: "nobody@test.com", Password: "CorrectPW1"})
	assertHTTPStatus(t, err, http.StatusUnauthorized)
}

func TestAuthUsecase_Login_MissingFields(t *testing.T) {
	ctx := context.Background()

	u := newAuthUC(new(MockUserRepository), &fakeTokenIssuer{token: "tok"})

	_, err := u.Login(ctx, usecase.LoginInput{Email: "", Password: ""})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}
