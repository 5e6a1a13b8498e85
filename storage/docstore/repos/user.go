package docrepos

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/tspagiari/oficinas/core"
	"github.com/tspagiari/oficinas/core/user"
)

const userCollection = "users"

func userPath(id string) string { return fmt.Sprintf("%s/%s", userCollection, id) }

type UserRepo struct {
	store core.DocStore
}

var _ user.Repository = (*UserRepo)(nil)

func NewUserRepo(store core.DocStore) *UserRepo {
	return &UserRepo{store: store}
}

func (repo *UserRepo) CreateUser(ctx context.Context, usr user.User) error {
	return repo.store.Write(ctx, userPath(usr.ID), usr)
}

func (repo *UserRepo) GetUserByID(ctx context.Context, id string) (user.User, error) {
	var usr user.User
	err := core.ReadRetry(ctx, func() error {
		return repo.store.Read(ctx, userPath(id), &usr)
	})
	if errors.Cause(err) == core.ErrDocAbsent {
		return user.User{}, user.ErrNotFound
	}
	return usr, err
}
