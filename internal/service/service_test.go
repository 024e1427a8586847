package service

import (
	"context"

	"myblog/internal/model"
)

type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var (
	adminUser  = model.User{ID: 1, Name: "admin", Email: "admin@example.com", Role: model.RoleAdmin}
	memberUser = model.User{ID: 2, Name: "member", Email: "member@example.com", Role: model.RoleMember}
)
