package user

import "context"

type Repository interface {
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id int64) (User, bool, error)
	Count(ctx context.Context) (int, error)
}
