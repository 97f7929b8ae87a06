package output

import "context"

type BanRepository interface {
	IsBanned(ctx context.Context, userID string) (bool, error)
}
