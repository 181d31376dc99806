package tag

import "context"

// Repository định nghĩa contract cho tag data access
type Repository interface {
	ListNames(ctx context.Context) ([]string, error)
}
