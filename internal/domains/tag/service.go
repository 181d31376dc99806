package tag

import "context"

// Service định nghĩa business operations cho tag domain
type Service interface {
	// ListTags trả về tất cả tag names (cached)
	ListTags(ctx context.Context) ([]string, error)

	// InvalidateTagList drop cached tag list - gọi sau mỗi write chạm tags
	InvalidateTagList(ctx context.Context) error
}
