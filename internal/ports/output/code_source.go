package output

import "context"

// CodeSource turns an uploaded code file into raw rows (first cell of each row).
type CodeSource interface {
	Fetch(ctx context.Context, filename, url string) ([]string, error)
}
