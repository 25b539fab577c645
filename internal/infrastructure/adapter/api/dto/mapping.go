package dto

import (
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	"github.com/google/uuid"
)

// Page maps a page result to its meta block and converted items
func Page[T any, R any](result entity.PageResult[T], convert func(T) R) ([]R, *PageMeta) {
	items := make([]R, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, convert(item))
	}
	return items, &PageMeta{
		Total:   result.Total,
		Limit:   result.Page.Limit,
		Offset:  result.Page.Offset,
		HasMore: result.HasMore(),
	}
}

// List converts a slice with convert
func List[T any, R any](items []T, convert func(T) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, convert(item))
	}
	return out
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func optionalID(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
