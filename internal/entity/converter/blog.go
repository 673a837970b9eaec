package converter

import (
	"blogcms/internal/entity"
)

// BlogToSummary merges a metadata row with the tag ids linked to it.
func BlogToSummary(b *entity.DbBlog, tagIDs []uint) entity.BlogSummary {
	if b == nil {
		return entity.BlogSummary{}
	}
	if tagIDs == nil {
		tagIDs = []uint{}
	}
	return entity.BlogSummary{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Abstract:      b.Abstract,
		Category:      b.Category,
		ViewNum:       b.ViewNum,
		ContentStatus: b.ContentStatus,
		UpdatedAt:     b.UpdatedAt,
		Tag:           tagIDs,
	}
}

// TagsToLookups converts tag rows to id/name pairs.
func TagsToLookups(tags []entity.DbTag) []entity.Lookup {
	out := make([]entity.Lookup, len(tags))
	for i, t := range tags {
		out[i] = entity.Lookup{ID: t.ID, Name: t.Name}
	}
	return out
}

// CategoriesToLookups converts category rows to id/name pairs.
func CategoriesToLookups(categories []entity.DbCategory) []entity.Lookup {
	out := make([]entity.Lookup, len(categories))
	for i, c := range categories {
		out[i] = entity.Lookup{ID: c.ID, Name: c.Name}
	}
	return out
}
