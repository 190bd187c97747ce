package repositories

import (
	"context"
	"log/slog"

	"github.com/blugelabs/bluge"
)

// PostIndex maintains a bluge full-text index next to the Badger
// documents. Posts are indexed on creation and removed on deletion; the
// index stores only identifiers, the documents stay in Badger.
type PostIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewPostIndex(writer *bluge.Writer, log *slog.Logger) *PostIndex {
	return &PostIndex{writer: writer, log: log}
}

func (x *PostIndex) Index(post Post) error {
	doc := bluge.NewDocument(post.ID).
		AddField(bluge.NewTextField("text", post.Text)).
		AddField(bluge.NewKeywordField("author", post.UserID))
	return x.writer.Update(doc.ID(), doc)
}

func (x *PostIndex) Remove(id string) error {
	return x.writer.Delete(bluge.Identifier(id))
}

// Search returns the identifiers of the posts matching the query terms,
// best match first, capped at limit.
func (x *PostIndex) Search(ctx context.Context, terms string, limit int) ([]string, error) {
	reader, err := x.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			x.log.Warn("failed to close index reader", "error", err)
		}
	}()

	query := bluge.NewMatchQuery(terms).SetField("text")
	request := bluge.NewTopNSearch(limit, query)

	iterator, err := reader.Search(ctx, request)
	if err != nil {
		return nil, err
	}

	var ids []string
	match, err := iterator.Next()
	for err == nil && match != nil {
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				ids = append(ids, string(value))
			}
			return true
		})
		if visitErr != nil {
			return nil, visitErr
		}
		match, err = iterator.Next()
	}
	if err != nil {
		return nil, err
	}
	return ids, nil
}
