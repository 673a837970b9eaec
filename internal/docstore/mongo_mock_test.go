package docstore

import (
	"blogcms/internal/entity"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const blogsNS = "test.blogs"

func mockClient(mt *mtest.T) *Client {
	return NewWithDatabase(mt.DB, Options{Timeout: time.Second})
}

func TestContentStoreAgainstMockServer(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("ping", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		assert.True(mt, mockClient(mt).Ping(ctx))
	})

	mt.Run("insert then find content", func(mt *mtest.T) {
		c := mockClient(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateCursorResponse(0, blogsNS, mtest.FirstBatch, bson.D{
				{Key: "blogId", Value: 7},
				{Key: "title", Value: "A"},
				{Key: "content", Value: "body"},
			}),
		)

		require.True(mt, c.InsertContent(ctx, entity.BlogContent{BlogID: 7, Title: "A", Content: "body"}))
		inserted := mt.GetStartedEvent()
		require.NotNil(mt, inserted)
		assert.Equal(mt, "insert", inserted.CommandName)

		doc, ok := c.FindContent(ctx, 7)
		require.True(mt, ok)
		assert.Equal(mt, entity.BlogContent{BlogID: 7, Title: "A", Content: "body"}, *doc)

		find := mt.GetStartedEvent()
		require.NotNil(mt, find)
		assert.Equal(mt, "find", find.CommandName)
		assert.Equal(mt, int64(7), find.Command.Lookup("filter", "blogId").AsInt64())
	})

	mt.Run("duplicate blogId insert degrades to false", func(mt *mtest.T) {
		c := mockClient(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{
				Index:   0,
				Code:    11000,
				Message: "E11000 duplicate key error collection: test.blogs index: uniq_blog_id",
			}),
		)

		assert.True(mt, c.InsertContent(ctx, entity.BlogContent{BlogID: 1, Content: "first"}))
		assert.False(mt, c.InsertContent(ctx, entity.BlogContent{BlogID: 1, Content: "second"}))
	})

	mt.Run("missing content", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, blogsNS, mtest.FirstBatch))
		doc, ok := mockClient(mt).FindContent(ctx, 99)
		assert.False(mt, ok)
		assert.Nil(mt, doc)
	})

	mt.Run("ensure unique blogId index", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		require.True(mt, mockClient(mt).EnsureIndexes(ctx))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "createIndexes", evt.CommandName)
		assert.Equal(mt, ContentCollection, evt.Command.Lookup("createIndexes").StringValue())
		assert.True(mt, evt.Command.Lookup("indexes", "0", "unique").Boolean())
		assert.Equal(mt, "uniq_blog_id", evt.Command.Lookup("indexes", "0", "name").StringValue())
	})

	mt.Run("upsert content", func(mt *mtest.T) {
		c := mockClient(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
			bson.E{Key: "upserted", Value: bson.A{bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: "generated"}}}},
		))
		require.True(mt, c.UpsertContent(ctx, entity.BlogContent{BlogID: 3, Title: "T", Content: "restored"}))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "update", evt.CommandName)
		update := evt.Command.Lookup("updates", "0")
		assert.True(mt, update.Document().Lookup("upsert").Boolean())
		assert.Equal(mt, "restored", update.Document().Lookup("u", "$set", "content").StringValue())
	})

	mt.Run("update without match", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))
		assert.False(mt, mockClient(mt).UpdateOne(ctx, ContentCollection, bson.M{"blogId": 5}, bson.M{"title": "x"}, false))
	})

	mt.Run("find page", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, blogsNS, mtest.FirstBatch,
			bson.D{{Key: "blogId", Value: 2}, {Key: "title", Value: "b"}},
			bson.D{{Key: "blogId", Value: 1}, {Key: "title", Value: "a"}},
		))

		var page []entity.BlogContent
		require.True(mt, mockClient(mt).FindPage(ctx, ContentCollection, nil, 10, 2, "blogId", -1, &page))
		require.Len(mt, page, 2)
		assert.Equal(mt, uint(2), page[0].BlogID)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, int64(10), evt.Command.Lookup("skip").AsInt64())
		assert.Equal(mt, int64(2), evt.Command.Lookup("limit").AsInt64())
		assert.Equal(mt, int64(-1), evt.Command.Lookup("sort", "blogId").AsInt64())
	})

	mt.Run("count and delete", func(mt *mtest.T) {
		c := mockClient(mt)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, blogsNS, mtest.FirstBatch, bson.D{{Key: "_id", Value: 1}, {Key: "n", Value: int64(3)}}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)
		assert.Equal(mt, int64(3), c.Count(ctx, ContentCollection, nil))
		assert.True(mt, c.DeleteOne(ctx, ContentCollection, bson.M{"blogId": 3}))
	})
}
