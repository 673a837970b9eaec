package docstore

import (
	"blogcms/internal/entity"
	"context"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ContentCollection holds one BlogContent document per post.
const ContentCollection = "blogs"

func contentFilter(blogID uint) bson.M {
	return bson.M{"blogId": blogID}
}

// InsertContent stores the body of a freshly created post.
func (c *Client) InsertContent(ctx context.Context, content entity.BlogContent) bool {
	return c.InsertOne(ctx, ContentCollection, content)
}

// FindContent loads the body of a post by its id.
func (c *Client) FindContent(ctx context.Context, blogID uint) (*entity.BlogContent, bool) {
	var content entity.BlogContent
	if !c.FindOne(ctx, ContentCollection, contentFilter(blogID), &content) {
		return nil, false
	}
	return &content, true
}

// UpsertContent writes the body keyed by blogId, creating the document if
// it does not exist yet.
func (c *Client) UpsertContent(ctx context.Context, content entity.BlogContent) bool {
	patch := bson.M{"title": content.Title, "content": content.Content}
	return c.UpdateOne(ctx, ContentCollection, contentFilter(content.BlogID), patch, true)
}

// EnsureIndexes creates the unique blogId index on the content collection.
func (c *Client) EnsureIndexes(ctx context.Context) bool {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	coll, err := c.collection(ctx, ContentCollection)
	if err != nil {
		logFailure(err, "create_index", ContentCollection)
		return false
	}
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "blogId", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_blog_id"),
	}
	if _, err := coll.Indexes().CreateOne(ctx, model); err != nil {
		logFailure(err, "create_index", ContentCollection)
		return false
	}
	logrus.WithField("collection", ContentCollection).Debug("docstore: indexes ensured")
	return true
}
