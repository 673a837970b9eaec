package docstore

import (
	"blogcms/internal/entity"
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestConnectionURI(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"explicit", Options{URI: "mongodb://db:27017/?replicaSet=rs0", Addr: "ignored"}, "mongodb://db:27017/?replicaSet=rs0"},
		{"anonymous", Options{Addr: "10.0.0.5:27017"}, "mongodb://10.0.0.5:27017"},
		{"default addr", Options{}, "mongodb://127.0.0.1:27017"},
		{"credentials", Options{Addr: "db:27017", User: "blog", Password: "p@ss"}, "mongodb://blog:p%40ss@db:27017/?authSource=admin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.opts.ConnectionURI())
		})
	}
}

func TestBuildUpdate(t *testing.T) {
	tests := []struct {
		name  string
		patch interface{}
		want  interface{}
	}{
		{"plain map", bson.M{"title": "A"}, bson.M{"$set": bson.M{"title": "A"}}},
		{"operator map", bson.M{"$inc": bson.M{"views": 1}}, bson.M{"$inc": bson.M{"views": 1}}},
		{"operator doc", bson.D{{Key: "$unset", Value: "x"}}, bson.D{{Key: "$unset", Value: "x"}}},
		{"struct", entity.BlogContent{BlogID: 1}, bson.M{"$set": entity.BlogContent{BlogID: 1}}},
		{"nil", nil, bson.M{"$set": bson.M{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildUpdate(tt.patch)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("buildUpdate() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestUnreachableServerDegradesToSoftFailure(t *testing.T) {
	ctx := context.Background()
	client := New(ctx, Options{URI: "mongodb://127.0.0.1:1/?directConnection=true", Timeout: 200 * time.Millisecond})
	defer client.Close(ctx)

	content := entity.BlogContent{BlogID: 1, Title: "A", Content: "body"}

	assert.False(t, client.Ping(ctx))
	assert.False(t, client.InsertContent(ctx, content))
	_, found := client.FindContent(ctx, 1)
	assert.False(t, found)
	assert.False(t, client.UpsertContent(ctx, content))
	assert.False(t, client.DeleteOne(ctx, ContentCollection, bson.M{"blogId": 1}))
	assert.Equal(t, int64(0), client.Count(ctx, ContentCollection, nil))

	var page []entity.BlogContent
	assert.False(t, client.FindPage(ctx, ContentCollection, nil, 0, 10, "blogId", 1, &page))
}
