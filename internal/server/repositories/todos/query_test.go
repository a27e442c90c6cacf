package todos

import (
	"testing"

	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestListFilter(t *testing.T) {
	t.Parallel()

	owner := primitive.NewObjectID()
	completed := true
	prio := models.PriorityHigh

	tests := []struct {
		name string
		q    ListQuery
		want bson.M
	}{
		{
			name: "owner only",
			q:    ListQuery{},
			want: bson.M{"userId": owner},
		},
		{
			name: "completed filter is conjoined with owner",
			q:    ListQuery{Completed: &completed},
			want: bson.M{"userId": owner, "completed": true},
		},
		{
			name: "priority filter is conjoined with owner",
			q:    ListQuery{Priority: &prio},
			want: bson.M{"userId": owner, "priority": models.PriorityHigh},
		},
		{
			name: "both filters",
			q:    ListQuery{Completed: &completed, Priority: &prio},
			want: bson.M{"userId": owner, "completed": true, "priority": models.PriorityHigh},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, listFilter(owner, tt.q))
		})
	}
}

func TestSortSpec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		q    ListQuery
		want bson.D
	}{
		{
			name: "default is createdAt desc",
			q:    ListQuery{},
			want: bson.D{{Key: "createdAt", Value: -1}},
		},
		{
			name: "explicit field ascending",
			q:    ListQuery{SortBy: "title", Order: "asc"},
			want: bson.D{{Key: "title", Value: 1}},
		},
		{
			name: "explicit field defaults to descending",
			q:    ListQuery{SortBy: "dueDate"},
			want: bson.D{{Key: "dueDate", Value: -1}},
		},
		{
			name: "unknown field falls back to createdAt",
			q:    ListQuery{SortBy: "owner", Order: "asc"},
			want: bson.D{{Key: "createdAt", Value: 1}},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sortSpec(tt.q))
		})
	}
}
