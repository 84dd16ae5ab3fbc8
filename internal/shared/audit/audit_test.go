package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActorFrom(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		want string
	}{
		{"no actor", context.Background(), SystemActor},
		{"blank actor", WithActor(context.Background(), "  "), SystemActor},
		{"actor set", WithActor(context.Background(), "planner"), "planner"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ActorFrom(tt.ctx))
		})
	}
}

func TestFields_Lifecycle(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	modified := created.Add(time.Hour)

	var f Fields
	f.Deleted = true
	f.MarkCreated("alice", created)

	assert.Equal(t, "alice", f.CreatedBy)
	assert.Equal(t, created, f.DateCreated)
	assert.False(t, f.Deleted)
	assert.Nil(t, f.ModifiedBy)

	incoming := Fields{CreatedBy: "mallory"}
	incoming.KeepCreated(f)
	incoming.MarkModified("bob", modified)

	assert.Equal(t, "alice", incoming.CreatedBy)
	assert.Equal(t, created, incoming.DateCreated)
	require.NotNil(t, incoming.ModifiedBy)
	assert.Equal(t, "bob", *incoming.ModifiedBy)
	require.NotNil(t, incoming.DateModified)
	assert.Equal(t, modified, *incoming.DateModified)

	v := incoming.View()
	assert.Equal(t, "alice", v.CreatedBy)
	assert.Equal(t, "bob", *v.ModifiedBy)
}
