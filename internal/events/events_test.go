package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishDropsWhenFull(t *testing.T) {
	dropped := 0
	pub := NewInMemory(1, func() { dropped++ })

	assert.True(t, pub.PublishSearchCompleted(context.Background(), SearchCompleted{Provider: "rmls"}))
	assert.False(t, pub.PublishSearchCompleted(context.Background(), SearchCompleted{Provider: "bridge"}))
	assert.Equal(t, 1, dropped)

	evt := <-pub.SubscribeSearchCompleted()
	assert.Equal(t, "rmls", evt.Provider)
}
