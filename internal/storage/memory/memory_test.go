package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mesto_service/internal/models"
	"mesto_service/internal/storage/storagetest"
)

func TestStorage(t *testing.T) {
	storagetest.Run(t, New())
}

func TestStorage_ConcurrentLikes(t *testing.T) {
	st := New()
	ctx := context.Background()

	_, err := st.CreateCard(ctx, models.Card{ID: "c1", Name: "Card", Link: "https://example.com", Owner: "o", CreatedAt: time.Now()})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = st.AddLike(ctx, "c1", "u1")
		}()
	}
	wg.Wait()

	card, err := st.GetCardByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, card.Likes)
}

func TestStorage_ReturnedCardsAreDetached(t *testing.T) {
	st := New()
	ctx := context.Background()

	_, err := st.CreateCard(ctx, models.Card{ID: "c1", Owner: "o", CreatedAt: time.Now()})
	require.NoError(t, err)

	card, err := st.AddLike(ctx, "c1", "u1")
	require.NoError(t, err)
	card.Likes[0] = "mutated"

	again, err := st.GetCardByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, again.Likes)
}
