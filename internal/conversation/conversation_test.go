package conversation_test

import (
	"sync"
	"testing"
	"time"

	"github.com/cortexai/datachat/internal/conversation"
	"github.com/cortexai/datachat/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionAppendKeepsOrder(t *testing.T) {
	s := conversation.NewStore(time.Minute).Create()

	s.Append(models.RoleHuman, "first")
	s.Append(models.RoleAssistant, "second")
	s.Append(models.RoleHuman, "third")

	turns := s.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{turns[0].Content, turns[1].Content, turns[2].Content})
	assert.Equal(t, models.RoleAssistant, turns[1].Role)
	assert.False(t, turns[2].CreatedAt.Before(turns[0].CreatedAt))
}

func TestSessionTurnsIsACopy(t *testing.T) {
	s := conversation.NewStore(time.Minute).Create()
	s.Append(models.RoleHuman, "hello")

	turns := s.Turns()
	turns[0].Content = "mutated"
	assert.Equal(t, "hello", s.Turns()[0].Content)
}

func TestStoreLifecycle(t *testing.T) {
	st := conversation.NewStore(time.Minute)

	s := st.Create()
	assert.Equal(t, 0, s.Len(), "new sessions start empty")
	s.Append(models.RoleHuman, "hi")

	got, ok := st.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Same(t, s, st.GetOrCreate(s.ID))

	fresh := st.Reset(s.ID)
	assert.NotEqual(t, s.ID, fresh.ID)
	assert.Equal(t, 0, fresh.Len())
	_, ok = st.Get(s.ID)
	assert.False(t, ok)
	assert.Equal(t, 1, st.Count())
}

func TestStoreUnknownID(t *testing.T) {
	st := conversation.NewStore(time.Minute)
	_, ok := st.Get("")
	assert.False(t, ok)

	s := st.GetOrCreate("missing")
	assert.NotEqual(t, "missing", s.ID)
}

func TestStoreIdleExpiry(t *testing.T) {
	st := conversation.NewStore(20 * time.Millisecond)
	s := st.Create()
	time.Sleep(40 * time.Millisecond)

	_, ok := st.Get(s.ID)
	assert.False(t, ok)
}

func TestBeginTurnSerializes(t *testing.T) {
	s := conversation.NewStore(time.Minute).Create()

	var mu sync.Mutex
	active, maxActive := 0, 0
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			end := s.BeginTurn()
			defer end()
			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()
			time.Sleep(2 * time.Millisecond)
			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxActive)
}
