package service

import (
	"math"
	"testing"

	"tunepost-go/internal/cache"
	"tunepost-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMemoryCache(t *testing.T) cache.Cache {
	t.Helper()
	m, err := cache.NewMemory(256)
	require.NoError(t, err)
	return m
}

func seedNotifications(t *testing.T, h *harness, recipient, actor int64, n int) []int64 {
	t.Helper()
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		h.clock.Advance(1)
		note, err := h.notifications.Notify(h.ctx, model.NotifyCommand{
			RecipientID: recipient,
			ActorID:     actor,
			Type:        model.NotificationComment,
			RelatedID:   int64(i + 1),
			RelatedKind: model.RelatedComment,
			Content:     "<b>nice</b> pick",
		})
		require.NoError(t, err)
		require.NotNil(t, note)
		ids = append(ids, note.ID)
	}
	return ids
}

func TestNotifySanitizesAndTruncates(t *testing.T) {
	h := newHarness(t, mustMemoryCache(t))
	a := h.user(t, "a", false)
	b := h.user(t, "b", false)

	long := ""
	for i := 0; i < 300; i++ {
		long += "x"
	}
	note, err := h.notifications.Notify(h.ctx, model.NotifyCommand{
		RecipientID: a, ActorID: b, Type: model.NotificationMention,
		RelatedID: 1, RelatedKind: model.RelatedComment,
		Content: "<script>alert(1)</script>" + long,
	})
	require.NoError(t, err)
	assert.Len(t, []rune(note.Content), maxNotificationContent)
	assert.NotContains(t, note.Content, "script")
}

func TestNotifyRejectsUnknownType(t *testing.T) {
	h := newHarness(t, mustMemoryCache(t))
	_, err := h.notifications.Notify(h.ctx, model.NotifyCommand{RecipientID: 1, ActorID: 2, Type: "poke"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNotifyUnknownRecipient(t *testing.T) {
	h := newHarness(t, mustMemoryCache(t))
	actor := h.user(t, "actor", false)

	n, err := h.notifications.Notify(h.ctx, model.NotifyCommand{
		RecipientID: actor + 100,
		ActorID:     actor,
		Type:        model.NotificationFollow,
		RelatedID:   actor,
		RelatedKind: model.RelatedUser,
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Nil(t, n)
}

func TestMarkAllReadThenList(t *testing.T) {
	for name, newCache := range cacheModes(t) {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, newCache())
			a := h.user(t, "a", false)
			b := h.user(t, "b", false)
			seedNotifications(t, h, a, b, 5)

			count, err := h.notifications.UnreadCount(h.ctx, a)
			require.NoError(t, err)
			assert.Equal(t, int64(5), count.Count)

			res, err := h.notifications.MarkAllRead(h.ctx, a)
			require.NoError(t, err)
			assert.True(t, res.Success)
			assert.Equal(t, int64(5), res.Updated)

			for page := 1; page <= 2; page++ {
				data, err := h.notifications.List(h.ctx, a, page)
				require.NoError(t, err)
				assert.Zero(t, data.UnreadCount)
				for _, n := range data.Notifications {
					assert.True(t, n.IsRead)
				}
			}

			count, err = h.notifications.UnreadCount(h.ctx, a)
			require.NoError(t, err)
			assert.Zero(t, count.Count)
		})
	}
}

func TestListPaginationNewestFirst(t *testing.T) {
	h := newHarness(t, mustMemoryCache(t))
	a := h.user(t, "a", false)
	b := h.user(t, "b", false)
	ids := seedNotifications(t, h, a, b, 5)

	first, err := h.notifications.List(h.ctx, a, 1)
	require.NoError(t, err)
	require.Len(t, first.Notifications, 3)
	assert.True(t, first.HasMore)
	assert.Equal(t, ids[4], first.Notifications[0].ID)
	assert.Equal(t, "nice pick", first.Notifications[0].Content)

	second, err := h.notifications.List(h.ctx, a, 2)
	require.NoError(t, err)
	require.Len(t, second.Notifications, 2)
	assert.False(t, second.HasMore)
	assert.Equal(t, ids[0], second.Notifications[1].ID)

	_, err = h.notifications.List(h.ctx, a, 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListRejectsHugePage(t *testing.T) {
	h := newHarness(t, mustMemoryCache(t))
	a := h.user(t, "a", false)
	b := h.user(t, "b", false)
	seedNotifications(t, h, a, b, 2)

	for _, page := range []int{maxNotificationPage + 1, math.MaxInt} {
		_, err := h.notifications.List(h.ctx, a, page)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "page", verr.Field)
	}

	last, err := h.notifications.List(h.ctx, a, maxNotificationPage)
	require.NoError(t, err)
	assert.Empty(t, last.Notifications)
	assert.False(t, last.HasMore)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	h := newHarness(t, mustMemoryCache(t))
	a := h.user(t, "a", false)
	b := h.user(t, "b", false)
	ids := seedNotifications(t, h, a, b, 2)

	res, err := h.notifications.MarkRead(h.ctx, a, ids[0])
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, int64(1), res.Updated)

	res, err = h.notifications.MarkRead(h.ctx, a, ids[0])
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Zero(t, res.Updated)

	count, err := h.notifications.UnreadCount(h.ctx, a)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count.Count)

	// 其他人的通知视为不存在
	_, err = h.notifications.MarkRead(h.ctx, b, ids[1])
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestListReconcilesDriftedCounter(t *testing.T) {
	h := newHarness(t, mustMemoryCache(t))
	a := h.user(t, "a", false)
	b := h.user(t, "b", false)
	seedNotifications(t, h, a, b, 2)

	h.store.CorruptUnreadCounter(a, 7)
	count, err := h.notifications.UnreadCount(h.ctx, a)
	require.NoError(t, err)
	assert.Equal(t, int64(7), count.Count)

	data, err := h.notifications.List(h.ctx, a, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), data.UnreadCount)

	counter, err := h.store.UnreadCounter(h.ctx, a)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counter)

	count, err = h.notifications.UnreadCount(h.ctx, a)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count.Count)

	h.store.CorruptUnreadCounter(a, -3)
	data, err = h.notifications.List(h.ctx, a, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), data.UnreadCount)
}
