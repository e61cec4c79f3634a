// Package activity merges heterogeneous CRM records into ordered feeds. The
// dashboard activity feed is ordered newest first; chat conversations are
// ordered oldest first. The directionality difference is deliberate and
// load-bearing per use site.
package activity

import (
	"fmt"
	"sort"

	"github.com/avelichko/crmdesk/internal/models"
)

// DefaultFeedLimit caps the dashboard activity feed.
const DefaultFeedLimit = 10

const previewLen = 50

// MergeRecent projects orders and messages into activity items, merges them
// into one feed sorted descending by normalized timestamp, and truncates to
// limit (DefaultFeedLimit when limit <= 0). The sort is stable: equal
// timestamps keep source-relative order, orders before messages. Empty
// inputs yield an empty feed; it never fails.
func MergeRecent(orders []models.Order, messages []models.Message, limit int) []models.ActivityItem {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}

	items := make([]models.ActivityItem, 0, len(orders)+len(messages))
	for _, o := range orders {
		items = append(items, models.ActivityItem{
			Kind:        models.ActivityOrder,
			Title:       fmt.Sprintf("New order #%d", o.ID),
			Description: fmt.Sprintf("%s - %s", o.ServiceName, o.ClientName()),
			Status:      o.Status,
			TimestampMs: o.Timestamp.Ms(),
		})
	}
	for _, m := range messages {
		status := "new"
		if m.Processed {
			status = "processed"
		}
		items = append(items, models.ActivityItem{
			Kind:        models.ActivityMessage,
			Title:       "New message",
			Description: fmt.Sprintf("%s: %s", m.SenderName(), preview(m.Body)),
			Status:      status,
			TimestampMs: m.Timestamp.Ms(),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].TimestampMs > items[j].TimestampMs
	})

	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

// MergeChat returns the conversation with the incoming message inserted in
// timestamp order, ascending (oldest first). Used both for optimistic
// insertion of a just-sent admin reply and for reconciling the server echo;
// the two sides may carry different timestamp formats, which FlexTime has
// already normalized to the same comparable instant.
func MergeChat(existing []models.ChatMessage, incoming models.ChatMessage) []models.ChatMessage {
	merged := make([]models.ChatMessage, 0, len(existing)+1)
	merged = append(merged, existing...)
	merged = append(merged, incoming)
	SortChat(merged)
	return merged
}

// SortChat orders a conversation ascending by normalized timestamp, stable
// on ties.
func SortChat(messages []models.ChatMessage) {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp < messages[j].Timestamp
	})
}

func preview(s string) string {
	runes := []rune(s)
	if len(runes) <= previewLen {
		return s
	}
	return string(runes[:previewLen]) + "..."
}
