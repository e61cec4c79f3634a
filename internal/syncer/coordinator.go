// Package syncer routes realtime push events to page refresh actions. The
// coordinator owns no business data: it tracks only which page is active and
// which conversation is open, and dispatches to callbacks injected at
// construction so the core stays testable without any rendering or fetch
// dependency.
package syncer

import (
	"log/slog"
	"sync"

	"github.com/avelichko/crmdesk/internal/realtime"
)

// Page identifies one dashboard page.
type Page string

const (
	PageDashboard Page = "dashboard"
	PageOrders    Page = "orders"
	PageMessages  Page = "messages"
	PageChat      Page = "chat"
	PageSupport   Page = "support"
	PageReviews   Page = "reviews"
)

// RefreshFunc refreshes one page's data. Must be idempotent and safe to run
// redundantly.
type RefreshFunc func()

// ChatReloadFunc reloads a single conversation without a full page refresh.
type ChatReloadFunc func(orderID int64)

// Coordinator dispatches realtime events to the refresh callback of the
// active page. State is re-read per event: handlers must not assume the
// active page or open conversation is unchanged across asynchronous
// boundaries.
type Coordinator struct {
	logger     *slog.Logger
	refresh    map[Page]RefreshFunc
	reloadChat ChatReloadFunc

	mu         sync.Mutex
	activePage Page
	openOrder  int64 // conversation currently open, 0 = none
}

// New creates a Coordinator with one refresh callback per page kind and a
// conversation reload callback. The dashboard starts active.
func New(refresh map[Page]RefreshFunc, reloadChat ChatReloadFunc, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		logger:     logger,
		refresh:    refresh,
		reloadChat: reloadChat,
		activePage: PageDashboard,
	}
}

// SetActivePage records the page the administrator is looking at.
func (c *Coordinator) SetActivePage(p Page) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activePage = p
}

// ActivePage returns the currently active page.
func (c *Coordinator) ActivePage() Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activePage
}

// OpenConversation records the conversation the administrator has open.
func (c *Coordinator) OpenConversation(orderID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.openOrder = orderID
}

// CloseConversation clears the open conversation.
func (c *Coordinator) CloseConversation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.openOrder = 0
}

// HandleEvent implements realtime.Handler. Data-changing events refresh
// whichever page is active; an admin message event reloads only the matching
// open conversation. Unrecognized types are ignored without error.
func (c *Coordinator) HandleEvent(ev realtime.Event) {
	switch ev.Type {
	case realtime.EventOrderStatusChanged,
		realtime.EventMessageProcessed,
		realtime.EventSupportProcessed,
		realtime.EventDataUpdate,
		realtime.EventFullSyncComplete:
		c.refreshActivePage(ev)
	case realtime.EventAdminMessageSent:
		c.mu.Lock()
		open := c.openOrder
		c.mu.Unlock()
		if c.reloadChat != nil && open != 0 && open == ev.OrderID {
			c.logger.Debug("reloading open conversation",
				slog.Int64("order_id", ev.OrderID))
			c.reloadChat(ev.OrderID)
		}
	default:
		c.logger.Debug("ignoring unrecognized push event",
			slog.String("type", string(ev.Type)))
	}
}

func (c *Coordinator) refreshActivePage(ev realtime.Event) {
	c.mu.Lock()
	page := c.activePage
	fn := c.refresh[page]
	c.mu.Unlock()

	if fn == nil {
		c.logger.Debug("no refresh action for active page",
			slog.String("page", string(page)))
		return
	}
	c.logger.Debug("refreshing active page",
		slog.String("page", string(page)),
		slog.String("event", string(ev.Type)))
	fn()
}
