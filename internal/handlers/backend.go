package handlers

import (
	"context"

	"github.com/avelichko/crmdesk/internal/models"
	"github.com/avelichko/crmdesk/internal/syncer"
)

// CRMBackend is the data source for all dashboard handlers. Fetch methods
// never fail; they degrade to cached data inside the client. Mutations do
// return errors.
type CRMBackend interface {
	Stats(ctx context.Context) models.Stats
	Orders(ctx context.Context) []models.Order
	Messages(ctx context.Context) []models.Message
	ChatOrders(ctx context.Context) []models.ChatOrder
	ChatMessages(ctx context.Context, orderID int64) []models.ChatMessage
	SupportRequests(ctx context.Context) []models.SupportRequest
	Reviews(ctx context.Context) []models.Review
	AverageRating(ctx context.Context) models.AverageRating

	UpdateOrderStatus(ctx context.Context, orderID int64, status, comment string) error
	MarkMessageProcessed(ctx context.Context, messageID int64) error
	MarkSupportProcessed(ctx context.Context, supportID int64) error
	SendAdminMessage(ctx context.Context, orderID int64, body string) (models.ChatMessage, error)
}

// PageTracker records which page and conversation the administrator is
// viewing, so push events refresh the right data.
type PageTracker interface {
	SetActivePage(p syncer.Page)
	OpenConversation(orderID int64)
	CloseConversation()
}

// noopTracker is used when no coordinator is wired, e.g. in tests.
type noopTracker struct{}

func (noopTracker) SetActivePage(syncer.Page) {}
func (noopTracker) OpenConversation(int64)    {}
func (noopTracker) CloseConversation()        {}
