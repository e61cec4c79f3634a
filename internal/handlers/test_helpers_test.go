package handlers

import (
	"context"

	"github.com/avelichko/crmdesk/internal/models"
	"github.com/avelichko/crmdesk/internal/syncer"
)

// mockBackend implements CRMBackend with canned data for handler tests
type mockBackend struct {
	stats     models.Stats
	orders    []models.Order
	messages  []models.Message
	chatOrds  []models.ChatOrder
	chatMsgs  map[int64][]models.ChatMessage
	support   []models.SupportRequest
	reviews   []models.Review
	avgRating models.AverageRating

	statusErr   error
	processErr  error
	sendErr     error
	sentMessage models.ChatMessage

	statusCalls  []statusCall
	processedIDs []int64
	sentBodies   []string
}

type statusCall struct {
	orderID int64
	status  string
	comment string
}

func (m *mockBackend) Stats(context.Context) models.Stats               { return m.stats }
func (m *mockBackend) Orders(context.Context) []models.Order            { return m.orders }
func (m *mockBackend) Messages(context.Context) []models.Message        { return m.messages }
func (m *mockBackend) ChatOrders(context.Context) []models.ChatOrder    { return m.chatOrds }
func (m *mockBackend) SupportRequests(context.Context) []models.SupportRequest {
	return m.support
}
func (m *mockBackend) Reviews(context.Context) []models.Review { return m.reviews }
func (m *mockBackend) AverageRating(context.Context) models.AverageRating {
	return m.avgRating
}

func (m *mockBackend) ChatMessages(_ context.Context, orderID int64) []models.ChatMessage {
	return m.chatMsgs[orderID]
}

func (m *mockBackend) UpdateOrderStatus(_ context.Context, orderID int64, status, comment string) error {
	m.statusCalls = append(m.statusCalls, statusCall{orderID, status, comment})
	return m.statusErr
}

func (m *mockBackend) MarkMessageProcessed(_ context.Context, messageID int64) error {
	m.processedIDs = append(m.processedIDs, messageID)
	return m.processErr
}

func (m *mockBackend) MarkSupportProcessed(_ context.Context, supportID int64) error {
	m.processedIDs = append(m.processedIDs, supportID)
	return m.processErr
}

func (m *mockBackend) SendAdminMessage(_ context.Context, orderID int64, body string) (models.ChatMessage, error) {
	m.sentBodies = append(m.sentBodies, body)
	if m.sendErr != nil {
		return models.ChatMessage{}, m.sendErr
	}
	sent := m.sentMessage
	sent.OrderID = orderID
	return sent, nil
}

// trackerSpy records tracker calls for handler tests
type trackerSpy struct {
	pages  []syncer.Page
	opened []int64
	closed int
}

func (s *trackerSpy) SetActivePage(p syncer.Page) { s.pages = append(s.pages, p) }
func (s *trackerSpy) OpenConversation(id int64)   { s.opened = append(s.opened, id) }
func (s *trackerSpy) CloseConversation()          { s.closed++ }
