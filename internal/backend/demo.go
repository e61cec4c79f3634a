package backend

import "github.com/avelichko/crmdesk/internal/models"

// Demo datasets seed the last-known-good cache so the dashboard degrades to
// placeholder data instead of an empty screen when the backend has never
// been reachable.

func demoStats() models.Stats {
	return models.Stats{
		TotalOrders:    25,
		PendingOrders:  8,
		UnreadMessages: 12,
		AverageRating:  4.7,
	}
}

func demoOrders() []models.Order {
	return []models.Order{
		{
			ID:          1,
			Username:    "john_doe",
			FirstName:   "John",
			LastName:    "Doe",
			ServiceName: "AI Telegram Bot",
			Body:        "Need a bot to automate sales",
			Status:      "pending",
			Timestamp:   1734604200000, // 2024-12-19 10:30:00 UTC
		},
		{
			ID:          2,
			Username:    "jane_smith",
			FirstName:   "Jane",
			LastName:    "Smith",
			ServiceName: "Channel Automation",
			Body:        "Want to automate running my channel",
			Status:      "processing",
			Timestamp:   1734536700000, // 2024-12-18 15:45:00 UTC
		},
	}
}

func demoMessages() []models.Message {
	return []models.Message{
		{
			ID:        1,
			Username:  "user1",
			FirstName: "User",
			Body:      "Hello! Interested in bot development",
			Processed: false,
			Timestamp: 1734606000000,
		},
		{
			ID:        2,
			Username:  "user2",
			FirstName: "Client",
			Body:      "Thanks for the great work!",
			Processed: true,
			Timestamp: 1734539400000,
		},
	}
}

func demoChatOrders() []models.ChatOrder {
	return []models.ChatOrder{
		{
			ID:          1,
			Username:    "john_doe",
			FirstName:   "John",
			ServiceName: "AI Telegram Bot",
			Status:      "active",
			LastMessage: "When will the bot be ready?",
			Timestamp:   1734604200000,
		},
		{
			ID:          2,
			Username:    "jane_smith",
			FirstName:   "Jane",
			ServiceName: "Channel Automation",
			Status:      "completed",
			LastMessage: "Thanks for the work!",
			Timestamp:   1734536700000,
		},
	}
}

func demoChatMessages(orderID int64) []models.ChatMessage {
	return []models.ChatMessage{
		{
			ID:        1,
			OrderID:   orderID,
			Body:      "Hello! I have a question about my order",
			IsAdmin:   false,
			Username:  "user123",
			FirstName: "User",
			Timestamp: 1734604200000,
		},
		{
			ID:        2,
			OrderID:   orderID,
			Body:      "Hello! Happy to help. What is your question?",
			IsAdmin:   true,
			Timestamp: 1734604320000,
		},
	}
}

func demoSupportRequests() []models.SupportRequest {
	return []models.SupportRequest{
		{
			ID:        1,
			Username:  "user1",
			FirstName: "User",
			Name:      "Ivan Ivanov",
			Subject:   "Technical support",
			Body:      "I cannot sign in to the system",
			Processed: false,
			Timestamp: 1734609600000,
		},
		{
			ID:        2,
			Username:  "user2",
			FirstName: "Client",
			Name:      "Petr Petrov",
			Subject:   "Feature question",
			Body:      "How do I use the new feature?",
			Processed: true,
			Timestamp: 1734541200000,
		},
	}
}

func demoReviews() []models.Review {
	return []models.Review{
		{
			ID:        1,
			Username:  "user1",
			FirstName: "User",
			Rating:    5,
			Comment:   "Excellent work! Delivered with quality and on time.",
			Timestamp: 1734613200000,
		},
		{
			ID:        2,
			Username:  "user2",
			FirstName: "Client",
			Rating:    4,
			Comment:   "Good result, but it could have been faster.",
			Timestamp: 1734544800000,
		},
	}
}

func demoAverageRating() models.AverageRating {
	return models.AverageRating{AverageRating: 4.7, TotalReviews: 15}
}
