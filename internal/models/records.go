package models

// Order represents a service order placed through the storefront bot.
type Order struct {
	ID           int64    `json:"id"`
	Username     string   `json:"username"`
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	ServiceName  string   `json:"service_name"`
	Body         string   `json:"message"`
	Status       string   `json:"status"`
	AdminComment string   `json:"admin_comment,omitempty"`
	Timestamp    FlexTime `json:"timestamp"`
}

// ClientName returns the best available display name for the ordering client.
func (o Order) ClientName() string {
	if o.Username != "" {
		return o.Username
	}
	if o.FirstName != "" {
		return o.FirstName
	}
	return "Unknown"
}

// Message is an inbound client message outside of any order conversation.
type Message struct {
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	FirstName string   `json:"first_name"`
	Body      string   `json:"message"`
	Processed bool     `json:"processed"`
	Timestamp FlexTime `json:"timestamp"`
}

// SenderName returns the best available display name for the sender.
func (m Message) SenderName() string {
	if m.Username != "" {
		return m.Username
	}
	if m.FirstName != "" {
		return m.FirstName
	}
	return "User"
}

// ChatOrder is an order with an open conversation attached.
type ChatOrder struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	FirstName   string   `json:"first_name"`
	ServiceName string   `json:"service_name"`
	Status      string   `json:"status"`
	LastMessage string   `json:"last_message,omitempty"`
	Body        string   `json:"message,omitempty"`
	Timestamp   FlexTime `json:"timestamp"`
}

// ChatMessage is one message inside an order conversation. Conversations are
// ordered ascending by timestamp (oldest first), unlike the activity feed.
type ChatMessage struct {
	ID        int64    `json:"id"`
	OrderID   int64    `json:"order_id"`
	Body      string   `json:"message"`
	IsAdmin   bool     `json:"is_admin"`
	Username  string   `json:"username"`
	FirstName string   `json:"first_name"`
	Timestamp FlexTime `json:"timestamp"`
}

// AuthorLabel returns the display label for the message author.
func (m ChatMessage) AuthorLabel() string {
	if m.IsAdmin {
		return "Administrator"
	}
	if m.Username != "" {
		return m.Username
	}
	if m.FirstName != "" {
		return m.FirstName
	}
	return "User"
}

// SupportRequest is a support ticket raised by a client.
type SupportRequest struct {
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	FirstName string   `json:"first_name"`
	Name      string   `json:"name"`
	Subject   string   `json:"subject"`
	Body      string   `json:"message"`
	Processed bool     `json:"processed"`
	Timestamp FlexTime `json:"timestamp"`
}

// Review is a client review with a 1-5 star rating.
type Review struct {
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	FirstName string   `json:"first_name"`
	Rating    int      `json:"rating"`
	Comment   string   `json:"comment"`
	Timestamp FlexTime `json:"timestamp"`
}

// Stats is the dashboard headline counters.
type Stats struct {
	TotalOrders    int     `json:"total_orders"`
	PendingOrders  int     `json:"pending_orders"`
	UnreadMessages int     `json:"unread_messages"`
	AverageRating  float64 `json:"average_rating"`
}

// AverageRating is the aggregate review score.
type AverageRating struct {
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int     `json:"total_reviews"`
}

// ActivityKind discriminates the source of an activity feed item.
type ActivityKind string

const (
	ActivityOrder   ActivityKind = "order"
	ActivityMessage ActivityKind = "message"
)

// ActivityItem is one row of the merged dashboard activity feed. Items are
// never persisted; the feed is recomputed on every load and refresh event.
type ActivityItem struct {
	Kind        ActivityKind `json:"kind"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      string       `json:"status"`
	TimestampMs int64        `json:"timestamp_ms"`
}
