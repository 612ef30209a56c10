package tasktype

import "time"

// TaskType is a named category that sessions are attributed to
type TaskType struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	Name       string    `json:"name"`
	Emoji      string    `json:"emoji"`
	Color      string    `json:"color"`
	IsPinned   bool      `json:"is_pinned"`
	IsArchived bool      `json:"is_archived"`
	SortOrder  int       `json:"sort_order"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListOptions filters task type listings.
type ListOptions struct {
	IncludeArchived bool
	PinnedOnly      bool
}

// Default is the starter set given to a new owner.
var Default = []TaskType{
	{Name: "Deep Work", Emoji: "💻", Color: "#3A8E61", IsPinned: true},
	{Name: "Email", Emoji: "📧", Color: "#7289DA", IsPinned: true},
	{Name: "Meeting", Emoji: "🤝", Color: "#8B7D5A", IsPinned: true},
	{Name: "Break", Emoji: "🍔", Color: "#B35A5A", IsPinned: true},
	{Name: "Call", Emoji: "📞", Color: "#9B59B6"},
	{Name: "Admin", Emoji: "📋", Color: "#95A5A6"},
	{Name: "Other", Emoji: "📊", Color: "#7F8C8D"},
}
