package chat

import "time"

// UserCookie carries the username between the page, the widget and the backend API.
const UserCookie = "daptic_user"

// AnonymousUser owns the history of requests without a username.
const AnonymousUser = "anonymous"

// Session describes one connected chat widget.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}
