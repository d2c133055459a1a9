package models

import "time"

type Comment struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticketId"`
	Author    string    `json:"author"`
	Message   string    `json:"message"`
	IsEdited  bool      `json:"isEdited"`
	Revision  int       `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CommentView is what a ticket read returns: no ticketId, author expanded.
type CommentView struct {
	ID        string     `json:"id"`
	Author    *PersonRef `json:"author"`
	Message   string     `json:"message"`
	IsEdited  bool       `json:"isEdited"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
