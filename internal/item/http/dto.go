package http

import (
	"time"

	"github.com/nekogravitycat/shareit/internal/item"
	"github.com/nekogravitycat/shareit/internal/pkg/request"
)

type CreateItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Available   *bool  `json:"available" binding:"required"`
	RequestID   *int64 `json:"requestId" binding:"omitempty,min=1"`
}

type UpdateItemRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1"`
	Description *string `json:"description" binding:"omitempty,min=1"`
	Available   *bool   `json:"available"`
}

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type SearchItemsRequest struct {
	request.Page
	Text string `form:"text"`
}

type BookingBriefResponse struct {
	ID       int64 `json:"id"`
	BookerID int64 `json:"bookerId"`
}

type CommentResponse struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

type ItemResponse struct {
	ID          int64                 `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Available   bool                  `json:"available"`
	RequestID   *int64                `json:"requestId,omitempty"`
	LastBooking *BookingBriefResponse `json:"lastBooking"`
	NextBooking *BookingBriefResponse `json:"nextBooking"`
	Comments    []CommentResponse     `json:"comments"`
}

// ItemTag is the short form embedded in other views.
type ItemTag struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	OwnerID int64  `json:"ownerId"`
}

func NewItemTag(it *item.Item) ItemTag {
	return ItemTag{ID: it.ID, Name: it.Name, OwnerID: it.OwnerID}
}

func NewCommentResponse(c *item.Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		Text:       c.Text,
		AuthorName: c.AuthorName,
		Created:    c.Created,
	}
}

func newBrief(b *item.BookingBrief) *BookingBriefResponse {
	if b == nil {
		return nil
	}
	return &BookingBriefResponse{ID: b.ID, BookerID: b.BookerID}
}

func NewItemResponse(it *item.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		RequestID:   it.RequestID,
		Comments:    []CommentResponse{},
	}
}

func NewDetailsResponse(d *item.Details) ItemResponse {
	resp := NewItemResponse(d.Item)
	resp.LastBooking = newBrief(d.LastBooking)
	resp.NextBooking = newBrief(d.NextBooking)
	for _, c := range d.Comments {
		resp.Comments = append(resp.Comments, NewCommentResponse(c))
	}
	return resp
}
