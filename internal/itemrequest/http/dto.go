package http

import (
	"time"

	itemHttp "github.com/nekogravitycat/shareit/internal/item/http"
	"github.com/nekogravitycat/shareit/internal/itemrequest"
)

type CreateRequestBody struct {
	Description string `json:"description" binding:"required"`
}

type RequestResponse struct {
	ID          int64              `json:"id"`
	Description string             `json:"description"`
	Created     time.Time          `json:"created"`
	Items       []itemHttp.ItemTag `json:"items"`
}

func NewRequestResponse(r *itemrequest.Request) RequestResponse {
	return RequestResponse{
		ID:          r.ID,
		Description: r.Description,
		Created:     r.Created,
		Items:       []itemHttp.ItemTag{},
	}
}

func NewWithItemsResponse(r *itemrequest.WithItems) RequestResponse {
	resp := NewRequestResponse(r.Request)
	for _, it := range r.Items {
		resp.Items = append(resp.Items, itemHttp.NewItemTag(it))
	}
	return resp
}

func newList(list []*itemrequest.WithItems) []RequestResponse {
	out := make([]RequestResponse, len(list))
	for i, r := range list {
		out[i] = NewWithItemsResponse(r)
	}
	return out
}
