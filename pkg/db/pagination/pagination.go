// Package pagination implements cursor-based pagination for list endpoints.
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

// Pagination carries the page request parameters bound from a query string.
type Pagination struct {
	PageToken string `form:"page_token" json:"page_token"`
	PageSize  int    `form:"page_size" json:"page_size"`
}

// Cursor is the opaque position encoded into a page token.
type Cursor struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
}

// PageInfo describes the result page returned to callers.
type PageInfo struct {
	NextPageToken string `json:"next_page_token,omitempty"`
	HasMore       bool   `json:"has_more"`
}

var ErrInvalidPageToken = errors.New("invalid_page_token")

// EncodeCursor serializes a cursor into an opaque page token.
func EncodeCursor(cursor Cursor) (string, error) {
	raw, err := json.Marshal(cursor)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// DecodeCursor parses an opaque page token back into a cursor.
func DecodeCursor(token string) (Cursor, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Cursor{}, ErrInvalidPageToken
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, ErrInvalidPageToken
	}
	var cursor Cursor
	if err := json.Unmarshal(raw, &cursor); err != nil {
		return Cursor{}, ErrInvalidPageToken
	}
	if cursor.ID == "" {
		return Cursor{}, ErrInvalidPageToken
	}
	return cursor, nil
}

// BuildCursorPageInfo computes page info for a result slice fetched with
// pageSize+1 rows. tokenFn encodes the cursor for the last visible record.
func BuildCursorPageInfo[T any](items []*T, pageSize int32, tokenFn func(*T) string) *PageInfo {
	info := &PageInfo{}
	if pageSize <= 0 || len(items) <= int(pageSize) {
		return info
	}
	info.HasMore = true
	last := items[pageSize-1]
	if last != nil && tokenFn != nil {
		info.NextPageToken = tokenFn(last)
	}
	return info
}
