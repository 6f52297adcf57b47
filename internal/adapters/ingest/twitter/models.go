package twitter

import "time"

// Post is a single post returned by the recent search endpoint
type Post struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Page is one page of recent search results plus the pagination cursor
type Page struct {
	Posts     []Post
	NextToken string
}

// searchResponse mirrors the recent search wire document
type searchResponse struct {
	Data []Post     `json:"data"`
	Meta searchMeta `json:"meta"`
}

type searchMeta struct {
	ResultCount int    `json:"result_count"`
	NextToken   string `json:"next_token"`
	NewestID    string `json:"newest_id"`
	OldestID    string `json:"oldest_id"`
}
