// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as Article, Section and FeedDocument,
// along with their validation rules and domain-specific errors.
package entity

import "time"

// Article represents a single news article returned by the content API.
// ShortURL is used both as the item link and as its unique identifier.
type Article struct {
	Headline    string
	TrailText   string
	ShortURL    string
	PublishedAt time.Time
}

// FeedDocument is a rendered RSS document for one section.
// It only ever lives in the cache and in the HTTP response.
type FeedDocument struct {
	Section     Section
	Body        []byte
	GeneratedAt time.Time
	FromCache   bool
}
