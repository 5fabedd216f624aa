// Package rss renders article lists as RSS 2.0 documents.
package rss

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"time"

	"guardian-rss/internal/domain/entity"
)

const (
	// ChannelLink is the link of every rendered channel.
	ChannelLink = "https://www.theguardian.com"
	// ChannelDescription is the description of every rendered channel.
	ChannelDescription = "Latest articles from The Guardian"
	// ChannelTitlePrefix is followed by the capitalised section name.
	ChannelTitlePrefix = "The Guardian - "
)

type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Description string `xml:"description"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	PubDate     string `xml:"pubDate"`
}

// Renderer is stateless and safe for concurrent use.
type Renderer struct{}

// NewRenderer returns a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render returns the RSS document for articles, one item per article in input order.
// The output depends only on its arguments.
func (r *Renderer) Render(articles []entity.Article, section entity.Section) ([]byte, error) {
	doc := rssDocument{
		Version: "2.0",
		Channel: rssChannel{
			Title:       ChannelTitlePrefix + section.Title(),
			Link:        ChannelLink,
			Description: ChannelDescription,
			Items:       make([]rssItem, 0, len(articles)),
		},
	}

	for _, a := range articles {
		doc.Channel.Items = append(doc.Channel.Items, rssItem{
			Title:       a.Headline,
			Description: a.TrailText,
			Link:        a.ShortURL,
			GUID:        a.ShortURL,
			PubDate:     FormatPubDate(a.PublishedAt),
		})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode rss: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode rss: %w", err)
	}
	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

// FormatPubDate formats t as an RFC 1123 date with a numeric zone, in UTC.
func FormatPubDate(t time.Time) string {
	return t.UTC().Format(time.RFC1123Z)
}
