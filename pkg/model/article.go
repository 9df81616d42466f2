package model

import (
	"fmt"
	"strings"
	"time"
)

type ArticleID string

// NewArticleID generates a time-derived article ID. IDs are assigned once at
// creation and never reused.
func NewArticleID(now time.Time) ArticleID {
	return ArticleID(fmt.Sprintf("article-%d", now.UnixMilli()))
}

func (id ArticleID) String() string {
	return string(id)
}

// PostedToSocial is persisted as a string because the record schema uses it
// as a secondary-index hash key.
const (
	PostedFalse = "false"
	PostedTrue  = "true"
)

// ArticleContent holds the generated body sections.
type ArticleContent struct {
	Hook         string `firestore:"hook" json:"hook"`
	Details      string `firestore:"details" json:"details"`
	WhyItMatters string `firestore:"whyItMatters" json:"whyItMatters"`
}

// Article is the durable entity owned by the pipeline. ImageVariations starts
// empty and is filled asynchronously by the variant processor; readers must
// tolerate its absence.
type Article struct {
	ArticleID  ArticleID      `firestore:"articleId" json:"articleId"`
	Title      string         `firestore:"title" json:"title"`
	Headline   string         `firestore:"headline" json:"headline"`
	AuthorID   string         `firestore:"authorId" json:"authorId"`
	AuthorName string         `firestore:"authorName" json:"authorName"`
	Content    ArticleContent `firestore:"content" json:"content"`
	Tweet      string         `firestore:"tweet,omitempty" json:"tweet,omitempty"`
	Topic      string         `firestore:"topic" json:"topic"`
	Hashtags   []string       `firestore:"hashtags" json:"hashtags"`

	ImageURL        string            `firestore:"imageUrl" json:"imageUrl"`
	ImageVariations map[string]string `firestore:"imageVariations,omitempty" json:"imageVariations,omitempty"`

	CreatedAt      time.Time `firestore:"createdAt" json:"createdAt"`
	PostedToSocial string    `firestore:"postedToSocial" json:"postedToSocial"`
}

// Posted reports whether the article has already been published to social
// platforms.
func (a *Article) Posted() bool {
	return a.PostedToSocial == PostedTrue
}

// SocialText formats the text body of a social post: title, article link and
// hashtag suffix.
func (a *Article) SocialText(baseURL string) string {
	var sb strings.Builder
	sb.WriteString("📰 ")
	sb.WriteString(a.Title)
	if baseURL != "" {
		sb.WriteString("\n\nRead more: ")
		sb.WriteString(strings.TrimRight(baseURL, "/"))
		sb.WriteString("/articles/")
		sb.WriteString(a.ArticleID.String())
	}
	if len(a.Hashtags) > 0 {
		tags := make([]string, 0, len(a.Hashtags))
		for _, tag := range a.Hashtags {
			tags = append(tags, "#"+tag)
		}
		sb.WriteString("\n\n")
		sb.WriteString(strings.Join(tags, " "))
	}
	return sb.String()
}

// TopLevelTopics is the fixed topic taxonomy offered to the generation model.
// DefaultTopic is used when the model omits the Topic section.
var TopLevelTopics = []string{
	"Politics", "Economy", "Technology", "Health", "Science", "Culture", "World",
}

const DefaultTopic = "World"
