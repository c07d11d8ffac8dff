// Package domain defines the core entity types shared by the parsing,
// reconciliation, and upload layers, plus validation at intake boundaries.
package domain

import "time"

// PostType classifies a scraped post.
type PostType string

const (
	PostPrices  PostType = "prices"
	PostSales   PostType = "sales"
	PostLaunch  PostType = "launch"
	PostContact PostType = "contact"
	PostTrial   PostType = "trial"
)

// ValidPostTypes is the set of recognised post types.
var ValidPostTypes = map[PostType]bool{
	PostPrices: true, PostSales: true, PostLaunch: true,
	PostContact: true, PostTrial: true,
}

// Post is a raw scraped page. Immutable once scraped except for DateParsed,
// which marks consumption by the parser.
type Post struct {
	ID            int64     `json:"id"`
	URL           string    `json:"url"`
	Title         string    `json:"title"`
	Type          PostType  `json:"type"`
	HTMLContent   string    `json:"html_content"`
	HTMLComments  string    `json:"html_comments,omitempty"`
	DatePublished time.Time `json:"date_published"`
	DateScraped   time.Time `json:"date_scraped"`
	DateParsed    *time.Time `json:"date_parsed,omitempty"`
}

// Article is a text document derived from a contact/trial post. One post
// owns at most one article.
type Article struct {
	ID               int64
	PostID           int64
	Title            string
	Content          string
	Type             PostType
	RelatedLaunchURL string // FK by URL, empty until reconciled
	DateProcessed    *time.Time
	DateUploaded     *time.Time
}

// Launch is a text document derived from a launch post.
type Launch struct {
	ID           int64
	PostID       int64
	Title        string
	Content      string
	CarModelID   int64 // 0 until reconciled
	DateUploaded *time.Time
}

// ArticleSection is an ordered sub-document of an Article.
type ArticleSection struct {
	ID        int64
	ArticleID int64
	Title     string
	Content   string
}

// CarModel is a canonical make/model pair, unique by (make, model).
type CarModel struct {
	ID    int64
	Make  string
	Model string
}

// Car is a specific trim variant belonging to exactly one launch.
type Car struct {
	ID            int64
	LaunchID      int64
	Variant       string
	FullModelName string
	CurrentPrice  int64
	PriceDate     *time.Time
}

// CarPrice is an unresolved price-list line item. DateProcessed is set
// exactly once, whether or not a matching car was found.
type CarPrice struct {
	ID            int64
	LaunchURL     string
	Name          string
	Price         int64
	DateProcessed *time.Time
}

// SimilarLaunch is a directed competitor edge extracted from a launch page,
// not yet resolved to a concrete car.
type SimilarLaunch struct {
	ID            int64
	LaunchID      int64
	FullModelName string
	URL           string
}

// SimilarCars is a resolved edge between two cars, deduplicated on insert.
type SimilarCars struct {
	LaunchCarID  int64
	SimilarCarID int64
}

// CarArticle links an article to the car it covers, unique per pair.
type CarArticle struct {
	ArticleID int64
	CarID     int64
}
