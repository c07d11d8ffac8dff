package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/autoblogdata/autobot/engine/domain"
)

// InsertArticle stores a derived article and returns its id.
func (s *Store) InsertArticle(ctx context.Context, a domain.Article) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO articles (post_id, title, content, type, related_launch_url,
			date_processed, date_uploaded)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.PostID, a.Title, a.Content, string(a.Type),
		nullableString(a.RelatedLaunchURL),
		nullableTime(a.DateProcessed), nullableTime(a.DateUploaded),
	)
	if err != nil {
		return 0, fmt.Errorf("insert article: %w", err)
	}
	return res.LastInsertId()
}

// InsertSection stores one titled section of an article.
func (s *Store) InsertSection(ctx context.Context, sec domain.ArticleSection) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO article_sections (article_id, title, content) VALUES (?, ?, ?)`,
		sec.ArticleID, sec.Title, sec.Content)
	if err != nil {
		return 0, fmt.Errorf("insert section: %w", err)
	}
	return res.LastInsertId()
}

// SectionsForArticle returns an article's sections in insertion order.
func (s *Store) SectionsForArticle(ctx context.Context, articleID int64) ([]domain.ArticleSection, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, article_id, title, content
		 FROM article_sections WHERE article_id = ? ORDER BY id`, articleID)
	if err != nil {
		return nil, fmt.Errorf("select sections: %w", err)
	}
	defer rows.Close()

	var sections []domain.ArticleSection
	for rows.Next() {
		var sec domain.ArticleSection
		if err := rows.Scan(&sec.ID, &sec.ArticleID, &sec.Title, &sec.Content); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		sections = append(sections, sec)
	}
	return sections, rows.Err()
}

// UnresolvedArticle is an article not yet linked to a launch, carried with
// its owning post's HTML so launch links can be extracted.
type UnresolvedArticle struct {
	ID          int64
	Title       string
	HTMLContent string
}

// UnresolvedArticles returns articles whose related launch is still unknown.
func (s *Store) UnresolvedArticles(ctx context.Context) ([]UnresolvedArticle, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.id, a.title, p.html_content
		 FROM articles a
		 JOIN posts p ON a.post_id = p.id
		 WHERE a.related_launch_url IS NULL
		 ORDER BY a.id`)
	if err != nil {
		return nil, fmt.Errorf("select unresolved articles: %w", err)
	}
	defer rows.Close()

	var articles []UnresolvedArticle
	for rows.Next() {
		var a UnresolvedArticle
		if err := rows.Scan(&a.ID, &a.Title, &a.HTMLContent); err != nil {
			return nil, fmt.Errorf("scan unresolved article: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// ArticleLaunchRef is an article resolved to a launch but not yet linked to
// a concrete car.
type ArticleLaunchRef struct {
	ArticleID int64
	Title     string
	LaunchID  int64
}

// ArticlesMissingCarLink returns launch-resolved articles with no car edge.
func (s *Store) ArticlesMissingCarLink(ctx context.Context) ([]ArticleLaunchRef, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.id, a.title, l.id
		 FROM articles a
		 JOIN posts lp ON lp.url = a.related_launch_url
		 JOIN launches l ON l.post_id = lp.id
		 LEFT JOIN car_articles ca ON ca.article_id = a.id
		 WHERE a.related_launch_url IS NOT NULL AND ca.article_id IS NULL
		 ORDER BY a.id`)
	if err != nil {
		return nil, fmt.Errorf("select articles missing car link: %w", err)
	}
	defer rows.Close()

	var refs []ArticleLaunchRef
	for rows.Next() {
		var r ArticleLaunchRef
		if err := rows.Scan(&r.ArticleID, &r.Title, &r.LaunchID); err != nil {
			return nil, fmt.Errorf("scan article launch ref: %w", err)
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

// SetArticleLaunchURL resolves an article to the launch's post URL.
func (s *Store) SetArticleLaunchURL(ctx context.Context, articleID, launchID int64) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE articles
		 SET related_launch_url = (
			SELECT p.url FROM posts p
			JOIN launches l ON l.post_id = p.id
			WHERE l.id = ?)
		 WHERE id = ?`, launchID, articleID); err != nil {
		return fmt.Errorf("set article launch url: %w", err)
	}
	return nil
}

// LinkArticleToCar inserts the article-car edge, ignoring duplicates.
// Returns true when a new edge was created.
func (s *Store) LinkArticleToCar(ctx context.Context, articleID, carID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO car_articles (article_id, car_id) VALUES (?, ?)`,
		articleID, carID)
	if err != nil {
		return false, fmt.Errorf("link article to car: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("link article to car: %w", err)
	}
	return n > 0, nil
}

// ArticlesToUpload returns articles not yet pushed to the vector store.
// limit <= 0 means no limit.
func (s *Store) ArticlesToUpload(ctx context.Context, limit int) ([]domain.Article, error) {
	query := `SELECT id, post_id, title, content, type, related_launch_url, date_uploaded
		 FROM articles WHERE date_uploaded IS NULL ORDER BY id`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select articles to upload: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		var a domain.Article
		var typ string
		var launchURL, uploaded sql.NullString
		if err := rows.Scan(&a.ID, &a.PostID, &a.Title, &a.Content, &typ,
			&launchURL, &uploaded); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		a.Type = domain.PostType(typ)
		a.RelatedLaunchURL = launchURL.String
		a.DateUploaded = scanTime(uploaded)
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// MarkArticleUploaded records a successful vector-store upload.
func (s *Store) MarkArticleUploaded(ctx context.Context, articleID int64, at time.Time) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE articles SET date_uploaded = ? WHERE id = ?`,
		timestamp(at), articleID); err != nil {
		return fmt.Errorf("mark article uploaded: %w", err)
	}
	return nil
}

// CarArticleEdges returns every article-car edge.
func (s *Store) CarArticleEdges(ctx context.Context) ([]domain.CarArticle, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT article_id, car_id FROM car_articles ORDER BY article_id, car_id`)
	if err != nil {
		return nil, fmt.Errorf("select car article edges: %w", err)
	}
	defer rows.Close()

	var edges []domain.CarArticle
	for rows.Next() {
		var e domain.CarArticle
		if err := rows.Scan(&e.ArticleID, &e.CarID); err != nil {
			return nil, fmt.Errorf("scan car article edge: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}
