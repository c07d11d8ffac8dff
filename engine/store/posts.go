package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/autoblogdata/autobot/engine/domain"
)

// InsertPost stores a scraped post and returns its id.
func (s *Store) InsertPost(ctx context.Context, p domain.Post) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO posts (url, title, type, html_content, html_comments,
			date_published, date_scraped, date_parsed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.URL, p.Title, string(p.Type), p.HTMLContent, p.HTMLComments,
		timestamp(p.DatePublished), timestamp(p.DateScraped), nullableTime(p.DateParsed),
	)
	if err != nil {
		return 0, fmt.Errorf("insert post: %w", err)
	}
	return res.LastInsertId()
}

// PostExistsByURL reports whether a post with the given URL is stored.
func (s *Store) PostExistsByURL(ctx context.Context, url string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM posts WHERE url = ?`, url).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("post exists: %w", err)
	}
	return n > 0, nil
}

// UnparsedPosts returns posts of the given types that have not been parsed,
// oldest first. limit <= 0 means no limit.
func (s *Store) UnparsedPosts(ctx context.Context, types []domain.PostType, limit int) ([]domain.Post, error) {
	if len(types) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(types)), ",")
	args := make([]any, 0, len(types)+1)
	for _, t := range types {
		args = append(args, string(t))
	}
	query := fmt.Sprintf(
		`SELECT id, url, title, type, html_content, html_comments,
			date_published, date_scraped, date_parsed
		 FROM posts
		 WHERE type IN (%s) AND date_parsed IS NULL
		 ORDER BY id`, placeholders)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select unparsed posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var p domain.Post
		var typ string
		var published, scraped, parsed sql.NullString
		if err := rows.Scan(&p.ID, &p.URL, &p.Title, &typ, &p.HTMLContent,
			&p.HTMLComments, &published, &scraped, &parsed); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		p.Type = domain.PostType(typ)
		if t := scanTime(published); t != nil {
			p.DatePublished = *t
		}
		if t := scanTime(scraped); t != nil {
			p.DateScraped = *t
		}
		p.DateParsed = scanTime(parsed)
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// MarkPostParsed records that a post has been consumed by the parser.
func (s *Store) MarkPostParsed(ctx context.Context, postID int64, at time.Time) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE posts SET date_parsed = ? WHERE id = ?`,
		timestamp(at), postID); err != nil {
		return fmt.Errorf("mark post parsed: %w", err)
	}
	return nil
}
