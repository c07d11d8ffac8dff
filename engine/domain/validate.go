package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyURL is returned for posts without a URL.
	ErrEmptyURL = errors.New("domain: post URL is empty")
	// ErrEmptyContent is returned for posts without HTML content.
	ErrEmptyContent = errors.New("domain: post HTML content is empty")
)

// ValidatePost checks a scraped post at the intake boundary.
func ValidatePost(p Post) error {
	if strings.TrimSpace(p.URL) == "" {
		return ErrEmptyURL
	}
	if strings.TrimSpace(p.HTMLContent) == "" {
		return ErrEmptyContent
	}
	if !ValidPostTypes[p.Type] {
		return fmt.Errorf("domain: unknown post type %q", p.Type)
	}
	return nil
}
