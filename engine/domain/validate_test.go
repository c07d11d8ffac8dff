package domain

import (
	"errors"
	"testing"
	"time"
)

func validPost() Post {
	return Post{
		URL:           "https://www.autoblog.com.uy/2024/03/lanzamiento-nissan-kicks.html",
		Title:         "Lanzamiento: Nissan Kicks",
		Type:          PostLaunch,
		HTMLContent:   "<html><body>contenido</body></html>",
		DatePublished: time.Now(),
		DateScraped:   time.Now(),
	}
}

func TestValidatePost(t *testing.T) {
	if err := ValidatePost(validPost()); err != nil {
		t.Fatalf("expected valid post, got %v", err)
	}
}

func TestValidatePost_EmptyURL(t *testing.T) {
	p := validPost()
	p.URL = "  "
	if err := ValidatePost(p); !errors.Is(err, ErrEmptyURL) {
		t.Errorf("expected ErrEmptyURL, got %v", err)
	}
}

func TestValidatePost_EmptyContent(t *testing.T) {
	p := validPost()
	p.HTMLContent = ""
	if err := ValidatePost(p); !errors.Is(err, ErrEmptyContent) {
		t.Errorf("expected ErrEmptyContent, got %v", err)
	}
}

func TestValidatePost_UnknownType(t *testing.T) {
	p := validPost()
	p.Type = "podcast"
	if err := ValidatePost(p); err == nil {
		t.Error("expected error for unknown type")
	}
}
