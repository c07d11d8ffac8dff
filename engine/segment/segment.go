// Package segment splits a post's rendered text into titled sections and
// extracts competitor launch links from launch pages.
package segment

import "strings"

// SectionTitles is the fixed header vocabulary recognised in article bodies.
var SectionTitles = []string{
	"EXTERIOR",
	"INTERIOR",
	"MOTOR",
	"SEGURIDAD",
	"EQUIPAMIENTO",
	"PRECIO",
	"FICHA TÉCNICA",
	"MOTORES, BATERÍA Y TRANSMISIÓN",
	"A favor",
	"En contra",
	"CONCLUSIÓN",
	"COMPETIDORES",
}

// TerminalTitle ends segmentation for the remainder of the document.
const TerminalTitle = "FICHA TÉCNICA"

// IntroductionTitle is the legacy title for pre-header content. The
// segmenter discards that content, but stored sections from older runs may
// still carry it.
const IntroductionTitle = "INTRODUCCIÓN"

// Section is one titled slice of an article body.
type Section struct {
	Title   string
	Content string
}

type state int

const (
	scanning state = iota
	inSection
	done
)

// Segmenter is a stateful line scanner. One instance per document; feed the
// document's block lines in order, then call Finish.
type Segmenter struct {
	st       state
	title    string
	parts    []string
	sections []Section
}

// New returns a Segmenter in the scanning state.
func New() *Segmenter {
	return &Segmenter{}
}

// Feed advances the state machine by one trimmed, non-empty text line.
func (s *Segmenter) Feed(line string) {
	if s.st == done {
		return
	}

	title, isHeader := matchTitle(line)
	if !isHeader {
		if s.st == inSection {
			s.parts = append(s.parts, line)
		}
		// Lines before the first recognised header are discarded.
		return
	}

	s.flush()
	if strings.EqualFold(title, TerminalTitle) {
		s.st = done
		return
	}
	s.st = inSection
	s.title = title
}

// Finish flushes the open section, if any, and returns the ordered sections.
func (s *Segmenter) Finish() []Section {
	s.flush()
	s.st = done
	return s.sections
}

func (s *Segmenter) flush() {
	if s.st != inSection {
		return
	}
	content := strings.Join(strings.Fields(strings.Join(s.parts, " ")), " ")
	if content != "" {
		s.sections = append(s.sections, Section{Title: s.title, Content: content})
	}
	s.parts = nil
}

// Split runs a fresh Segmenter over the given lines.
func Split(lines []string) []Section {
	s := New()
	for _, line := range lines {
		s.Feed(line)
	}
	return s.Finish()
}

// matchTitle tests a line against the header vocabulary, case-insensitively
// and with an optional trailing colon, returning the canonical title.
func matchTitle(line string) (string, bool) {
	line = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), ":"))
	for _, t := range SectionTitles {
		if strings.EqualFold(line, t) {
			return t, true
		}
	}
	return "", false
}
