package segment

import (
	"strings"

	"github.com/autoblogdata/autobot/engine/htmldoc"
)

// CompetitorsMarker is the sentinel text that introduces the competitor
// block on a launch page.
const CompetitorsMarker = "COMPETIDORES"

// DefaultSiteDomain scopes link extraction to the site's own launch pages.
const DefaultSiteDomain = "www.autoblog.com.uy"

// launchToken appears in the path of every launch-post URL.
const launchToken = "lanzamiento"

// Link is a related-entity reference extracted from a post.
type Link struct {
	URL  string
	Name string
}

// CompetitorLinks returns the launch-page links following the competitors
// marker, in document order, not deduplicated. Returns nil when the marker
// is absent. Only self-referential launch links count: the href must
// contain both the site domain and the launch token.
func CompetitorLinks(doc *htmldoc.Doc, domain string) []Link {
	return filterLaunchAnchors(doc.AnchorsAfter(isMarker), domain)
}

// LaunchLinks returns the launch-page links in the post body, stopping at
// the competitors marker so the competitor block is not mistaken for a
// body reference. When the marker is absent the whole document is scanned.
func LaunchLinks(doc *htmldoc.Doc, domain string) []Link {
	return filterLaunchAnchors(doc.AnchorsBefore(isMarker), domain)
}

func filterLaunchAnchors(anchors []htmldoc.Anchor, domain string) []Link {
	if domain == "" {
		domain = DefaultSiteDomain
	}
	var out []Link
	for _, a := range anchors {
		if strings.Contains(a.Href, domain) && strings.Contains(a.Href, launchToken) {
			out = append(out, Link{URL: a.Href, Name: a.Text})
		}
	}
	return out
}

func isMarker(text string) bool {
	text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), ":"))
	return strings.EqualFold(text, CompetitorsMarker)
}
