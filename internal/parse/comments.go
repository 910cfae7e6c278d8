package parse

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Comment is a single AUR package-page comment.
type Comment struct {
	ID        string
	Author    string
	DateText  string
	Timestamp *time.Time
	Body      string
	Pinned    bool
}

const commentTimestampLayout = "2006-01-02 15:04"

const commentAuthorSeparator = " commented on "

// ParseComments extracts comments from an AUR package page's HTML body,
// ordered with pinned comments first, each group sorted newest-first.
//
// AUR renders each comment as an "h4.comment-header" holding the author
// and date, with the comment body in a separate "div#comment-{id}-content"
// elsewhere in the document, and pinned comments as whichever ones appear
// before the page's "Latest Comments" heading.
func ParseComments(html string) ([]Comment, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	latestCommentsPos := strings.Index(strings.ToLower(html), "latest comments")
	hasPinnedSection := false
	doc.Find("h2, h3, h4").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if strings.Contains(h.Text(), "Pinned Comments") {
			hasPinnedSection = true
			return false
		}
		return true
	})

	seen := map[string]bool{}
	var comments []Comment
	doc.Find("h4.comment-header").Each(func(index int, header *goquery.Selection) {
		id, _ := header.Attr("id")
		if id != "" {
			if seen[id] {
				return
			}
			seen[id] = true
		}

		headerText := header.Text()
		author := ""
		if pos := strings.Index(headerText, commentAuthorSeparator); pos >= 0 {
			author = strings.TrimSpace(headerText[:pos])
		} else if fields := strings.Fields(headerText); len(fields) > 0 {
			author = fields[0]
		}

		dateText := strings.TrimSpace(header.Find("a.date").First().Text())
		ts := parseCommentTimestamp(dateText)

		body := ""
		if commentID := strings.TrimPrefix(id, "comment-"); commentID != "" {
			body = strings.TrimSpace(doc.Find("div#comment-" + commentID + "-content").First().Text())
		}

		if body == "" && author == "" {
			return
		}

		comments = append(comments, Comment{
			ID:        id,
			Author:    author,
			DateText:  dateText,
			Timestamp: ts,
			Body:      body,
			Pinned:    isPinnedComment(html, id, index, hasPinnedSection, latestCommentsPos),
		})
	})

	sort.SliceStable(comments, func(i, j int) bool {
		if comments[i].Pinned != comments[j].Pinned {
			return comments[i].Pinned
		}
		ti, tj := comments[i].Timestamp, comments[j].Timestamp
		switch {
		case ti != nil && tj != nil:
			return ti.After(*tj)
		case ti != nil:
			return true
		case tj != nil:
			return false
		default:
			return comments[i].DateText > comments[j].DateText
		}
	})

	return comments, nil
}

// isPinnedComment reports whether a comment sits before the page's "Latest
// Comments" heading, i.e. in the pinned section rather than the regular
// comment stream. Position is located by the comment ID's raw byte offset
// in the source HTML, since goquery discards document order once elements
// are collected into a Selection.
func isPinnedComment(html, id string, index int, hasPinnedSection bool, latestCommentsPos int) bool {
	if !hasPinnedSection || latestCommentsPos < 0 {
		return false
	}
	if id == "" {
		return index < 10
	}
	pos := strings.Index(html, id)
	if pos < 0 {
		return index < 10
	}
	return pos < latestCommentsPos
}

// parseCommentTimestamp extracts a "YYYY-MM-DD HH:MM" prefix from an
// "a.date" anchor's text and parses it as UTC. Returns nil on any format
// it doesn't recognize, including translated locale variants.
func parseCommentTimestamp(text string) *time.Time {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if paren := strings.IndexByte(text, '('); paren >= 0 {
		text = strings.TrimSpace(text[:paren])
	}
	if t, err := time.Parse(commentTimestampLayout, text); err == nil {
		utc := t.UTC()
		return &utc
	}

	fields := strings.Fields(text)
	for i := 0; i+1 < len(fields); i++ {
		candidate := fields[i] + " " + fields[i+1]
		if t, err := time.Parse(commentTimestampLayout, candidate); err == nil {
			utc := t.UTC()
			return &utc
		}
	}

	if ts, err := strconv.ParseInt(text, 10, 64); err == nil {
		utc := time.Unix(ts, 0).UTC()
		return &utc
	}
	return nil
}
