package aurhttp

import "context"

// CommentsHTML fetches the raw HTML of an AUR package page for parsing by
// parse.ParseComments.
func (c *Client) CommentsHTML(ctx context.Context, pkg string) (string, error) {
	u := commentsBaseURL + pkg
	body, err := c.get(ctx, AurHost, "comments:"+pkg, u, c.retry.RetryComments)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
