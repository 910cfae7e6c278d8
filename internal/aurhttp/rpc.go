package aurhttp

import (
	"context"
	"net/url"
	"sort"
	"strings"

	"github.com/archtoolkit/arch-toolkit-go/internal/parse"
)

// Search issues an AUR RPC v5 search-by-name request for query.
func (c *Client) Search(ctx context.Context, query string) (parse.AurRPCResponse, error) {
	u := rpcBaseURL + "?" + url.Values{
		"v":    {"5"},
		"type": {"search"},
		"by":   {"name"},
		"arg":  {query},
	}.Encode()

	body, err := c.get(ctx, AurHost, "search:"+query, u, c.retry.RetrySearch)
	if err != nil {
		return parse.AurRPCResponse{}, err
	}
	return parse.ParseAurRPCResponse(body)
}

// Info issues an AUR RPC v5 info request for a batch of package names.
func (c *Client) Info(ctx context.Context, names []string) (parse.AurRPCResponse, error) {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	sfKey := "info:" + strings.Join(sorted, ",")

	values := url.Values{"v": {"5"}, "type": {"info"}}
	for _, n := range names {
		values.Add("arg[]", n)
	}
	u := rpcBaseURL + "?" + values.Encode()

	body, err := c.get(ctx, AurHost, sfKey, u, c.retry.RetryInfo)
	if err != nil {
		return parse.AurRPCResponse{}, err
	}
	return parse.ParseAurRPCResponse(body)
}
