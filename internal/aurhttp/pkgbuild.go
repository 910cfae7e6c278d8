package aurhttp

import "context"

// PkgbuildText fetches the raw PKGBUILD text for pkg from the AUR cgit
// mirror, for parsing by parse.ParsePkgbuildDeps.
func (c *Client) PkgbuildText(ctx context.Context, pkg string) (string, error) {
	u := pkgbuildBaseURL + "?h=" + pkg
	body, err := c.get(ctx, CgitHost, "pkgbuild:"+pkg, u, c.retry.RetryPkgbuild)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// SrcinfoText fetches the raw .SRCINFO text for pkg from the AUR cgit
// mirror, for parsing by parse.ParseSrcinfo.
func (c *Client) SrcinfoText(ctx context.Context, pkg string) (string, error) {
	u := srcinfoBaseURL + "?h=" + pkg
	body, err := c.get(ctx, CgitHost, "srcinfo:"+pkg, u, c.retry.RetryPkgbuild)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
