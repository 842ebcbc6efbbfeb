package market

import (
	"context"
	"fmt"
	"strings"
)

// LogoURL probes the logo source for a company logo and returns its URL, or
// nil when no logo exists. Any transport failure or non-200 status also
// yields nil; a missing logo never fails a catalog refresh.
//
// Logo probes bypass the retry loop on purpose: they run thousands at a time
// during a refresh and a miss is as good as a timeout.
func (c *Client) LogoURL(ctx context.Context, symbol string) *string {
	url := fmt.Sprintf("%s/%s.com", c.logoBase, strings.ToLower(symbol))

	resp, err := c.client.R().SetContext(ctx).Get(url)
	if err != nil || resp.StatusCode() != 200 {
		return nil
	}
	return &url
}
