package etherscan

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// AddressTag is the label metadata Etherscan publishes for a known address.
type AddressTag struct {
	NameTag    string   `json:"nametag"`
	Labels     []string `json:"labels"`
	LabelSlugs []string `json:"labels_slug"`
}

// AddressTag fetches reputation labels for an address (module=nametag,
// action=getaddresstag). Returns (nil, nil) when the address has no tag.
func (c *Client) AddressTag(ctx context.Context, address string) (*AddressTag, error) {
	if !c.Configured() {
		return nil, ErrNoAPIKey
	}

	params := url.Values{}
	params.Set("module", "nametag")
	params.Set("action", "getaddresstag")
	params.Set("address", address)

	resp, err := c.get(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("fetch address tag: %w", err)
	}

	if resp.Status != "1" {
		return nil, nil
	}

	var tags []*AddressTag
	if err := json.Unmarshal(resp.Result, &tags); err != nil {
		return nil, fmt.Errorf("decode address tag result: %w", err)
	}
	if len(tags) == 0 {
		return nil, nil
	}
	return tags[0], nil
}
