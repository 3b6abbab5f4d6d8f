package reputation

import (
	"context"

	"github.com/bmorros-uoc/wallet-scoring-system/internal/etherscan"
)

// EtherscanProvider adapts the Etherscan nametag API to LabelProvider.
type EtherscanProvider struct {
	client *etherscan.Client
}

// NewEtherscanProvider creates a provider backed by the Etherscan client.
func NewEtherscanProvider(client *etherscan.Client) *EtherscanProvider {
	return &EtherscanProvider{client: client}
}

// Compile-time interface check.
var _ LabelProvider = (*EtherscanProvider)(nil)

// LookupLabel fetches the address tag and converts it to LabelInfo.
func (p *EtherscanProvider) LookupLabel(ctx context.Context, address string) (*LabelInfo, error) {
	tag, err := p.client.AddressTag(ctx, address)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, nil
	}
	return &LabelInfo{Labels: tag.Labels, Slugs: tag.LabelSlugs}, nil
}

// Configured reports whether the client has an API credential.
func (p *EtherscanProvider) Configured() bool {
	return p.client.Configured()
}

// Source identifies the Etherscan nametag API in diagnostics.
func (p *EtherscanProvider) Source() string {
	return SourceEtherscanNametag
}
