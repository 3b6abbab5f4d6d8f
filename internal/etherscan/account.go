package etherscan

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/bmorros-uoc/wallet-scoring-system/internal/domain"
)

// rawTransaction mirrors the Etherscan txlist result entry. All fields
// arrive as strings.
type rawTransaction struct {
	Hash      string `json:"hash"`
	TimeStamp string `json:"timeStamp"`
	From      string `json:"from"`
	To        string `json:"to"`
	Value     string `json:"value"`
}

// rawTokenTransfer mirrors the Etherscan tokentx result entry.
type rawTokenTransfer struct {
	Hash            string `json:"hash"`
	TimeStamp       string `json:"timeStamp"`
	ContractAddress string `json:"contractAddress"`
	TokenSymbol     string `json:"tokenSymbol"`
}

// NormalTransactions fetches the wallet's native value transfers in
// ascending timestamp order (module=account, action=txlist). A wallet with
// no history yields an empty slice.
func (c *Client) NormalTransactions(ctx context.Context, address string) ([]*domain.TransactionRecord, error) {
	if !c.Configured() {
		return nil, ErrNoAPIKey
	}

	params := url.Values{}
	params.Set("module", "account")
	params.Set("action", "txlist")
	params.Set("address", address)
	params.Set("startblock", "0")
	params.Set("endblock", "99999999")
	params.Set("sort", "asc")

	resp, err := c.get(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("fetch txlist: %w", err)
	}

	if resp.Status != "1" {
		if resp.resultString() == noTransactionsFound {
			return []*domain.TransactionRecord{}, nil
		}
		return nil, fmt.Errorf("txlist api error: %s (%s)", resp.Message, resp.resultString())
	}

	var raws []rawTransaction
	if err := json.Unmarshal(resp.Result, &raws); err != nil {
		return nil, fmt.Errorf("decode txlist result: %w", err)
	}

	txs := make([]*domain.TransactionRecord, 0, len(raws))
	for _, r := range raws {
		ts, err := strconv.ParseInt(r.TimeStamp, 10, 64)
		if err != nil {
			// Unparseable timestamp: the record cannot anchor longevity
			// math, drop it.
			continue
		}
		txs = append(txs, &domain.TransactionRecord{
			Hash:      r.Hash,
			Timestamp: ts,
			From:      strings.ToLower(r.From),
			To:        strings.ToLower(r.To),
			Value:     r.Value,
		})
	}
	return txs, nil
}

// TokenTransfers fetches the wallet's token movements in ascending
// timestamp order (module=account, action=tokentx).
func (c *Client) TokenTransfers(ctx context.Context, address string) ([]*domain.TokenTransferRecord, error) {
	if !c.Configured() {
		return nil, ErrNoAPIKey
	}

	params := url.Values{}
	params.Set("module", "account")
	params.Set("action", "tokentx")
	params.Set("address", address)
	params.Set("startblock", "0")
	params.Set("endblock", "99999999")
	params.Set("sort", "asc")

	resp, err := c.get(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("fetch tokentx: %w", err)
	}

	if resp.Status != "1" {
		// Etherscan sometimes answers status=0/NOTOK for wallets with no
		// token activity. Treat any non-success as empty here; the risk
		// indicator degrades to its default.
		return []*domain.TokenTransferRecord{}, nil
	}

	var raws []rawTokenTransfer
	if err := json.Unmarshal(resp.Result, &raws); err != nil {
		return nil, fmt.Errorf("decode tokentx result: %w", err)
	}

	transfers := make([]*domain.TokenTransferRecord, 0, len(raws))
	for _, r := range raws {
		ts, err := strconv.ParseInt(r.TimeStamp, 10, 64)
		if err != nil {
			continue
		}
		transfers = append(transfers, &domain.TokenTransferRecord{
			Hash:            r.Hash,
			Timestamp:       ts,
			ContractAddress: strings.ToLower(r.ContractAddress),
			TokenSymbol:     r.TokenSymbol,
		})
	}
	return transfers, nil
}
