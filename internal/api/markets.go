package api

import (
	"context"
	"fmt"

	"github.com/rickgao/betfair-soap/internal/model"
	"github.com/rickgao/betfair-soap/internal/validate"
)

// GetCompleteMarketPrices fetches and decodes the complete price ladders of a
// market, including prices outside the best three.
func (c *Client) GetCompleteMarketPrices(ctx context.Context, marketID int64) (*model.MarketPrices, error) {
	out, err := c.CallDecoded(ctx, OpGetCompleteMarketPricesCompressed, c.marketArgs(marketID))
	if err != nil {
		return nil, fmt.Errorf("get complete market prices %d: %w", marketID, err)
	}
	return out.(*model.MarketPrices), nil
}

// GetMarketPrices fetches and decodes the best available prices of a market.
func (c *Client) GetMarketPrices(ctx context.Context, marketID int64) (*model.MarketPrices, error) {
	out, err := c.CallDecoded(ctx, OpGetMarketPricesCompressed, c.marketArgs(marketID))
	if err != nil {
		return nil, fmt.Errorf("get market prices %d: %w", marketID, err)
	}
	return out.(*model.MarketPrices), nil
}

// GetMarketTradedVolume fetches and decodes the traded volume of a market.
func (c *Client) GetMarketTradedVolume(ctx context.Context, marketID int64) (*model.MarketVolume, error) {
	out, err := c.CallDecoded(ctx, OpGetMarketTradedVolumeCompressed, c.marketArgs(marketID))
	if err != nil {
		return nil, fmt.Errorf("get market traded volume %d: %w", marketID, err)
	}
	return out.(*model.MarketVolume), nil
}

// CallDecoded calls a compressed operation and decodes its payload with the
// operation's decoder: *model.MarketPrices or *model.MarketVolume.
func (c *Client) CallDecoded(ctx context.Context, name OperationName, args validate.Args) (any, error) {
	op, ok := LookupOperation(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, name)
	}
	if !op.Compressed() {
		return nil, fmt.Errorf("%s returns no compressed payload", name)
	}

	res, err := c.Call(ctx, name, args)
	if err != nil {
		return nil, err
	}

	out, err := op.Decode(res.Value(op.Payload))
	if err != nil {
		return nil, c.decodeFailed(err)
	}
	return out, nil
}

func (c *Client) marketArgs(marketID int64) validate.Args {
	args := c.exchangeArgs()
	args["marketId"] = marketID
	return args
}

// decodeFailed records a payload decode failure in the session diagnostics.
func (c *Client) decodeFailed(err error) error {
	c.session.Message = err.Error()
	c.logger.Warn("malformed compressed payload",
		"op", c.session.Operation,
		"request_id", c.session.RequestID,
		"error", err,
	)
	return err
}
