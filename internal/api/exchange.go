package api

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rickgao/betfair-soap/internal/model"
	"github.com/rickgao/betfair-soap/internal/validate"
)

// exchangeArgs returns an argument set routed to the client's exchange.
func (c *Client) exchangeArgs() validate.Args {
	return validate.Args{ExchangeIDParam: int(c.exchange)}
}

// GetAccountFunds returns the wallet balances on the client's exchange.
func (c *Client) GetAccountFunds(ctx context.Context) (*model.AccountFunds, error) {
	res, err := c.Call(ctx, OpGetAccountFunds, c.exchangeArgs())
	if err != nil {
		return nil, fmt.Errorf("get account funds: %w", err)
	}

	return &model.AccountFunds{
		AvailBalance:         ParseDecimal(res.Value("availBalance")),
		Balance:              ParseDecimal(res.Value("balance")),
		CommissionRetain:     ParseDecimal(res.Value("commissionRetain")),
		CreditLimit:          ParseDecimal(res.Value("creditLimit")),
		CurrentBetfairPoints: ParseInt(res.Value("currentBetfairPoints")),
		Exposure:             ParseDecimal(res.Value("exposure")),
		ExposureLimit:        ParseDecimal(res.Value("exposureLimit")),
		Withdrawable:         ParseDecimal(res.Value("withdrawable")),
	}, nil
}

// PlaceBet describes one bet to place.
type PlaceBet struct {
	MarketID           int64
	SelectionID        int64
	AsianLineID        int64
	BetType            string // "B" back or "L" lay
	BetCategoryType    string // "E" exchange (default), "M" market on close, "L" limit on close
	BetPersistenceType string // "NONE" (default), "IP" in-play, "SP" starting price
	Price              decimal.Decimal
	Size               decimal.Decimal
	BSPLiability       decimal.Decimal // sent only when non-zero
}

func (b PlaceBet) args() validate.Args {
	category := b.BetCategoryType
	if category == "" {
		category = "E"
	}
	persistence := b.BetPersistenceType
	if persistence == "" {
		persistence = "NONE"
	}

	a := validate.Args{
		"asianLineId":        b.AsianLineID,
		"betType":            b.BetType,
		"betCategoryType":    category,
		"betPersistenceType": persistence,
		"marketId":           b.MarketID,
		"price":              b.Price,
		"selectionId":        b.SelectionID,
		"size":               b.Size,
	}
	if !b.BSPLiability.IsZero() {
		a["bspLiability"] = b.BSPLiability
	}
	return a
}

// PlaceBets submits bets and returns one result per bet in request order.
func (c *Client) PlaceBets(ctx context.Context, bets []PlaceBet) ([]model.BetResult, error) {
	records := make([]validate.Args, 0, len(bets))
	for _, b := range bets {
		records = append(records, b.args())
	}

	args := c.exchangeArgs()
	args["bets"] = records

	res, err := c.Call(ctx, OpPlaceBets, args)
	if err != nil {
		return nil, fmt.Errorf("place bets: %w", err)
	}

	items := res.Node.Child("betResults").ChildrenNamed("PlaceBetsResult")
	out := make([]model.BetResult, 0, len(items))
	for _, n := range items {
		out = append(out, model.BetResult{
			BetID:               ParseInt(n.Value("betId")),
			AveragePriceMatched: ParseDecimal(n.Value("averagePriceMatched")),
			SizeMatched:         ParseDecimal(n.Value("sizeMatched")),
			ResultCode:          n.Value("resultCode"),
			Success:             ParseBool(n.Value("success")),
		})
	}
	return out, nil
}

// CancelBets cancels unmatched bets by id.
func (c *Client) CancelBets(ctx context.Context, betIDs []int64) ([]model.CancelResult, error) {
	records := make([]validate.Args, 0, len(betIDs))
	for _, id := range betIDs {
		records = append(records, validate.Args{"betId": id})
	}

	args := c.exchangeArgs()
	args["bets"] = records

	res, err := c.Call(ctx, OpCancelBets, args)
	if err != nil {
		return nil, fmt.Errorf("cancel bets: %w", err)
	}

	items := res.Node.Child("betResults").ChildrenNamed("CancelBetsResult")
	out := make([]model.CancelResult, 0, len(items))
	for _, n := range items {
		out = append(out, model.CancelResult{
			BetID:         ParseInt(n.Value("betId")),
			SizeCancelled: ParseDecimal(n.Value("sizeCancelled")),
			SizeMatched:   ParseDecimal(n.Value("sizeMatched")),
			ResultCode:    n.Value("resultCode"),
			Success:       ParseBool(n.Value("success")),
		})
	}
	return out, nil
}
