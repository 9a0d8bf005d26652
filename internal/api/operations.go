package api

import (
	"slices"

	"github.com/rickgao/betfair-soap/internal/compressed"
	"github.com/rickgao/betfair-soap/internal/soap"
	v "github.com/rickgao/betfair-soap/internal/validate"
)

// OperationName is the wire name of a service operation. It doubles as the
// SOAPAction header.
type OperationName string

// Global service operations.
const (
	OpLogin                  OperationName = "login"
	OpLogout                 OperationName = "logout"
	OpKeepAlive              OperationName = "keepAlive"
	OpGetActiveEventTypes    OperationName = "getActiveEventTypes"
	OpGetAllEventTypes       OperationName = "getAllEventTypes"
	OpGetEvents              OperationName = "getEvents"
	OpGetAllCurrencies       OperationName = "getAllCurrencies"
	OpGetAllCurrenciesV2     OperationName = "getAllCurrenciesV2"
	OpViewProfile            OperationName = "viewProfile"
	OpModifyPassword         OperationName = "modifyPassword"
	OpRetrieveLIMBMessage    OperationName = "retrieveLIMBMessage"
	OpGetSubscriptionInfo    OperationName = "getSubscriptionInfo"
	OpAddPaymentCard         OperationName = "addPaymentCard"
	OpDeletePaymentCard      OperationName = "deletePaymentCard"
	OpGetPaymentCard         OperationName = "getPaymentCard"
	OpUpdatePaymentCard      OperationName = "updatePaymentCard"
	OpDepositFromPaymentCard OperationName = "depositFromPaymentCard"
	OpWithdrawToPaymentCard  OperationName = "withdrawToPaymentCard"
	OpTransferFunds          OperationName = "transferFunds"
	OpConvertCurrency        OperationName = "convertCurrency"
	OpForgotPassword         OperationName = "forgotPassword"
	OpSetChatName            OperationName = "setChatName"
	OpViewReferAndEarn       OperationName = "viewReferAndEarn"
)

// Exchange service operations.
const (
	OpGetAccountFunds                   OperationName = "getAccountFunds"
	OpGetAccountStatement               OperationName = "getAccountStatement"
	OpGetAllMarkets                     OperationName = "getAllMarkets"
	OpGetBet                            OperationName = "getBet"
	OpGetBetHistory                     OperationName = "getBetHistory"
	OpGetCompleteMarketPricesCompressed OperationName = "getCompleteMarketPricesCompressed"
	OpGetCurrentBets                    OperationName = "getCurrentBets"
	OpGetMarket                         OperationName = "getMarket"
	OpGetMarketInfo                     OperationName = "getMarketInfo"
	OpGetMarketPricesCompressed         OperationName = "getMarketPricesCompressed"
	OpGetMarketTradedVolumeCompressed   OperationName = "getMarketTradedVolumeCompressed"
	OpGetMUBets                         OperationName = "getMUBets"
	OpGetInPlayMarkets                  OperationName = "getInPlayMarkets"
	OpPlaceBets                         OperationName = "placeBets"
	OpCancelBets                        OperationName = "cancelBets"
	OpUpdateBets                        OperationName = "updateBets"
	OpCancelBetsByMarket                OperationName = "cancelBetsByMarket"
)

// ExchangeIDParam names the routing argument of exchange operations. It is gated
// like any other parameter but selects the endpoint instead of going on the wire.
const ExchangeIDParam = "exchangeId"

// Decoder turns a compressed payload into its model type.
type Decoder func(wire string) (any, error)

// Operation is one entry of the dispatch table. Argument transforms (exchange id
// injection, login credentials) live in the typed wrappers.
type Operation struct {
	Name    OperationName
	Service soap.Service
	Schema  v.Schema

	// Payload names the Result leaf carrying a compressed payload and Decode
	// decodes it. Both are zero for plain XML results.
	Payload string
	Decode  Decoder
}

// Compressed reports whether the operation returns a compressed payload.
func (o Operation) Compressed() bool {
	return o.Decode != nil
}

func (o Operation) decodedBy(payload string, d Decoder) Operation {
	o.Payload = payload
	o.Decode = d
	return o
}

func decodePrices(variant compressed.Variant) Decoder {
	return func(wire string) (any, error) {
		return compressed.DecodeMarketPrices(wire, variant)
	}
}

func decodeVolume(wire string) (any, error) {
	return compressed.DecodeTradedVolume(wire)
}

// wireSchema returns the schema without the routing parameter.
func (o Operation) wireSchema() v.Schema {
	return slices.DeleteFunc(slices.Clone(o.Schema), func(p v.Param) bool {
		return o.Service == soap.ServiceExchange && p.Name == ExchangeIDParam
	})
}

func global(name OperationName, params ...v.Param) Operation {
	return Operation{Name: name, Service: soap.ServiceGlobal, Schema: params}
}

func exchange(name OperationName, params ...v.Param) Operation {
	schema := append(v.Schema{v.Req(ExchangeIDParam, v.TagExchangeID)}, params...)
	return Operation{Name: name, Service: soap.ServiceExchange, Schema: schema}
}

var placeBetSchema = v.Schema{
	v.Req("asianLineId", v.TagInt),
	v.Req("betType", v.TagBetTypeEnum),
	v.Req("betCategoryType", v.TagBetCategoryTypeEnum),
	v.Req("betPersistenceType", v.TagBetPersistenceTypeEnum),
	v.Req("marketId", v.TagInt),
	v.Req("price", v.TagDecimal),
	v.Req("selectionId", v.TagInt),
	v.Req("size", v.TagDecimal),
	v.Opt("bspLiability", v.TagDecimal),
}

var cancelBetSchema = v.Schema{
	v.Req("betId", v.TagInt),
}

var updateBetSchema = v.Schema{
	v.Req("betId", v.TagInt),
	v.Req("newBetPersistenceType", v.TagBetPersistenceTypeEnum),
	v.Req("newPrice", v.TagDecimal),
	v.Req("newSize", v.TagDecimal),
	v.Req("oldBetPersistenceType", v.TagBetPersistenceTypeEnum),
	v.Req("oldPrice", v.TagDecimal),
	v.Req("oldSize", v.TagDecimal),
}

var operations = index(
	global(OpLogin,
		v.Req("username", v.TagUsername),
		v.Req("password", v.TagPassword),
		v.Req("productId", v.TagInt),
		v.Req("vendorSoftwareId", v.TagInt),
		v.Req("locationId", v.TagInt),
		v.Req("ipAddress", v.TagString),
	),
	global(OpLogout),
	global(OpKeepAlive),
	global(OpGetActiveEventTypes, v.Opt("locale", v.TagString)),
	global(OpGetAllEventTypes, v.Opt("locale", v.TagString)),
	global(OpGetEvents,
		v.Req("eventParentId", v.TagInt),
		v.Opt("locale", v.TagString),
	),
	global(OpGetAllCurrencies),
	global(OpGetAllCurrenciesV2),
	global(OpViewProfile),
	global(OpModifyPassword,
		v.Req("password", v.TagPassword),
		v.Req("newPassword", v.TagPassword),
		v.Req("newPasswordRepeat", v.TagPassword),
	),
	global(OpRetrieveLIMBMessage),
	global(OpGetSubscriptionInfo),
	global(OpAddPaymentCard,
		v.Req("cardNumber", v.TagString),
		v.Req("cardType", v.TagCardTypeEnum),
		v.Opt("startDate", v.TagCardDate),
		v.Req("expiryDate", v.TagCardDate),
		v.Opt("issueNumber", v.TagString),
		v.Req("billingName", v.TagString),
		v.Req("nickName", v.TagString9),
		v.Req("password", v.TagPassword),
		v.Req("address1", v.TagString),
		v.Opt("address2", v.TagString),
		v.Opt("address3", v.TagString),
		v.Opt("address4", v.TagString),
		v.Opt("town", v.TagString),
		v.Opt("county", v.TagString),
		v.Req("zipCode", v.TagString),
		v.Req("country", v.TagString),
	),
	global(OpDeletePaymentCard,
		v.Req("nickName", v.TagString9),
		v.Req("password", v.TagPassword),
	),
	global(OpGetPaymentCard),
	global(OpUpdatePaymentCard,
		v.Req("nickName", v.TagString9),
		v.Opt("cardStatus", v.TagPaymentCardStatusEnum),
		v.Opt("startDate", v.TagCardDate),
		v.Opt("expiryDate", v.TagCardDate),
		v.Opt("issueNumber", v.TagString),
		v.Opt("billingName", v.TagString),
		v.Opt("address1", v.TagString),
		v.Opt("address2", v.TagString),
		v.Opt("address3", v.TagString),
		v.Opt("address4", v.TagString),
		v.Opt("town", v.TagString),
		v.Opt("county", v.TagString),
		v.Opt("zipCode", v.TagString),
		v.Opt("country", v.TagString),
	),
	global(OpDepositFromPaymentCard,
		v.Req("amount", v.TagDecimal),
		v.Req("cardIdentifier", v.TagString9),
		v.Req("cv2", v.TagCV2),
		v.Req("password", v.TagPassword),
	),
	global(OpWithdrawToPaymentCard,
		v.Req("amount", v.TagDecimal),
		v.Req("cardIdentifier", v.TagString9),
		v.Req("password", v.TagPassword),
	),
	global(OpTransferFunds,
		v.Req("sourceWalletId", v.TagInt),
		v.Req("targetWalletId", v.TagInt),
		v.Req("amount", v.TagDecimal),
	),
	global(OpConvertCurrency,
		v.Req("amount", v.TagDecimal),
		v.Req("fromCurrency", v.TagString),
		v.Req("toCurrency", v.TagString),
	),
	global(OpForgotPassword,
		v.Req("username", v.TagUsername),
		v.Req("emailAddress", v.TagString),
		v.Req("countryOfResidence", v.TagString),
		v.Opt("forgottenPasswordAnswer1", v.TagString),
		v.Opt("forgottenPasswordAnswer2", v.TagString),
		v.Opt("newPassword", v.TagPassword),
		v.Opt("newPasswordRepeat", v.TagPassword),
	),
	global(OpSetChatName,
		v.Req("password", v.TagPassword),
		v.Req("chatName", v.TagString),
	),
	global(OpViewReferAndEarn),

	exchange(OpGetAccountFunds),
	exchange(OpGetAccountStatement,
		v.Req("startRecord", v.TagInt),
		v.Req("recordCount", v.TagInt),
		v.Req("startDate", v.TagDate),
		v.Req("endDate", v.TagDate),
		v.Req("itemsIncluded", v.TagAccountStatementIncludeEnum),
		v.Opt("ignoreAutoTransfers", v.TagBoolean),
		v.Opt("locale", v.TagString),
	),
	exchange(OpGetAllMarkets,
		v.Opt("locale", v.TagString),
		v.Opt("eventTypeIds", v.TagArrayInt),
		v.Opt("fromDate", v.TagDate),
		v.Opt("toDate", v.TagDate),
	),
	exchange(OpGetBet,
		v.Req("betId", v.TagInt),
		v.Opt("locale", v.TagString),
	),
	exchange(OpGetBetHistory,
		v.Req("betTypesIncluded", v.TagBetStatusEnum),
		v.Req("detailed", v.TagBoolean),
		v.Req("eventTypeIds", v.TagArrayInt),
		v.Req("marketId", v.TagInt),
		v.Opt("locale", v.TagString),
		v.Opt("timezone", v.TagString),
		v.Req("placedDateFrom", v.TagDate),
		v.Req("placedDateTo", v.TagDate),
		v.Req("recordCount", v.TagInt),
		v.Req("sortBetsBy", v.TagBetsOrderByEnum),
		v.Req("startRecord", v.TagInt),
	),
	exchange(OpGetCompleteMarketPricesCompressed,
		v.Req("marketId", v.TagInt),
		v.Opt("currencyCode", v.TagString),
	).decodedBy("completeMarketPrices", decodePrices(compressed.VariantComplete)),
	exchange(OpGetCurrentBets,
		v.Req("betStatus", v.TagBetStatusEnum),
		v.Req("detailed", v.TagBoolean),
		v.Opt("locale", v.TagString),
		v.Opt("timezone", v.TagString),
		v.Req("marketId", v.TagInt),
		v.Req("orderBy", v.TagBetsOrderByEnum),
		v.Req("recordCount", v.TagInt),
		v.Req("startRecord", v.TagInt),
		v.Req("noTotalRecordCount", v.TagBoolean),
	),
	exchange(OpGetMarket,
		v.Req("marketId", v.TagInt),
		v.Opt("locale", v.TagString),
		v.Opt("includeCouponLinks", v.TagBoolean),
	),
	exchange(OpGetMarketInfo, v.Req("marketId", v.TagInt)),
	exchange(OpGetMarketPricesCompressed,
		v.Req("marketId", v.TagInt),
		v.Opt("currencyCode", v.TagString),
	).decodedBy("marketPrices", decodePrices(compressed.VariantLegacy)),
	exchange(OpGetMarketTradedVolumeCompressed,
		v.Req("marketId", v.TagInt),
		v.Opt("currencyCode", v.TagString),
	).decodedBy("tradedVolume", decodeVolume),
	exchange(OpGetMUBets,
		v.Req("betStatus", v.TagBetStatusEnum),
		v.Req("marketId", v.TagInt),
		v.Opt("betIds", v.TagArrayInt),
		v.Req("orderBy", v.TagBetsOrderByEnum),
		v.Req("sortOrder", v.TagSortOrderEnum),
		v.Req("recordCount", v.TagInt),
		v.Req("startRecord", v.TagInt),
		v.Opt("matchedSince", v.TagDate),
		v.Opt("excludeLastSecond", v.TagBoolean),
	),
	exchange(OpGetInPlayMarkets, v.Opt("locale", v.TagString)),
	exchange(OpPlaceBets, v.Records("bets", "PlaceBets", placeBetSchema)),
	exchange(OpCancelBets, v.Records("bets", "CancelBets", cancelBetSchema)),
	exchange(OpUpdateBets, v.Records("bets", "UpdateBets", updateBetSchema)),
	exchange(OpCancelBetsByMarket, v.Req("markets", v.TagArrayInt)),
)

func index(ops ...Operation) map[OperationName]Operation {
	m := make(map[OperationName]Operation, len(ops))
	for _, op := range ops {
		m[op.Name] = op
	}
	return m
}

// LookupOperation returns the dispatch table entry for name.
func LookupOperation(name OperationName) (Operation, bool) {
	op, ok := operations[name]
	return op, ok
}

// Operations returns every supported operation name, sorted.
func Operations() []OperationName {
	names := make([]OperationName, 0, len(operations))
	for name := range operations {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
