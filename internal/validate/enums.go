package validate

import "sort"

type set map[string]struct{}

func newSet(members ...string) set {
	s := make(set, len(members))
	for _, m := range members {
		s[m] = struct{}{}
	}
	return s
}

// enums holds the member lists of the exchange's published enumerations.
// They are part of the remote contract and must not be normalised.
var enums = map[Tag]set{
	TagAccountStatementIncludeEnum: newSet("ALL", "DEPOSITS_WITHDRAWALS", "EXCHANGE", "POKER_ROOM"),
	TagAccountStatusEnum:           newSet("A", "C", "D", "L", "P", "S", "T", "X"),
	TagAccountTypeEnum:             newSet("STANDARD", "MARGIN", "TRADING", "AGENT_CLIENT"),
	TagBetCategoryTypeEnum:         newSet("NONE", "E", "M", "L"),
	TagBetPersistenceTypeEnum:      newSet("NONE", "IP", "SP"),
	TagBetsOrderByEnum: newSet(
		"BET_ID", "CANCELLED_DATE", "MARKET_NAME", "MATCHED_DATE", "NONE", "PLACED_DATE",
	),
	TagBetStatusEnum:     newSet("C", "L", "M", "MU", "S", "U", "V"),
	TagBetTypeEnum:       newSet("B", "L"),
	TagBillingPeriodEnum: newSet("WEEKLY", "MONTHLY", "QUARTERLY", "ANNUALLY"),
	TagCardTypeEnum: newSet(
		"VISA", "MASTERCARD", "VISA_DELTA", "SWITCH", "SOLO", "ELECTRON", "LASER",
		"MAESTRO", "INVALID_CARD_TYPE",
	),
	TagGamcareLimitFreqEnum:  newSet("DAILY", "WEEKLY", "MONTHLY", "YEARLY"),
	TagGenderEnum:            newSet("M", "F"),
	TagMarketStatusEnum:      newSet("ACTIVE", "INACTIVE", "CLOSED", "SUSPENDED"),
	TagMarketTypeEnum:        newSet("O", "L", "R", "A", "NOT_APPLICABLE"),
	TagMarketTypeVariantEnum: newSet("D", "ASL", "ADL", "COUP"),
	TagPaymentCardStatusEnum: newSet("LOCKED", "UNLOCKED"),
	TagRegionEnum:            newSet("AUZ_NZL", "GBR", "IRL", "NA", "NORD", "ZAF"),
	TagSecurityQuestion1Enum: newSet("SQ1A", "SQ1B", "SQ1C", "SQ1D"),
	TagSecurityQuestion2Enum: newSet("SQ2A", "SQ2B", "SQ2C", "SQ2D"),
	TagServiceEnum: newSet(
		"ADD_PAYMENT_CARD",
		"CANCEL_BETS",
		"CANCEL_BETS_BY_MARKET",
		"CONVERT_CURRENCY",
		"CREATE_ACCOUNT",
		"DELETE_PAYMENT_CARD",
		"DEPOSIT_FROM_PAYMENT_CARD",
		"DO_KEEP_ALIVE",
		"FORGOT_PASSWORD",
		"GET_ACCOUNT_FUNDS",
		"GET_ACCOUNT_STATEMENT",
		"GET_ACTIVE_EVENT_TYPES",
		"GET_ALL_CURRENCIES",
		"GET_ALL_CURRENCIES_V2",
		"GET_ALL_EVENT_TYPES",
		"GET_ALL_MARKETS",
		"GET_BET",
		"GET_BET_HISTORY",
		"GET_BET_LITE",
		"GET_BET_MATCHES_LITE",
		"GET_COMPLETE_MARKET_PRICES_COMPRESSED",
		"GET_COUPON",
		"GET_CURRENT_BETS",
		"GET_CURRENT_BETS_LITE",
		"GET_DETAIL_AVAILABLE_MARKET_DEPTH",
		"GET_EVENTS",
		"GET_IN_PLAY_MARKETS",
		"GET_MARKET",
		"GET_MARKET_INFO",
		"GET_MARKET_PRICES",
		"GET_MARKET_PRICES_COMPRESSED",
		"GET_MARKET_PROFIT_AND_LOSS",
		"GET_MARKET_TRADED_VOLUME",
		"GET_MARKET_TRADED_VOLUME_COMPRESSED",
		"GET_MU_BETS",
		"GET_MU_BETS_LITE",
		"GET_PAYMENT_CARD",
		"GET_PRIVATE_MARKETS",
		"GET_SILKS",
		"GET_SILKS_V2",
		"GET_SUBSCRIPTION_INFO",
		"LOGIN",
		"LOGOUT",
		"MODIFY_PASSWORD",
		"MODIFY_PROFILE",
		"PLACE_BETS",
		"RETRIEVE_LIMB_MESSAGE",
		"SELF_EXCLUDE",
		"SET_CHAT_NAME",
		"SUBMIT_LIMB_MESSAGE",
		"TRANSFER_FUNDS",
		"UPDATE_BETS",
		"UPDATE_PAYMENT_CARD",
		"VIEW_PROFILE",
		"VIEW_REFER_AND_EARN",
		"WITHDRAW_TO_PAYMENT_CARD",
	),
	TagSortOrderEnum:          newSet("ASC", "DESC"),
	TagSubscriptionStatusEnum: newSet("ACTIVE", "INACTIVE", "SUSPENDED"),
	TagTitleEnum:              newSet("Dr", "Mr", "Miss", "Mrs", "Ms"),
	TagWalletEnum:             newSet("UK", "AUSTRALIAN"),
}

// Members returns the sorted members of an enumerated tag, or nil if the tag is
// not an enum.
func Members(t Tag) []string {
	s, ok := enums[t]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(s))
	for m := range s {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// EnumTags returns every enumerated tag, sorted.
func EnumTags() []Tag {
	out := make([]Tag, 0, len(enums))
	for t := range enums {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func inEnum(t Tag, value string) bool {
	_, ok := enums[t][value]
	return ok
}
