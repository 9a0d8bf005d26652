package validate

// Tag names the validation rule applied to a parameter value.
type Tag string

// Structural tags.
const (
	TagInt        Tag = "int"
	TagDecimal    Tag = "decimal"
	TagDate       Tag = "date"
	TagBoolean    Tag = "boolean"
	TagString     Tag = "string"
	TagString9    Tag = "string9"
	TagUsername   Tag = "username"
	TagPassword   Tag = "password"
	TagCardDate   Tag = "cardDate"
	TagCV2        Tag = "cv2"
	TagArrayInt   Tag = "arrayInt"
	TagExchangeID Tag = "exchangeId"

	// TagRecords marks a list of nested argument sets; the element schema lives on
	// the Param. Check never accepts it on its own.
	TagRecords Tag = "records"
)

// Enumerated tags.
const (
	TagAccountStatementIncludeEnum Tag = "accountStatementIncludeEnum"
	TagAccountStatusEnum           Tag = "accountStatusEnum"
	TagAccountTypeEnum             Tag = "accountTypeEnum"
	TagBetCategoryTypeEnum         Tag = "betCategoryTypeEnum"
	TagBetPersistenceTypeEnum      Tag = "betPersistenceTypeEnum"
	TagBetsOrderByEnum             Tag = "betsOrderByEnum"
	TagBetStatusEnum               Tag = "betStatusEnum"
	TagBetTypeEnum                 Tag = "betTypeEnum"
	TagBillingPeriodEnum           Tag = "billingPeriodEnum"
	TagCardTypeEnum                Tag = "cardTypeEnum"
	TagGamcareLimitFreqEnum        Tag = "gamcareLimitFreqEnum"
	TagGenderEnum                  Tag = "genderEnum"
	TagMarketStatusEnum            Tag = "marketStatusEnum"
	TagMarketTypeEnum              Tag = "marketTypeEnum"
	TagMarketTypeVariantEnum       Tag = "marketTypeVariantEnum"
	TagPaymentCardStatusEnum       Tag = "paymentCardStatusEnum"
	TagRegionEnum                  Tag = "regionEnum"
	TagSecurityQuestion1Enum       Tag = "securityQuestion1Enum"
	TagSecurityQuestion2Enum       Tag = "securityQuestion2Enum"
	TagServiceEnum                 Tag = "serviceEnum"
	TagSortOrderEnum               Tag = "sortOrderEnum"
	TagSubscriptionStatusEnum      Tag = "subscriptionStatusEnum"
	TagTitleEnum                   Tag = "titleEnum"
	TagWalletEnum                  Tag = "walletEnum"
)

// IsEnum reports whether the tag selects an enumerated domain.
func (t Tag) IsEnum() bool {
	_, ok := enums[t]
	return ok
}

// Known reports whether the tag selects any validation rule.
func (t Tag) Known() bool {
	if t.IsEnum() {
		return true
	}
	_, ok := structural[t]
	return ok
}
