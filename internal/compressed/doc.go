// Package compressed decodes the delimiter-packed price and traded volume strings
// the exchange embeds in getCompleteMarketPricesCompressed, getMarketPricesCompressed
// and getMarketTradedVolumeCompressed responses.
//
// Both formats use three delimiter levels:
//
//	:  separates the market header from each selection chunk
//	|  separates a selection's metadata segment from its price segment(s)
//	~  separates fields within a segment
//
// Free text in the header escapes delimiters with a backslash (`\:`, `\~`).
// Decoders are pure: a payload that breaks its positional contract returns a
// *WireFormatError and no partial result.
package compressed
