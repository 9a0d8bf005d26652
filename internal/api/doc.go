// Package api provides the Betfair SOAP session facade.
//
// Endpoints:
//   - Global service (v3): https://api.betfair.com/global/v3/BFGlobalService
//   - UK exchange (v5): https://api.betfair.com/exchange/v5/BFExchangeService
//   - Australian exchange (v5): https://api-au.betfair.com/exchange/v5/BFExchangeService
//
// Every operation goes through Client.Call: arguments are gated against the
// operation's schema, rendered into an envelope, posted, and the response tree is
// checked for header and body error codes. The client remembers the session token
// handed back by the server and sends it on the next call.
//
// A Client is not safe for concurrent use. Concurrent callers own separate clients.
package api
