// Package validate type-checks call arguments before they reach the network.
//
// Every exposed operation declares a Schema: an ordered list of parameters, each
// with a type Tag and a required flag. Validate gates an argument set against it
// in two phases: all supplied keys are checked for membership and type first,
// then the schema's required keys are checked for presence.
//
// Enumerated tags are checked by literal set membership against the exchange's
// published enum tables. Matching is exact and case-sensitive.
package validate
