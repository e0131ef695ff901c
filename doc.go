// Package nodegen provides the runtime support imported by generated
// node types: decode-time constraint predicates, alias resolution,
// union discriminant dispatch and the generic per-format encoder.
//
// The generator itself lives under compiler/load (schema corpus
// loading), compiler/gen (reference resolution, inheritance
// flattening, union classification) and compiler/gen/golang (code
// emission). Generated code depends only on this package.
package nodegen
