package transport

// BizCode is a strongly typed business code, used in the logging context
// to avoid accidental swaps with other ints.
type BizCode int
