// Package parser drives Producer → Reader → visit loops over a file.
//
// Two disciplines share the same block primitives:
//   • Sequential runs everything on the calling goroutine, in file order.
//   • Parallel keeps block production on the calling goroutine and hands
//     each block to a bounded worker pool. The accumulator is shared by all
//     workers and must synchronize itself; the driver never locks it.
package parser
