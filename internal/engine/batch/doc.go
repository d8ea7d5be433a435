// Package batch splits a slice into fixed-size batches and runs a callback
// over them, sequentially or with bounded concurrency, reporting progress
// after each batch. The estimator uses it to size many rooms at once.
package batch
