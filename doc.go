// Package chute contains the core components of Chute, an asynchronous data
// loader which streams large, partitioned tabular datasets into fixed-size
// batches of numeric tensors for model training. This root package defines
// types which are employed during the regular use of the loader, as well as
// in the extension of the loader, and is an excellent overview of Chute's
// key concepts.
package chute
