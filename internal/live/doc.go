// Package live provides subscribable current-value streams.
//
// Value holds one current value and pushes every change to its subscribers.
// Hub carries change notices per table topic. Watch combines the two: it
// re-runs a query whenever one of its topics changes and streams the results.
//
// All streams conflate. A slow subscriber never blocks a writer; it sees the
// latest value and may miss intermediate ones. Streams close when the
// subscriber's context ends.
package live
