// Package sink exports classified comparisons as JSON for web front ends.
//
// [Build] flattens a [diff.Result] into a [Document]: both graphs with their
// words, every edge with its class, counterpart and render state, the list
// of edges the lane resolver moved, and the summary counts. [RenderJSON]
// marshals the document. The same document is what the HTTP API returns and
// what the comparison history stores, so a stored comparison can be drawn
// again without re-running it.
//
//	doc := sink.Build(result, sink.WithJSONSentence(text))
//	data, err := sink.RenderJSON(result, sink.WithJSONShift(shift))
package sink
