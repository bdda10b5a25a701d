// Package depgraph provides the annotation graph compared by arcdiff: an
// ordered word sequence plus labeled, directed edges over those words.
//
// # Overview
//
// A dependency parse of a sentence is drawn as arcs between word positions.
// Each arc is an [Edge] that points from a trigger word (the head, or
// predicate) to an anchor word (the dependent, or argument) and carries a
// relation type such as "nsubj" or "obl:in". Root relations have no trigger
// word at all; that case is modeled with the explicit [NoTrigger] variant
// instead of a sentinel index:
//
//	g := depgraph.New("universal-basic")
//	the := g.AddWord("The")
//	dog := g.AddWord("dog")
//	runs := g.AddWord("runs")
//	g.AddEdge(depgraph.Edge{Trigger: depgraph.TriggerWord(dog), Anchor: the, Reltype: "det"})
//	g.AddEdge(depgraph.Edge{Trigger: depgraph.TriggerWord(runs), Anchor: dog, Reltype: "nsubj"})
//	g.AddEdge(depgraph.Edge{Trigger: depgraph.NoTrigger(), Anchor: runs, Reltype: "root"})
//
// # Render State
//
// Every edge owns a [RenderState] (lane, slot, color) that renderers read to
// place the arc. The diff algorithm in package diff mutates render state and
// nothing else: relation types, triggers and anchors are never rewritten.
// [Graph.Reset] restores the default state so a graph can be compared again.
//
// # Invariants
//
// Word indices are 0-based, unique and contiguous. Every edge references
// words of its own graph; [Graph.AddEdge] rejects out-of-range references
// and [Graph.Validate] re-checks them for graphs whose edges were modified
// after construction.
//
// # Concurrency
//
// Graphs are not safe for concurrent use. A comparison owns both of its
// graphs for the duration of the pass.
package depgraph
