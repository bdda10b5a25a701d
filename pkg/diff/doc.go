// Package diff classifies the edges of two annotation graphs of the same
// sentence and assigns display lanes to the edges only one graph has.
//
// # Overview
//
// Graph A is the reference (drawn first), graph B is compared against it.
// [Compare] walks every edge of B in insertion order, looks for a
// counterpart in A with the [Matcher] chosen for the comparison, and labels
// the edge:
//
//   - [Match]: a counterpart exists with the same relation type. No highlight.
//   - [Conflict]: a counterpart exists with a different relation type. Both
//     edges get the mode's conflict color.
//   - [UniqueB]: no counterpart. Colored [ColorUniqueB] and handed to the
//     lane resolver.
//
// A reverse scan then labels every A edge no B edge matched as [UniqueA]
// ([ColorUniqueA]). UniqueA edges keep their lane; only UniqueB edges are
// moved. The asymmetry mirrors the order the two graphs are drawn in and is
// kept for compatibility with existing renderings.
//
// # Matching Modes
//
// Two strategies decide whether two edges are the same relation instance:
//
//   - [ModeIndex] ([IndexMatcher]): word positions are aligned with
//     package align and anchors/triggers must land on the same A index.
//     Used when the tokenizations differ (e.g. enhanced graphs with copy
//     nodes).
//   - [ModeText] ([TextMatcher]): anchors and triggers must have equal
//     surface forms. Used when both graphs share a tokenization.
//
// [ModeAuto] picks text mode for token-identical sequences and index mode
// otherwise. The matcher is chosen once per comparison; modes are never
// mixed.
//
// # Lanes
//
// Two edges of B spanning the same pair of aligned positions would be drawn
// on top of each other. For every UniqueB edge the resolver computes the
// unordered position pair ([Key]) and, if another B edge spans the same
// pair, moves the edge to the bottom lane with a slot no other UniqueB edge
// on that pair uses. The pass is greedy and single-shot: it does not
// minimize the number of slots and never moves Match or Conflict edges.
//
// # Limitations
//
// When several A edges match one B edge only the first (in A's insertion
// order) takes part in the relation type comparison; [Outcome.Candidates]
// reports how many there were.
package diff
