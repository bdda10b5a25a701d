// Package odin reads and writes annotation payloads in the Odin JSON format
// returned by the annotation service.
//
// # Overview
//
// An Odin payload holds one or more documents, each with a list of
// sentences. A sentence carries the token columns (words, tags, lemmas,
// character offsets) and any number of named dependency graphs:
//
//	{
//	  "documents": {
//	    "": {
//	      "text": "The dog runs",
//	      "sentences": [{
//	        "words": ["The", "dog", "runs"],
//	        "tags":  ["DT", "NN", "VBZ"],
//	        "graphs": {
//	          "universal-basic": {
//	            "edges": [
//	              {"source": 1, "destination": 0, "relation": "det"},
//	              {"source": 2, "destination": 1, "relation": "nsubj"}
//	            ],
//	            "roots": [2]
//	          }
//	        }
//	      }]
//	    }
//	  },
//	  "mentions": []
//	}
//
// A bare document ({"text": ..., "sentences": [...]}) is accepted as well
// and treated as a payload with a single document under the empty ID.
//
// # Graph Conversion
//
// [SentenceGraph] turns one named graph into a [depgraph.Graph]: an edge's
// source becomes the trigger, its destination the anchor, and every root
// becomes an edge without trigger and relation "root". Edges come first in
// payload order, then roots.
//
// [NewSentence] and [Sentence.SetGraph] go the other way. The encoded edges
// carry a "render" object with the edge's lane, slot and color so a front
// end can draw a classified comparison without re-running it.
package odin
