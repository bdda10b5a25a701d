package pipeline

import (
	"strings"

	"github.com/matzehuels/arcdiff/pkg/conllu"
	"github.com/matzehuels/arcdiff/pkg/depgraph"
	apperrors "github.com/matzehuels/arcdiff/pkg/errors"
	"github.com/matzehuels/arcdiff/pkg/odin"
)

// Decode builds the named graph from a payload in the given input format.
func Decode(input string, payload []byte, graph string) (*depgraph.Graph, error) {
	if len(strings.TrimSpace(string(payload))) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "empty %s payload", input)
	}
	switch input {
	case InputOdin:
		return odin.PayloadGraph(payload, graph)
	case InputCoNLLU:
		return conllu.SentenceGraph(payload, graph)
	default:
		return nil, ValidateInput(input)
	}
}

// sentenceText joins the words of g with single spaces.
func sentenceText(g *depgraph.Graph) string {
	return strings.Join(g.Texts(), " ")
}
