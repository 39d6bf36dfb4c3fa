// Package yaml deserializes YAML documents.
//
// Scalars are reported by their resolved tag: !!null, !!bool, !!int (with
// hex, octal, and underscore forms), !!float (including .inf and .nan),
// !!str, and !!binary as base64-decoded bytes. Unrecognized tags fall back
// to the scalar text. Sequences and mappings stream in document order, and
// alias nodes are followed to their anchors.
//
// The adapter is context-unaware: a context request degrades to
// serde.ErrContextUnsupported.
package yaml

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ozars/serde"
)

// ContentType identifies this adapter in the format registry.
const ContentType = "application/yaml"

func init() {
	serde.RegisterFormat(ContentType, func(data []byte) serde.Deserializer {
		return NewDeserializer(data)
	})
}

// maxDepth bounds node recursion so pathological alias chains cannot spin
// the walker forever.
const maxDepth = 10000

// Deserializer parses a YAML document on first drive. It is single-use;
// sub-values streamed out of sequences and mappings may be driven
// repeatedly since they walk the already-decoded node tree.
type Deserializer struct {
	data     []byte
	consumed bool
}

// NewDeserializer returns an adapter over a YAML document.
func NewDeserializer(data []byte) *Deserializer {
	return &Deserializer{data: data}
}

// DeserializeAny reports the document's root value through the callback
// matching its resolved tag.
func (d *Deserializer) DeserializeAny(v serde.Visitor) (any, error) {
	if d.consumed {
		return nil, serde.NewConsumedError("yaml")
	}
	d.consumed = true

	var doc yaml.Node
	if err := yaml.Unmarshal(d.data, &doc); err != nil {
		return nil, serde.NewSyntaxError("yaml", err)
	}
	root := documentRoot(&doc)
	if root == nil {
		return nil, serde.NewNoContentError("yaml")
	}
	return walk(root, v, 0)
}

// documentRoot unwraps the document node, or returns nil for an empty
// document.
func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return nil
		}
		return doc.Content[0]
	}
	if doc.Kind == 0 {
		return nil
	}
	return doc
}

func walk(node *yaml.Node, v serde.Visitor, depth int) (any, error) {
	if depth > maxDepth {
		return nil, serde.NewSyntaxError("yaml", fmt.Errorf("nesting deeper than %d at line %d", maxDepth, node.Line))
	}
	switch node.Kind {
	case yaml.AliasNode:
		if node.Alias == nil {
			return nil, serde.NewSyntaxError("yaml", fmt.Errorf("unresolved alias at line %d", node.Line))
		}
		return walk(node.Alias, v, depth+1)

	case yaml.ScalarNode:
		return walkScalar(node, v)

	case yaml.SequenceNode:
		return v.VisitSeq(&seqAccess{nodes: node.Content, depth: depth + 1})

	case yaml.MappingNode:
		return v.VisitMap(&mapAccess{nodes: node.Content, depth: depth + 1})

	case yaml.DocumentNode:
		if len(node.Content) > 0 {
			return walk(node.Content[0], v, depth+1)
		}
	}
	return nil, serde.NewSyntaxError("yaml", fmt.Errorf("unexpected node kind %d at line %d", node.Kind, node.Line))
}

func walkScalar(node *yaml.Node, v serde.Visitor) (any, error) {
	switch node.Tag {
	case "!!null":
		return v.VisitNil()

	case "!!bool":
		switch strings.ToLower(node.Value) {
		case "true", "y", "yes", "on":
			return v.VisitBool(true)
		case "false", "n", "no", "off":
			return v.VisitBool(false)
		}
		return nil, serde.NewSyntaxError("yaml", fmt.Errorf("bad boolean %q at line %d", node.Value, node.Line))

	case "!!int":
		text := strings.ReplaceAll(node.Value, "_", "")
		if i, err := strconv.ParseInt(text, 0, 64); err == nil {
			return v.VisitInt(i)
		}
		if u, err := strconv.ParseUint(text, 0, 64); err == nil {
			return v.VisitUint(u)
		}
		return nil, serde.NewSyntaxError("yaml", fmt.Errorf("bad integer %q at line %d", node.Value, node.Line))

	case "!!float":
		switch strings.ToLower(node.Value) {
		case ".inf", "+.inf":
			return v.VisitFloat(math.Inf(1))
		case "-.inf":
			return v.VisitFloat(math.Inf(-1))
		case ".nan":
			return v.VisitFloat(math.NaN())
		}
		f, err := strconv.ParseFloat(strings.ReplaceAll(node.Value, "_", ""), 64)
		if err != nil {
			return nil, serde.NewSyntaxError("yaml", fmt.Errorf("bad float %q at line %d", node.Value, node.Line))
		}
		return v.VisitFloat(f)

	case "!!binary":
		b, err := base64.StdEncoding.DecodeString(stripSpace(node.Value))
		if err != nil {
			return nil, serde.NewSyntaxError("yaml", fmt.Errorf("bad binary at line %d: %v", node.Line, err))
		}
		return v.VisitBytes(b)

	default:
		// !!str, !!timestamp, and custom tags carry through as text.
		return v.VisitString(node.Value)
	}
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
}

// nodeDeserializer walks one node of the decoded tree. Unlike the root
// adapter it holds no consumption state and may be driven repeatedly.
type nodeDeserializer struct {
	node  *yaml.Node
	depth int
}

func (d nodeDeserializer) DeserializeAny(v serde.Visitor) (any, error) {
	return walk(d.node, v, d.depth)
}

type seqAccess struct {
	nodes []*yaml.Node
	depth int
	idx   int
}

func (a *seqAccess) NextElement() (serde.Deserializer, bool) {
	if a.idx >= len(a.nodes) {
		return nil, false
	}
	n := a.nodes[a.idx]
	a.idx++
	return nodeDeserializer{node: n, depth: a.depth}, true
}

type mapAccess struct {
	nodes []*yaml.Node
	depth int
	idx   int
}

func (a *mapAccess) NextEntry() (key, val serde.Deserializer, ok bool) {
	if a.idx+1 >= len(a.nodes) {
		return nil, nil, false
	}
	k, v := a.nodes[a.idx], a.nodes[a.idx+1]
	a.idx += 2
	return nodeDeserializer{node: k, depth: a.depth}, nodeDeserializer{node: v, depth: a.depth}, true
}
