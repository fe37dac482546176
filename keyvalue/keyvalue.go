// Package keyvalue implements Steam's binary KeyValue tree serialization
// format, used here to build the machine_id field of CMsgClientLogon.
package keyvalue

import "bytes"

type dataType byte

const (
	typeNone   dataType = 0
	typeString dataType = 1
	typeInt32  dataType = 2
	typeUInt64 dataType = 7
	typeEnd    dataType = 8
	typeInt64  dataType = 10
)

// Node is one entry in a KeyValue tree: either a leaf string value or a
// parent with children.
type Node struct {
	Name     string
	Value    string
	Children []*Node
}

// String adds a string-valued child named name.
func (n *Node) String(name, value string) *Node {
	n.Children = append(n.Children, &Node{Name: name, Value: value})
	return n
}

// Serialize writes the tree rooted at n in Steam's binary KeyValue format.
// Matching the original implementation bit-for-bit, every parent node
// (including the root) emits its End marker twice; leaf nodes emit none.
func Serialize(n *Node) []byte {
	var buf bytes.Buffer
	serializeNode(&buf, n)
	return buf.Bytes()
}

func serializeNode(buf *bytes.Buffer, n *Node) {
	if len(n.Children) == 0 {
		buf.WriteByte(byte(typeString))
		writeCString(buf, n.Name)
		writeCString(buf, n.Value)
		return
	}

	buf.WriteByte(byte(typeNone))
	writeCString(buf, n.Name)
	for _, child := range n.Children {
		serializeNode(buf, child)
	}
	buf.WriteByte(byte(typeEnd))
	buf.WriteByte(byte(typeEnd))
}

func writeCString(buf *bytes.Buffer, s string) {
	buf.WriteString(s)
	buf.WriteByte(0)
}
