package keyvalue

import "testing"

func TestSerializeLeafNode(t *testing.T) {
	n := &Node{Name: "key", Value: "value"}
	data := Serialize(n)
	want := []byte{byte(typeString)}
	want = append(want, []byte("key")...)
	want = append(want, 0)
	want = append(want, []byte("value")...)
	want = append(want, 0)
	if string(data) != string(want) {
		t.Fatalf("got %v, want %v", data, want)
	}
}

func TestSerializeParentNodeDoubleEndMarker(t *testing.T) {
	root := &Node{Name: "root"}
	root.String("a", "1")

	data := Serialize(root)
	if len(data) < 2 {
		t.Fatal("serialized data too short")
	}
	last := data[len(data)-2:]
	if last[0] != byte(typeEnd) || last[1] != byte(typeEnd) {
		t.Fatalf("expected double End marker, got %v", last)
	}
}

func TestBuildMachineIDIsDeterministic(t *testing.T) {
	a := BuildMachineID("guid", "mac", "disk")
	b := BuildMachineID("guid", "mac", "disk")
	if string(a) != string(b) {
		t.Fatal("expected deterministic output for identical inputs")
	}
	c := BuildMachineID("other", "mac", "disk")
	if string(a) == string(c) {
		t.Fatal("expected different output for different machine guid")
	}
}
