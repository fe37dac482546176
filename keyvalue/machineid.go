package keyvalue

import (
	"crypto/sha1"
	"encoding/hex"
)

// hashHex returns hex(sha1(s)) — the original's "hash the hex-string
// representation" pattern: hex-encode the input first is the caller's job
// (machineGuid/macAddress/diskId are already hex strings by the time they
// reach here), this just does the SHA-1 + hex-encode step.
func hashHex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// BuildMachineID constructs the machine_id KeyValue tree CMsgClientLogon
// expects: BB3 = sha1(hex(machineGuid)), FF2 = sha1(hex(macAddress)),
// 3B3 = sha1(hex(diskID)).
func BuildMachineID(machineGUIDHex, macAddressHex, diskIDHex string) []byte {
	root := &Node{Name: "MessageObject"}
	root.String("BB3", hashHex(machineGUIDHex))
	root.String("FF2", hashHex(macAddressHex))
	root.String("3B3", hashHex(diskIDHex))
	return Serialize(root)
}
