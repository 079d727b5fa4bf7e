// Package protocol owns the simulator wire contract and parsing primitives.
//
// Ownership boundary:
// - packet header codec (flags, sequence, tiered message IDs, trailing acks)
// - zero-coding expansion/compression of packet bodies
// - the (frequency, id) -> message body registry and the bodies themselves
package protocol
