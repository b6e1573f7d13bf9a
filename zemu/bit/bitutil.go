// Package bit provides utility functions for bit manipulation.
package bit

// Combine merges two bytes into a 16-bit value, high byte first.
func Combine(high, low byte) uint16 {
	return uint16(high)<<8 | uint16(low)
}

// High returns the most significant byte of a 16-bit value.
func High(value uint16) byte {
	return byte(value >> 8)
}

// Low returns the least significant byte of a 16-bit value.
func Low(value uint16) byte {
	return byte(value)
}
