// Package segment encodes characters as 7-segment digit patterns.
//
// Bit 0 through 6 light segments A through G, bit 7 lights the decimal point
// (or the colon, depending on how the module is wired):
//
//	 -A-
//	F   B
//	 -G-
//	E   C
//	 -D-  DP
package segment
