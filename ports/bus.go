// Package ports gives the interrupt-arbitration core a narrow view of the
// x86 I/O address space: single-byte reads and writes to the handful of
// 8259A and ELCR ports it needs, nothing else. HandleIO on the teacher's
// IOBus plays the same role from the device side; Bus plays it from the
// driver side, which is why the direction is reversed (we are the caller,
// not the dispatch target).
package ports

// Bus is the byte-granular port I/O a driver needs to program the PIC
// pair. A real kernel backs it with IN/OUT; tests back it with an
// in-memory recorder.
type Bus interface {
	In8(port uint16) uint8
	Out8(port uint16, value uint8)
}
