//go:build linux && amd64

package ports

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// HardwareBus talks to the real 8259A pair (and the ELCR on chipsets that
// expose one) over the x86 I/O address space. It requires IOPL 3, granted
// once at construction via unix.Iopl the same way core_engine's KVM path
// asks the kernel for a privileged capability before touching hardware.
type HardwareBus struct{}

// NewHardwareBus raises this process's IOPL to 3, the level IN/OUT (and,
// incidentally, CLI/STI) need outside ring 0. It must run as root or with
// CAP_SYS_RAWIO.
func NewHardwareBus() (*HardwareBus, error) {
	if err := unix.Iopl(3); err != nil {
		return nil, fmt.Errorf("ports: failed to raise IOPL: %w", err)
	}
	return &HardwareBus{}, nil
}

// defined in hardware_amd64.s
func in8(port uint16) uint8
func out8(port uint16, value uint8)

func (*HardwareBus) In8(port uint16) uint8 {
	return in8(port)
}

func (*HardwareBus) Out8(port uint16, value uint8) {
	out8(port, value)
}
