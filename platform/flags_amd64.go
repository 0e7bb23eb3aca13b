//go:build linux && amd64

package platform

// HardwareFlags implements InterruptFlags on real x86-64 hardware (or a
// hypervisor guest running in ring 0, or a ring-3 process that has been
// granted IOPL 3 via unix.Iopl — CLI/STI are IOPL-sensitive instructions,
// not strictly ring-0-only, the same property ports.HardwareBus relies on
// for IN/OUT). The actual flag read/write/cli/sti sequence lives in
// flags_amd64.s because Go has no inline-assembly story for single
// privileged instructions.
type HardwareFlags struct{}

// defined in flags_amd64.s
func readEflags() uint64
func disableInterrupts()
func enableInterrupts()

const eflagsIF = 1 << 9

func (HardwareFlags) Disable() bool {
	wasEnabled := readEflags()&eflagsIF != 0
	disableInterrupts()
	return wasEnabled
}

func (HardwareFlags) Restore(wasEnabled bool) {
	if wasEnabled {
		enableInterrupts()
	} else {
		disableInterrupts()
	}
}

func (HardwareFlags) Enable() {
	enableInterrupts()
}
