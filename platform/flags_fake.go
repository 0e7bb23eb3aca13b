//go:build !(linux && amd64)

package platform

// HardwareFlags falls back to a process-wide software flag on platforms
// without a privileged CLI/STI trampoline. It is never exercised on the
// real hardware path but keeps the package buildable off amd64/linux, the
// same role core_engine.network's non-Linux tap stub plays.
type HardwareFlags struct{}

var softwareInterruptsEnabled = true

func (HardwareFlags) Disable() bool {
	wasEnabled := softwareInterruptsEnabled
	softwareInterruptsEnabled = false
	return wasEnabled
}

func (HardwareFlags) Restore(wasEnabled bool) {
	softwareInterruptsEnabled = wasEnabled
}

func (HardwareFlags) Enable() {
	softwareInterruptsEnabled = true
}
