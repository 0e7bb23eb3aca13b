package platform

// FakeFlags is a deterministic, inspectable InterruptFlags used by
// irqcontroller's tests. Unlike HardwareFlags it never touches real CPU
// state and never depends on build tags, mirroring how
// devices.MockInterruptRaiser stands in for real interrupt delivery in the
// teacher's device tests.
type FakeFlags struct {
	Enabled      bool
	DisableCalls int
	RestoreCalls int
	EnableCalls  int
}

// NewFakeFlags returns a FakeFlags starting in the enabled state, the
// state a CPU is normally found in when a driver first touches it.
func NewFakeFlags() *FakeFlags {
	return &FakeFlags{Enabled: true}
}

func (f *FakeFlags) Disable() bool {
	f.DisableCalls++
	wasEnabled := f.Enabled
	f.Enabled = false
	return wasEnabled
}

func (f *FakeFlags) Restore(wasEnabled bool) {
	f.RestoreCalls++
	f.Enabled = wasEnabled
}

func (f *FakeFlags) Enable() {
	f.EnableCalls++
	f.Enabled = true
}
