// Package platform isolates the two privileged CPU primitives the
// interrupt-arbitration core needs: disabling/restoring the interrupt
// flag, and constructing the one-instruction synthetic interrupt used to
// replay a deferred hardware IRQ. Both have a real amd64/linux
// implementation backed by a small assembly trampoline, and a fake used by
// every other build and by tests.
package platform

// InterruptFlags brackets a critical section against preemption by a
// hardware interrupt, mirroring __readeflags/_disable/__writeeflags in the
// original HAL. Disable returns whether interrupts were enabled beforehand;
// Restore puts the flag back exactly as Disable found it.
type InterruptFlags interface {
	// Disable masks CPU interrupts and reports whether they were enabled
	// before the call.
	Disable() (wasEnabled bool)

	// Restore sets the interrupt-enable flag to wasEnabled, as returned by
	// a prior Disable call.
	Restore(wasEnabled bool)

	// Enable unconditionally unmasks CPU interrupts.
	Enable()
}
