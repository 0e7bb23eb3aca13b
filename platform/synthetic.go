package platform

// PrimaryVectorBase is the first IDT vector the primary PIC's IRQ 0 is
// remapped to; IRQ n dispatches at PrimaryVectorBase+n. irqcontroller
// keeps its own copy (irqcontroller.PrimaryVectorBase); platform's
// synthetic-int trampoline and irqcontroller's dismissal tables must agree
// on the value.
const PrimaryVectorBase = 0x30

// SyntheticInterrupt constructs the one-instruction `int n` a deferred
// hardware IRQ is replayed with once IRQL drops enough to let it run.
// The vector space is the 16 primary-PIC vectors, PrimaryVectorBase..+15.
type SyntheticInterrupt interface {
	// Raise executes (or, on a fake, records) `int vector`. vector must be
	// in [PrimaryVectorBase, PrimaryVectorBase+15]; anything else panics,
	// since the call site always derives it from an IRQ number 0-15.
	Raise(vector uint8)
}
