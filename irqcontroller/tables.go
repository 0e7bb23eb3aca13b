// Package irqcontroller arbitrates between the uniprocessor x86 kernel's
// software IRQL priority scheme and the interrupts the dual-8259A PIC pair
// actually delivers: raising and lowering IRQL, dismissing a hardware
// interrupt down at the wire, and replaying whatever arrived while masked
// too high to run. It is the Go equivalent of halx86/up/pic.c: same
// tables, same dismissal quirks, same drain protocol, restated as an
// injectable, testable core instead of a set of free functions over
// processor-control-region globals.
package irqcontroller

import "fmt"

// KIrql is the kernel's software interrupt request level, 0 (Passive) to
// 31 (High). Raising it masks everything at or below; lowering it may
// uncover work that arrived while it was high.
type KIrql uint8

const (
	PassiveLevel  KIrql = 0
	ApcLevel      KIrql = 1
	DispatchLevel KIrql = 2
	ProfileLevel  KIrql = 27
	Clock2Level   KIrql = 28
	SynchLevel    KIrql = 28
	HighLevel     KIrql = 31
)

// PrimaryVectorBase is the IDT vector IRQ 0 is remapped to; IRQ n lands at
// PrimaryVectorBase+n. Matches platform.PrimaryVectorBase; duplicated here
// (rather than imported) because tables.go must stay a self-contained,
// dependency-free description of the PIC/IRQL relationship, the same way
// pic.c's table initializers don't reach into other translation units.
const PrimaryVectorBase = 0x30

// CascadeIrq is the line the slave PIC's output is wired to on the master;
// it is never individually dismissable or maskable off.
const CascadeIrq = 2

// PicMaskByIrql[irql], masked to its low 16 bits (bit i = IRQ i, Master in
// the low byte, Slave in the high byte), is the PIC mask to program into
// both 8259As' data ports once IRQL reaches irql; bits above 16 mask a
// phantom third/fourth PIC that doesn't exist and are dropped at the call
// site. Transcribed bit-for-bit from KiI8259MaskTable; do not "simplify"
// by recomputing from IRQL numerically, the RTC (bit 8) and clock (bit 0)
// droplets at IRQL 18/19/24/25 are intentional and not a closed-form shift.
var PicMaskByIrql = [32]uint32{
	0x00000000, // PASSIVE_LEVEL
	0x00000000, // APC_LEVEL
	0x00000000, // DISPATCH_LEVEL
	0x00000000, // IRQL 3
	0xFF800000,
	0xFFC00000,
	0xFFE00000,
	0xFFF00000,
	0xFFF80000,
	0xFFFC0000,
	0xFFFE0000,
	0xFFFF0000,
	0xFFFF8000,
	0xFFFFC000,
	0xFFFFE000,
	0xFFFFF000,
	0xFFFFF800,
	0xFFFFFC00,
	0xFFFFFE00,
	0xFFFFFE00, // IRQL 19, same as 18: RTC (bit 8) droplet
	0xFFFFFE80,
	0xFFFFFEC0,
	0xFFFFFEE0,
	0xFFFFFEF0,
	0xFFFFFEF8,
	0xFFFFFEF8, // IRQL 25, same as 24: clock (bit 0) droplet
	0xFFFFFEFA,
	0xFFFFFFFA, // ProfileLevel: bit 8 (RTC) finally masked
	0xFFFFFFFB, // Clock2Level / SynchLevel: bit 0 (clock) finally masked
	0xFFFFFFFB,
	0xFFFFFFFB,
	0xFFFFFFFB, // HighLevel
}

// PreemptMaskByIrql[irql] is which bits of Irr (software slots 0-3 plus
// hardware IRQs at bit+4) are allowed to preempt a CPU sitting at irql.
// Transcribed bit-for-bit from FindHigherIrqlMask.
var PreemptMaskByIrql = [32]uint32{
	0xFFFFFFFE,
	0xFFFFFFFC,
	0xFFFFFFF8,
	0xFFFFFFF0,
	0x07FFFFF0,
	0x03FFFFF0,
	0x01FFFFF0,
	0x00FFFFF0,
	0x007FFFF0,
	0x003FFFF0,
	0x001FFFF0,
	0x000FFFF0,
	0x0007FFF0,
	0x0003FFF0,
	0x0001FFF0,
	0x0000FFF0,
	0x00007FF0,
	0x00003FF0,
	0x00001FF0,
	0x00001FF0, // IRQL 19, same as 18
	0x000017F0,
	0x000013F0,
	0x000011F0,
	0x000010F0,
	0x00001070,
	0x00001030,
	0x00001010,
	0x00000010, // ProfileLevel: only the clock (bit 4) can still preempt
	0x00000000,
	0x00000000,
	0x00000000,
	0x00000000, // HighLevel
}

// SoftIrqlFromIrr[bits] maps the 3-bit software-slot portion of Irr
// (bits 1-2: APC pending/DPC pending, roughly) to the IRQL a pending
// software interrupt of that shape requires to run. Transcribed from
// SWInterruptLookUpTable.
var SoftIrqlFromIrr = [8]KIrql{
	PassiveLevel,
	PassiveLevel,
	ApcLevel,
	ApcLevel,
	DispatchLevel,
	DispatchLevel,
	DispatchLevel,
	DispatchLevel,
}

// IrqToVector converts a PIC IRQ line (0-15) to its IDT vector.
func IrqToVector(irq uint8) uint8 {
	return PrimaryVectorBase + irq
}

// VectorToIrq converts an IDT vector back to a PIC IRQ line. The caller
// must already know the vector is one of the 16 primary ones.
func VectorToIrq(vector uint8) uint8 {
	return vector - PrimaryVectorBase
}

// VectorToIrql returns the IRQL a given hardware vector dispatches at:
// ProfileLevel minus the IRQ number, so IRQ0 (the clock) gets the highest
// hardware IRQL and IRQ15 the lowest, matching the 8259A's own fixed
// priority order (lower IRQ number wins).
func VectorToIrql(vector uint8) KIrql {
	return ProfileLevel - KIrql(VectorToIrq(vector))
}

func init() {
	for irql, mask := range PicMaskByIrql {
		if mask&(1<<CascadeIrq) != 0 {
			panic(fmt.Sprintf("irqcontroller: PicMaskByIrql masks off the cascade IRQ at IRQL %d", irql))
		}
	}
}
