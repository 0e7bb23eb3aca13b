package irqcontroller

import (
	"math/bits"

	"halcore/kernelapi"
)

// replaySlot tags what a given IRR bit position means when it comes up
// during a drain, standing in for the original's
// SWInterruptHandlerTable/SWInterruptHandlerTable2 function-pointer
// arrays the same way dismissKind stands in for the dismiss tables.
type replaySlot int

const (
	replayUnexpected replaySlot = iota
	replayApc
	replayDispatchInner
	replayHardware
	replayHardwareLevel
)

// drainOnLower implements KfLowerIrql's pending-interrupt check: after
// setting Irql to old, look at what Irr bits old's preempt mask still
// allows through, and if the highest one is a deferred hardware IRQ,
// reprogram the PIC mask to the software-disable state and clear it from
// Irr before replaying. Runs once (not a loop) - unlike
// drainOnEndSystemInterrupt - because the original only checks once here.
func (c *Controller) drainOnLower(old KIrql) {
	wasEnabled := c.flags.Disable()
	defer c.flags.Restore(wasEnabled)

	c.irql = old
	c.drainOnce(old)
}

// drainOnce performs the single "is anything above floor pending, and if
// so replay the highest one, first unlatching it when it is a hardware
// IRQ" step shared by drainOnLower and dispatchInterruptTail. It assumes
// interrupts are already disabled by the caller.
func (c *Controller) drainOnce(floor KIrql) {
	pendingMask := c.irr & PreemptMaskByIrql[floor]
	if pendingMask == 0 {
		return
	}

	pendingIrql := highestSetBit(pendingMask)
	if pendingIrql > uint8(DispatchLevel) {
		c.programPicMask(c.idr)
		c.irr ^= 1 << pendingIrql
	}

	c.replay(KIrql(pendingIrql))
}

// drainOneLevelReplay is HalpHardwareInterruptLevel: invoked as the tail
// of a level-triggered hardware ISR once its trap frame is gone, it
// re-checks for a still-pending, now-unmasked hardware interrupt and
// replays exactly one, bailing out entirely if a delayed interrupt is
// already in service (IrrActive has any hardware bit set).
func (c *Controller) drainOneLevelReplay() {
	pendingMask := c.irr & PreemptMaskByIrql[c.irql]
	if pendingMask == 0 {
		return
	}
	if c.irrActive&hardwareIrrActiveMask != 0 {
		return
	}

	pendingIrql := highestSetBit(pendingMask)
	c.irr ^= 1 << pendingIrql
	c.replay(KIrql(pendingIrql))
}

// hardwareIrrActiveMask is the "in-service delayed interrupt" test the
// original spells 0xFFFFFFF0: any of the 28 hardware-or-above bits.
const hardwareIrrActiveMask = 0xFFFFFFF0

// EndSystemInterrupt is the public tail half of BeginSystemInterrupt: a
// vector stub calls it after the device's own ISR (if any) has run, to
// restore old as the current IRQL and drain whatever interrupt old's
// preempt mask still allows through. It is HalEndSystemInterrupt with no
// disable/restore bracket of its own, exactly as the original has none -
// the caller is already running with interrupts disabled, having just
// come from a trap.
func (c *Controller) EndSystemInterrupt(old KIrql, trapFrame *kernelapi.TrapFrame) {
	c.drainOnEndSystemInterrupt(old, trapFrame)
}

// drainOnEndSystemInterrupt is HalEndSystemInterrupt: restore old as the
// current IRQL, then loop replaying every pending hardware interrupt
// that old's preempt mask still allows, guarding each one individually
// against re-entering an IRQ already marked active in IrrActive, until a
// software-level (APC/DPC) slot is reached - at which point the loop
// hands off to the 2nd-entry dispatcher and then returns (the original
// marks the point after the 2nd-entry call UNREACHABLE). On entry any
// hardware bit of IrrActive stops the drain; inside the loop only the
// bit of the IRQ about to be replayed is checked.
func (c *Controller) drainOnEndSystemInterrupt(old KIrql, trapFrame *kernelapi.TrapFrame) {
	c.irql = old

	pendingMask := c.irr & PreemptMaskByIrql[old]
	if pendingMask == 0 {
		return
	}
	if c.irrActive&hardwareIrrActiveMask != 0 {
		return
	}

	for {
		pendingIrql := highestSetBit(pendingMask)
		if pendingIrql <= uint8(DispatchLevel) {
			c.replay2ndEntry(KIrql(pendingIrql), trapFrame)
			return
		}

		c.programPicMask(c.idr)
		pendingIrqMask := uint32(1) << pendingIrql
		if c.irrActive&pendingIrqMask != 0 {
			return
		}
		c.irrActive |= pendingIrqMask
		c.irr ^= pendingIrqMask

		c.replay(KIrql(pendingIrql))

		c.irrActive ^= pendingIrqMask

		pendingMask = c.irr & PreemptMaskByIrql[c.irql]
		if pendingMask == 0 {
			return
		}
	}
}

// drainOnSoftwareInterruptEnd is HalpEndSoftwareInterrupt2: the tail of
// an APC/DPC software interrupt. Unlike drainOnEndSystemInterrupt it
// bails out (returns nil) on the very first check that fails - no
// pending mask, or a delayed interrupt already active - rather than only
// checking IrrActive once up front, and it returns the 2nd-entry handler
// to the caller instead of invoking it directly, since the caller still
// needs to finish unwinding the current software-interrupt trap frame
// before jumping into the next one.
func (c *Controller) drainOnSoftwareInterruptEnd(old KIrql, trapFrame *kernelapi.TrapFrame) func(*kernelapi.TrapFrame) {
	c.irql = old

	for {
		pendingMask := c.irr & PreemptMaskByIrql[old]
		if pendingMask == 0 {
			return nil
		}
		if c.irrActive&hardwareIrrActiveMask != 0 {
			return nil
		}

		pendingIrql := highestSetBit(pendingMask)
		if pendingIrql <= uint8(DispatchLevel) {
			return func(tf *kernelapi.TrapFrame) { c.replay2ndEntry(KIrql(pendingIrql), tf) }
		}

		c.programPicMask(c.idr)
		pendingIrqMask := uint32(1) << pendingIrql
		c.irrActive |= pendingIrqMask
		c.irr ^= pendingIrqMask

		c.replay(KIrql(pendingIrql))

		c.irrActive ^= pendingIrqMask
	}
}

// replay dispatches a single pending IRR bit through its replaySlot: an
// unexpected slot reports to the kernel and returns, a software slot runs
// its handler inline (the handler's own end-of-interrupt drain may replay
// hardware IRQs in turn), an edge hardware slot raises the synthetic
// interrupt for its vector, and a level hardware slot runs
// drainOneLevelReplay.
func (c *Controller) replay(irql KIrql) {
	switch c.replayByIrql[irql] {
	case replayUnexpected:
		c.upcalls.UnexpectedInterrupt(uint8(irql))
	case replayApc:
		c.apcInterrupt()
	case replayDispatchInner:
		c.dispatchInterrupt2nd()
	case replayHardware:
		irq := uint8(irql) - 4
		c.synth.Raise(IrqToVector(irq))
	case replayHardwareLevel:
		c.drainOneLevelReplay()
	}
}

func (c *Controller) replay2ndEntry(irql KIrql, trapFrame *kernelapi.TrapFrame) {
	switch c.replayByIrql[irql] {
	case replayUnexpected:
		c.upcalls.UnexpectedInterrupt(uint8(irql))
	case replayApc:
		c.ApcInterrupt2ndEntry(trapFrame)
	case replayDispatchInner:
		c.DispatchInterrupt2ndEntry(trapFrame)
	case replayHardware:
		irq := uint8(irql) - 4
		c.synth.Raise(IrqToVector(irq))
	case replayHardwareLevel:
		c.drainOneLevelReplay()
	}
}

// highestSetBit returns the index of the most significant set bit of a
// nonzero mask, the Go equivalent of BitScanReverse.
func highestSetBit(mask uint32) uint8 {
	return uint8(bits.Len32(mask) - 1)
}
