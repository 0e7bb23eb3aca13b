package irqcontroller

import "halcore/kernelapi"

// RaiseToDpc raises IRQL to DispatchLevel unconditionally and returns the
// previous value, bugchecking if the CPU was already above DispatchLevel.
func (c *Controller) RaiseToDpc() KIrql {
	old := c.irql
	c.irql = DispatchLevel
	if old > DispatchLevel {
		c.upcalls.Bugcheck(kernelapi.IrqlNotGreaterOrEqual)
	}
	return old
}

// RaiseToSynch raises IRQL to SynchLevel unconditionally and returns the
// previous value, bugchecking if the CPU was already above SynchLevel.
func (c *Controller) RaiseToSynch() KIrql {
	old := c.irql
	c.irql = SynchLevel
	if old > SynchLevel {
		c.upcalls.Bugcheck(kernelapi.IrqlNotGreaterOrEqual, uintptr(old), uintptr(SynchLevel))
	}
	return old
}

// Raise sets IRQL to newIrql and returns the previous value. Raising
// below the current IRQL is a fatal error: the original resets Irql to
// PassiveLevel before bugchecking (so a debugger inspecting the crashed
// CPU sees a sane, low IRQL rather than the bogus value that caused the
// violation), which this reproduces verbatim rather than leaving Irql
// unchanged.
func (c *Controller) Raise(newIrql KIrql) KIrql {
	current := c.irql
	if current > newIrql {
		c.irql = PassiveLevel
		c.upcalls.Bugcheck(kernelapi.IrqlNotGreaterOrEqual)
		return current
	}
	c.irql = newIrql
	return current
}

// Lower sets IRQL back to oldIrql and replays any interrupt that was
// deferred while IRQL was too high to run it. Lowering above the current
// IRQL is a fatal error: the original sets Irql to HighLevel before
// bugchecking, the mirror image of Raise's PassiveLevel write - both
// choices push the corrupted CPU to an extreme so nothing else can run
// on it before the bugcheck takes effect.
func (c *Controller) Lower(oldIrql KIrql) {
	if oldIrql > c.irql {
		c.irql = HighLevel
		c.upcalls.Bugcheck(kernelapi.IrqlNotLessOrEqual)
		return
	}
	c.drainOnLower(oldIrql)
}
