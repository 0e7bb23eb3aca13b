package irqcontroller_test

import (
	"testing"

	"halcore/irqcontroller"
	"halcore/kernelapi"
)

func TestRaiseReturnsPreviousIrql(t *testing.T) {
	r := newRig()
	old := r.ctrl.Raise(irqcontroller.DispatchLevel)
	if old != irqcontroller.PassiveLevel {
		t.Errorf("Raise returned %d, want PassiveLevel", old)
	}
	if r.ctrl.CurrentIrql() != irqcontroller.DispatchLevel {
		t.Errorf("CurrentIrql() = %d, want DispatchLevel", r.ctrl.CurrentIrql())
	}
}

func TestRaiseBelowCurrentBugchecksAndResetsToPassive(t *testing.T) {
	r := newRig()
	r.ctrl.Raise(irqcontroller.DispatchLevel)

	r.ctrl.Raise(irqcontroller.ApcLevel)

	if r.upcalls.BugcheckCount() != 1 {
		t.Fatalf("Bugcheck count = %d, want 1", r.upcalls.BugcheckCount())
	}
	if r.upcalls.Bugchecks[0].Code != kernelapi.IrqlNotGreaterOrEqual {
		t.Errorf("bugcheck code = %v, want IrqlNotGreaterOrEqual", r.upcalls.Bugchecks[0].Code)
	}
	if r.ctrl.CurrentIrql() != irqcontroller.PassiveLevel {
		t.Errorf("CurrentIrql() after a failed raise = %d, want PassiveLevel", r.ctrl.CurrentIrql())
	}
}

func TestLowerAboveCurrentBugchecksAndResetsToHigh(t *testing.T) {
	r := newRig()
	r.ctrl.Raise(irqcontroller.ApcLevel)

	r.ctrl.Lower(irqcontroller.DispatchLevel)

	if r.upcalls.BugcheckCount() != 1 {
		t.Fatalf("Bugcheck count = %d, want 1", r.upcalls.BugcheckCount())
	}
	if r.upcalls.Bugchecks[0].Code != kernelapi.IrqlNotLessOrEqual {
		t.Errorf("bugcheck code = %v, want IrqlNotLessOrEqual", r.upcalls.Bugchecks[0].Code)
	}
	if r.ctrl.CurrentIrql() != irqcontroller.HighLevel {
		t.Errorf("CurrentIrql() after a failed lower = %d, want HighLevel", r.ctrl.CurrentIrql())
	}
}

func TestLowerReplaysPendingSoftwareInterrupt(t *testing.T) {
	r := newRig()
	old := r.ctrl.Raise(irqcontroller.DispatchLevel)
	r.ctrl.RequestSoftwareInterrupt(irqcontroller.ApcLevel)

	r.ctrl.Lower(old)

	if len(r.upcalls.DeliveredApcs) != 1 {
		t.Errorf("DeliverApc calls = %d, want 1 (APC should replay on Lower)", len(r.upcalls.DeliveredApcs))
	}
	if r.ctrl.CurrentIrql() != irqcontroller.PassiveLevel {
		t.Errorf("CurrentIrql() after replay = %d, want PassiveLevel", r.ctrl.CurrentIrql())
	}
}

func TestRaiseToDpcAndSynch(t *testing.T) {
	r := newRig()
	old := r.ctrl.RaiseToDpc()
	if old != irqcontroller.PassiveLevel {
		t.Errorf("RaiseToDpc old = %d, want PassiveLevel", old)
	}
	if r.ctrl.CurrentIrql() != irqcontroller.DispatchLevel {
		t.Errorf("CurrentIrql() = %d, want DispatchLevel", r.ctrl.CurrentIrql())
	}

	old2 := r.ctrl.RaiseToSynch()
	if old2 != irqcontroller.DispatchLevel {
		t.Errorf("RaiseToSynch old = %d, want DispatchLevel", old2)
	}
	if r.ctrl.CurrentIrql() != irqcontroller.SynchLevel {
		t.Errorf("CurrentIrql() = %d, want SynchLevel", r.ctrl.CurrentIrql())
	}
}

func TestRaiseToDpcAboveSynchBugchecks(t *testing.T) {
	r := newRig()
	r.ctrl.Raise(irqcontroller.HighLevel)

	r.ctrl.RaiseToDpc()

	if r.upcalls.BugcheckCount() != 1 {
		t.Errorf("Bugcheck count = %d, want 1", r.upcalls.BugcheckCount())
	}
}
