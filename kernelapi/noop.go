package kernelapi

import "log"

// NoopUpcalls is a reference Upcalls implementation that logs instead of
// acting, except Bugcheck, which logs and exits the process through
// log.Fatalf. It is useful for the debug console and for exercising the
// core outside of a real kernel. Debug gates the DeliverApc, DispatchDpc
// and RegisterVector logging the same way core_engine.VirtualMachine.Debug
// gates its own log.Printf calls; UnexpectedInterrupt and Bugcheck always
// log.
type NoopUpcalls struct {
	Debug bool
}

func (n *NoopUpcalls) DeliverApc(mode Mode, trapFrame *TrapFrame) {
	if n.Debug {
		log.Printf("kernelapi: DeliverApc(mode=%s)", mode)
	}
}

func (n *NoopUpcalls) DispatchDpc() {
	if n.Debug {
		log.Printf("kernelapi: DispatchDpc()")
	}
}

func (n *NoopUpcalls) UnexpectedInterrupt(slot uint8) {
	log.Printf("kernelapi: UnexpectedInterrupt(slot=%d)", slot)
}

func (n *NoopUpcalls) Bugcheck(code BugcheckCode, params ...uintptr) {
	log.Fatalf("kernelapi: BUGCHECK %s %v", code, params)
}

func (n *NoopUpcalls) RegisterVector(kind VectorKind, vector, targetVector, irql uint8) {
	if n.Debug {
		log.Printf("kernelapi: RegisterVector(kind=%d, vector=0x%x, target=0x%x, irql=%d)", kind, vector, targetVector, irql)
	}
}
