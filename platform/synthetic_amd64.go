//go:build linux && amd64

package platform

// HardwareSyntheticInterrupt raises a real `int n` against the 16 primary
// vectors. A runtime-variable operand isn't expressible as a single x86
// instruction, so the trampoline is a Go switch over 16 fixed-immediate
// INT instructions defined in synthetic_amd64.s, one per vector - the same
// table-jump-over-fixed-opcodes shape irq.go uses for its IDT gate array.
type HardwareSyntheticInterrupt struct{}

func int30()
func int31()
func int32()
func int33()
func int34()
func int35()
func int36()
func int37()
func int38()
func int39()
func int3a()
func int3b()
func int3c()
func int3d()
func int3e()
func int3f()

func (HardwareSyntheticInterrupt) Raise(vector uint8) {
	switch vector {
	case PrimaryVectorBase + 0:
		int30()
	case PrimaryVectorBase + 1:
		int31()
	case PrimaryVectorBase + 2:
		int32()
	case PrimaryVectorBase + 3:
		int33()
	case PrimaryVectorBase + 4:
		int34()
	case PrimaryVectorBase + 5:
		int35()
	case PrimaryVectorBase + 6:
		int36()
	case PrimaryVectorBase + 7:
		int37()
	case PrimaryVectorBase + 8:
		int38()
	case PrimaryVectorBase + 9:
		int39()
	case PrimaryVectorBase + 10:
		int3a()
	case PrimaryVectorBase + 11:
		int3b()
	case PrimaryVectorBase + 12:
		int3c()
	case PrimaryVectorBase + 13:
		int3d()
	case PrimaryVectorBase + 14:
		int3e()
	case PrimaryVectorBase + 15:
		int3f()
	default:
		panic("platform: synthetic interrupt vector out of range")
	}
}
