package platform

// FakeSyntheticInterrupt records raised vectors instead of executing them,
// for irqcontroller's replay tests.
type FakeSyntheticInterrupt struct {
	Raised []uint8
}

func (f *FakeSyntheticInterrupt) Raise(vector uint8) {
	if vector < PrimaryVectorBase || vector > PrimaryVectorBase+15 {
		panic("platform: synthetic interrupt vector out of range")
	}
	f.Raised = append(f.Raised, vector)
}
