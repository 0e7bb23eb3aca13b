//go:build !(linux && amd64)

package platform

// HardwareSyntheticInterrupt is a no-op stand-in off amd64/linux; nothing
// can execute a raw INT there.
type HardwareSyntheticInterrupt struct{}

func (HardwareSyntheticInterrupt) Raise(vector uint8) {
	if vector < PrimaryVectorBase || vector > PrimaryVectorBase+15 {
		panic("platform: synthetic interrupt vector out of range")
	}
}
