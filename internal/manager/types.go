package manager

import "novad/pkg/types"

// State is the lifecycle state of the manager.
type State string

const (
	StateUnloaded  State = "unloaded"
	StateLoading   State = "loading"
	StateReady     State = "ready"
	StateSwitching State = "switching"
)

// Snapshot is a read-only projection of the manager state.
type Snapshot struct {
	State        State
	CurrentModel *types.Descriptor
	Device       types.Device
	Progress     int
	LastStatus   string
	LastError    string
	Epoch        uint64
}
