package insertcmd

// FeatureGates exposes runtime feature toggles required by insert command handlers.
type FeatureGates struct {
	// InsertEnabled should return true when the insert workflow is enabled.
	InsertEnabled func() bool
}

func (g FeatureGates) insertEnabled() bool {
	if g.InsertEnabled == nil {
		return true
	}
	return g.InsertEnabled()
}
