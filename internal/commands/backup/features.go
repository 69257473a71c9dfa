package backupcmd

// FeatureGates exposes runtime feature toggles required by backup command handlers.
type FeatureGates struct {
	// BackupsEnabled should return true when the backup module is enabled.
	BackupsEnabled func() bool
}

func (g FeatureGates) backupsEnabled() bool {
	if g.BackupsEnabled == nil {
		return true
	}
	return g.BackupsEnabled()
}
