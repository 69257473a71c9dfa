package renumbercmd

// FeatureGates exposes runtime feature toggles required by renumber command
// handlers. Callers can supply closures that read from the module config to
// keep handlers decoupled from configuration packages.
type FeatureGates struct {
	// DocumentsEnabled should return true when the file workflows are enabled.
	DocumentsEnabled func() bool
}

func (g FeatureGates) documentsEnabled() bool {
	if g.DocumentsEnabled == nil {
		return true
	}
	return g.DocumentsEnabled()
}
