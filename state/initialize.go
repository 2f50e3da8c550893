package state

import (
	"time"

	"github.com/spf13/afero"
)

// newLocalEnv creates a new LocalEnv instance reading sources from the
// operating system filesystem.
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
		Fs:    afero.NewOsFs(),
	}
}
