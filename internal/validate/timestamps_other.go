//go:build !linux

package validate

import (
	"io/fs"

	"github.com/nao1215/pdfscrub/internal/model"
)

// fileTimestamps falls back to the modification time on platforms
// without a portable access or change time.
func fileTimestamps(fi fs.FileInfo) model.Timestamps {
	return model.Timestamps{
		Created:  fi.ModTime(),
		Modified: fi.ModTime(),
		Accessed: fi.ModTime(),
	}
}
