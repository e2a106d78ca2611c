//go:build linux

package validate

import (
	"io/fs"
	"syscall"
	"time"

	"github.com/nao1215/pdfscrub/internal/model"
)

// fileTimestamps extracts access, modification, and change times from
// the stat result. The change time stands in for creation time, which
// Linux does not expose through stat.
func fileTimestamps(fi fs.FileInfo) model.Timestamps {
	ts := model.Timestamps{Modified: fi.ModTime()}
	if st, ok := fi.Sys().(*syscall.Stat_t); ok {
		ts.Accessed = time.Unix(st.Atim.Sec, st.Atim.Nsec)
		ts.Created = time.Unix(st.Ctim.Sec, st.Ctim.Nsec)
	}
	return ts
}
