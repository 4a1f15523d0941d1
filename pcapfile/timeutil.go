// Author: momentics <momentics@gmail.com>

package pcapfile

import "time"

// timeFromUnixSeconds builds the record timestamp the savefile format
// expects: whole seconds, zero microseconds. The engine never reports sub-
// second resolution, matching the original capture's ts.tv_usec = 0 rule.
func timeFromUnixSeconds(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}
