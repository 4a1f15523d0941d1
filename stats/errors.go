// Author: momentics <momentics@gmail.com>
//
// Error definitions for the stats package.

package stats

import "errors"

// errInvalidField indicates an unknown Field value was passed to Get/Increment.
var errInvalidField = errors.New("stats: invalid field")
