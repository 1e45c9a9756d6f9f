package scheduler

import "errors"

// ErrManualDomain is returned when an on-demand check targets a manual-mode domain.
var ErrManualDomain = errors.New("domain is in manual mode")
