package inference

import "errors"

// ErrAbsent signals that a member lookup walked every filter without
// degradation and found nothing: the name is definitely not defined, as
// opposed to an empty result caused by inference giving up partway.
var ErrAbsent = errors.New("member absent")
