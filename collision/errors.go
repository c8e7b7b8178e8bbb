package collision

import "errors"

// ErrInvalidCollisionGroup reports a broken group declaration. It is a
// configuration fault and is only returned while building a Matrix.
var ErrInvalidCollisionGroup = errors.New("invalid collision group")
