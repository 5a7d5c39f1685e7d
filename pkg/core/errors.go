package core

import "errors"

// ErrNoSession is returned when a session store slot holds no record.
var ErrNoSession = errors.New("no saved session")
