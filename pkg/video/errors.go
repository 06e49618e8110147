package video

import "errors"

// ErrClosed is returned by readers of a closed Broadcaster.
var ErrClosed = errors.New("video: broadcaster closed")
