package peer

import "errors"

var ErrUnknownPeer = errors.New("peer: unknown peer id")
