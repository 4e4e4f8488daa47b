package guard

import "errors"

var (
	ErrReentrant = errors.New("reentrant call")
)

// Guard rejects a nested entry into the region it protects. The zero value is
// ready to use. Guard is a held flag, not a lock: callers are expected to be
// serialized already and a nested Enter fails instead of blocking.
type Guard struct {
	held bool
}

func (g *Guard) Enter() error {
	if g.held {
		return ErrReentrant
	}
	g.held = true
	return nil
}

func (g *Guard) Exit() {
	g.held = false
}

func (g *Guard) Held() bool {
	return g.held
}
