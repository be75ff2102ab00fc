package ports

import (
	"afmdash/domain/feed"
)

// ViewObserver receives every published view in version order. Implementations
// must not block and must not call back into the publisher.
type ViewObserver interface {
	OnView(v feed.View)
}

// ViewObserverFunc adapts a plain function to ViewObserver
type ViewObserverFunc func(v feed.View)

// OnView implements ViewObserver
func (f ViewObserverFunc) OnView(v feed.View) { f(v) }
