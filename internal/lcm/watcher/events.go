package watcher

// Event is a connection or selection update emitted by the Watcher.
type Event interface {
	isEvent()
}

// Connected is emitted once the champion-select subscription is established.
type Connected struct{}

// Selected reports the current champion as sent by the client. 0 means
// nothing is selected.
type Selected struct {
	ChampionID uint32
}

// Disconnected is emitted when a connection attempt fails or an established
// connection drops.
type Disconnected struct{}

// Retrying counts down to the next connection attempt.
type Retrying struct {
	Seconds int
}

func (Connected) isEvent()    {}
func (Selected) isEvent()     {}
func (Disconnected) isEvent() {}
func (Retrying) isEvent()     {}
