package dispatch

import (
	"sync"
	"time"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

const NoticeTTL = 3 * time.Second

type Notice struct {
	ID      int64
	Level   Level
	Message string
	At      time.Time
}

// Notices holds transient messages. Each one is dismissed NoticeTTL after
// it is shown.
type Notices struct {
	mu      sync.Mutex
	nextID  int64
	active  []Notice
	subs    []func(Notice)
	now     func() time.Time
	after   func(time.Duration, func()) *time.Timer
	ttl     time.Duration
	history []Notice
}

func NewNotices() *Notices {
	return &Notices{now: time.Now, after: time.AfterFunc, ttl: NoticeTTL}
}

// Subscribe registers fn for every new notice. fn runs synchronously on
// the caller of Show.
func (n *Notices) Subscribe(fn func(Notice)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subs = append(n.subs, fn)
}

func (n *Notices) Show(level Level, msg string) Notice {
	n.mu.Lock()
	n.nextID++
	note := Notice{ID: n.nextID, Level: level, Message: msg, At: n.now()}
	n.active = append(n.active, note)
	n.history = append(n.history, note)
	subs := append([]func(Notice){}, n.subs...)
	n.mu.Unlock()

	n.after(n.ttl, func() { n.dismiss(note.ID) })
	for _, fn := range subs {
		fn(note)
	}
	return note
}

func (n *Notices) dismiss(id int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, a := range n.active {
		if a.ID == id {
			n.active = append(n.active[:i], n.active[i+1:]...)
			return
		}
	}
}

// Active lists the notices still on screen, oldest first.
func (n *Notices) Active() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notice(nil), n.active...)
}

// History lists every notice ever shown.
func (n *Notices) History() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notice(nil), n.history...)
}

// Last is the most recent notice, if any.
func (n *Notices) Last() (Notice, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.history) == 0 {
		return Notice{}, false
	}
	return n.history[len(n.history)-1], true
}
