package watcher

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"
)

// Event reports that the contents of a watched directory changed.
type Event struct {
	Dir string
}

type Options struct {
	Interval time.Duration
	Buffer   int
}

type entry struct {
	dir  string
	hash string
}

// Watcher polls directories and emits an event when the set of files or any
// modification time changes. Polling keeps it dependency free and works on
// network filesystems where inotify does not.
type Watcher struct {
	mu       sync.RWMutex
	entries  map[string]*entry
	out      chan Event
	interval time.Duration
	stop     chan struct{}
	wg       sync.WaitGroup
	started  bool
	closed   bool
}

const (
	defaultInterval = time.Second
	defaultBuffer   = 16
)

func New(opts Options) *Watcher {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	buf := opts.Buffer
	if buf <= 0 {
		buf = defaultBuffer
	}
	return &Watcher{
		entries:  make(map[string]*entry),
		out:      make(chan Event, buf),
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Watch registers a directory. The current state becomes the baseline, so
// registering never emits an event by itself.
func (w *Watcher) Watch(dir string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.entries[dir]; ok {
		return
	}
	w.entries[dir] = &entry{dir: dir, hash: dirHash(dir)}
}

// Events is the channel change notifications arrive on. Slow consumers drop
// events rather than blocking the scan loop.
func (w *Watcher) Events() <-chan Event { return w.out }

func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started || w.closed {
		return
	}
	w.started = true

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-w.stop:
				return
			case <-ticker.C:
				w.scan()
			}
		}
	}()
}

func (w *Watcher) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.stop)
	w.mu.Unlock()

	w.wg.Wait()
	close(w.out)
}

func (w *Watcher) scan() {
	w.mu.Lock()
	var changed []string
	for dir, e := range w.entries {
		hash := dirHash(dir)
		if hash != e.hash {
			e.hash = hash
			changed = append(changed, dir)
		}
	}
	w.mu.Unlock()

	for _, dir := range changed {
		select {
		case w.out <- Event{Dir: dir}:
		default:
		}
	}
}

// dirHash fingerprints a directory from its entry names, sizes and mod
// times. Contents are not read; record writes always bump the mod time
// because saves go through a rename.
func dirHash(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "missing"
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		info, err := e.Info()
		if err == nil {
			name += "\x00" + strconv.FormatInt(info.Size(), 10) +
				"\x00" + strconv.FormatInt(info.ModTime().UnixNano(), 10)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	h := sha256.New()
	for _, name := range names {
		h.Write([]byte(name))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
