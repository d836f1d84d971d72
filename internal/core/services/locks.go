package services

import "sync"

// keyedMutex serializes mutating operations per party within this process.
// Two concurrent createGroup/extendGroup calls against the same party's
// document set could otherwise both pass the unattached precondition against
// a stale read; the repository re-validates under row locks as the final
// guard, this keeps the common case from ever racing.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for key and returns its unlock function.
func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
