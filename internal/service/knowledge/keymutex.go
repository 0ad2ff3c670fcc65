package knowledge

import "sync"

// keyedMutex serializes the select+update merge per natural key so two
// concurrent stores for the same email cannot lose an update. Entries
// are never released; the set is bounded by the number of distinct
// emails seen by the process.
type keyedMutex struct {
	mtx   sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{
		locks: map[string]*sync.Mutex{},
	}
}

// Lock acquires the mutex for key and returns its unlock func.
func (k *keyedMutex) Lock(key string) func() {
	k.mtx.Lock()
	lock, exists := k.locks[key]
	if !exists {
		lock = &sync.Mutex{}
		k.locks[key] = lock
	}
	k.mtx.Unlock()

	lock.Lock()
	return lock.Unlock
}
