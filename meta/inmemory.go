package meta

import (
	"sync"
)

//InMemory is a process-local fallback storage: horizontally scaled
//deployments get an independent credential view per instance
type InMemory struct {
	mutex *sync.RWMutex
	keys  map[string]*APIKey
}

func NewInMemory() *InMemory {
	return &InMemory{
		mutex: &sync.RWMutex{},
		keys:  map[string]*APIKey{},
	}
}

func (im *InMemory) GetAPIKey(id string) (*APIKey, error) {
	im.mutex.RLock()
	defer im.mutex.RUnlock()

	apiKey, ok := im.keys[id]
	if !ok {
		return nil, nil
	}

	return apiKey.Clone(), nil
}

func (im *InMemory) SaveAPIKey(apiKey *APIKey) error {
	im.mutex.Lock()
	defer im.mutex.Unlock()

	im.keys[apiKey.ID] = apiKey.Clone()
	return nil
}

func (im *InMemory) Type() string {
	return InMemoryType
}

func (im *InMemory) Close() error {
	return nil
}
