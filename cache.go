package prez

import (
	"sync"
)

// imageCache holds loaded images keyed by source path or URL. It is shared
// across generations so watch-mode rebuilds reuse fetched and decoded images
// instead of hitting the network or disk again.
var imageCache sync.Map

func cachedImage(key string) (*Image, bool) {
	v, ok := imageCache.Load(key)
	if !ok {
		return nil, false
	}
	i, ok := v.(*Image)
	return i, ok
}

func storeImage(key string, i *Image) {
	if i == nil {
		return
	}
	imageCache.Store(key, i)
}
