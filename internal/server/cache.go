package server

import (
	lru "github.com/hashicorp/golang-lru"
)

const replyCacheSize = 256

// replyCache remembers the encoded reply of recent requests by id so that
// a client retry after a lost reply is not applied twice.
type replyCache struct {
	c *lru.Cache
}

func newReplyCache(size int) *replyCache {
	c, err := lru.New(size)
	if err != nil {
		// only for a non-positive size
		panic(err)
	}
	return &replyCache{c: c}
}

func (r *replyCache) get(id string) ([]byte, bool) {
	v, ok := r.c.Get(id)
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

func (r *replyCache) add(id string, reply []byte) {
	r.c.Add(id, reply)
}
