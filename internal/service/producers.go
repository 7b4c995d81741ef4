package service

import (
	"net/http"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// ProducerFactory creates a fresh Producer. Stateful producers such as
// counters get independent state per param.
type ProducerFactory func() Producer

var producers = map[string]ProducerFactory{
	"uuid": func() Producer {
		return func() any { return uuid.NewString() }
	},
	"counter": func() Producer {
		var n atomic.Uint64
		return func() any { return n.Add(1) }
	},
	"http_date": func() Producer {
		return func() any { return time.Now().UTC().Format(http.TimeFormat) }
	},
	"unix_time": func() Producer {
		return func() any { return time.Now().Unix() }
	},
}

// NewProducer returns a new producer registered under name.
func NewProducer(name string) (Producer, bool) {
	factory, ok := producers[name]
	if !ok {
		return nil, false
	}
	return factory(), true
}

// ProducerNames lists the registered producer names, sorted.
func ProducerNames() []string {
	names := make([]string, 0, len(producers))
	for name := range producers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
