package metrics

import (
	"time"

	"github.com/agentdocs/agentdocs/pkg/events"
	"github.com/agentdocs/agentdocs/pkg/store"
	"github.com/agentdocs/agentdocs/pkg/types"
)

// Collector periodically samples Store and EventBus state into the
// gauges above. Counters (requests, rejections) are updated inline by
// the handlers that cause them; this only covers point-in-time state.
type Collector struct {
	store  store.Store
	bus    *events.EventBus
	stopCh chan struct{}
}

// NewCollector returns a Collector sampling s and bus every 15 seconds.
func NewCollector(s store.Store, bus *events.EventBus) *Collector {
	return &Collector{
		store:  s,
		bus:    bus,
		stopCh: make(chan struct{}),
	}
}

// Start begins the sampling loop in a background goroutine.
func (c *Collector) Start() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		c.collect()
		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop ends the sampling loop.
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	c.collectWorkspaceAndDocumentMetrics()
	EventBusSubscribers.Set(float64(c.bus.TotalSubscribers()))
}

// collectWorkspaceAndDocumentMetrics samples public workspaces only —
// the Store has no list-all operation, matching the discovery surface
// exposed to clients (private workspaces are reachable only by ID).
func (c *Collector) collectWorkspaceAndDocumentMetrics() {
	workspaces, err := c.store.ListPublicWorkspaces()
	if err != nil {
		return
	}
	WorkspacesTotal.Set(float64(len(workspaces)))

	now := time.Now()
	activeLocks := 0
	docCounts := make(map[string]map[types.DocumentStatus]int)

	for _, ws := range workspaces {
		docs, err := c.store.ListDocuments(ws.ID, true)
		if err != nil {
			continue
		}
		if docCounts[ws.ID] == nil {
			docCounts[ws.ID] = make(map[types.DocumentStatus]int)
		}
		for _, doc := range docs {
			docCounts[ws.ID][doc.Status]++
			if doc.Locked(now) {
				activeLocks++
			}
		}
	}

	for workspaceID, statuses := range docCounts {
		for status, count := range statuses {
			DocumentsTotal.WithLabelValues(workspaceID, string(status)).Set(float64(count))
		}
	}
	ActiveLocks.Set(float64(activeLocks))
}
