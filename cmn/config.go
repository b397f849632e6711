package cmn

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/golang/glog"
)

// Config is the process-wide tunable set for a scheduler or object-store
// daemon. It is loaded once from a JSON file and hot-reloaded on write,
// the same "owned, swapped-whole, fsnotify-watched" shape as the
// teacher's `cmn.GCO` (global config owner).
type Config struct {
	// ListenAddr is the gRPC bind address for this process.
	ListenAddr string `json:"listen_addr"`
	// DebugAddr is the read-only HTTP introspection bind address.
	DebugAddr string `json:"debug_addr"`
	// MetricsAddr serves the Prometheus /metrics handler.
	MetricsAddr string `json:"metrics_addr"`

	// KeepaliveIntervalSec is the period of the scheduler's keepalive
	// sweep over last-seen times.
	KeepaliveIntervalSec int `json:"keepalive_interval_sec"`
	// KeepaliveTimeoutSec marks a node unreachable after this many
	// seconds without a heartbeat.
	KeepaliveTimeoutSec int `json:"keepalive_timeout_sec"`

	// DeliveryRetries bounds StartDelivery source-exclusion retries
	// (spec §9 open question; resolved in SPEC_FULL.md §5).
	DeliveryRetries int `json:"delivery_retries"`

	// CompressChunksAboveBytes enables lz4 compression of ObjChunk.data
	// once a payload crosses this size; 0 disables compression.
	CompressChunksAboveBytes int64 `json:"compress_chunks_above_bytes"`

	// ChunkSizeBytes bounds a single ObjChunk.data to fit RPC frame
	// limits (spec §4.2 StreamObjTo chunking policy).
	ChunkSizeBytes int `json:"chunk_size_bytes"`
}

func defaultConfig() Config {
	return Config{
		ListenAddr:               ":51100",
		DebugAddr:                ":51180",
		MetricsAddr:              ":51190",
		KeepaliveIntervalSec:     2,
		KeepaliveTimeoutSec:      10,
		DeliveryRetries:          3,
		CompressChunksAboveBytes: 1 << 20,
		ChunkSizeBytes:           1 << 20,
	}
}

// GCO mirrors the teacher's "global config owner": a single Config value
// replaced whole on the (rare) reload path, with reads and writes guarded
// by cfgBox's reader-writer lock.
type GCO struct {
	mu   sync.Mutex
	path string
	cur  cfgBox
}

// cfgBox is a read-mostly config holder: reads take an RLock, the rare
// reload path takes the write lock.
type cfgBox struct {
	mu sync.RWMutex
	v  Config
}

func (b *cfgBox) Load() Config {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.v
}

func (b *cfgBox) Store(c Config) {
	b.mu.Lock()
	b.v = c
	b.mu.Unlock()
}

// NewGCO loads path (if non-empty and present) over the defaults and
// returns an owner ready for Get()/Watch().
func NewGCO(path string) (*GCO, error) {
	g := &GCO{path: path}
	g.cur.Store(defaultConfig())
	if path == "" {
		return g, nil
	}
	if err := g.reload(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *GCO) Get() Config { return g.cur.Load() }

func (g *GCO) reload() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	b, err := os.ReadFile(g.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	cfg := defaultConfig()
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Wrap(err, "parse config "+g.path)
	}
	g.cur.Store(cfg)
	return nil
}

// Watch starts an fsnotify watcher on the config file and hot-reloads on
// every write, logging (and keeping the prior config) on parse failure.
// It runs until stopCh is closed.
func (g *GCO) Watch(stopCh <-chan struct{}) {
	if g.path == "" {
		return
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		glog.Errorf("config watch: %v", err)
		return
	}
	defer w.Close()
	if err := w.Add(g.path); err != nil {
		glog.Errorf("config watch %s: %v", g.path, err)
		return
	}
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := g.reload(); err != nil {
				glog.Errorf("config reload %s: %v", g.path, err)
				continue
			}
			glog.Infof("config reloaded from %s", g.path)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			glog.Errorf("config watch: %v", err)
		case <-stopCh:
			return
		}
	}
}
