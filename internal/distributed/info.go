package distributed

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/born-ml/born-collective/internal/tensor"
)

// ErrAlreadyInitialized is returned by a second Init on the same Info.
var ErrAlreadyInitialized = errors.New("distributed: already initialized")

// Info is the distributed state of one process: whether a run is
// initialized, which transport it uses, and the run's world size and rank.
//
// Info moves from uninitialized to initialized exactly once. The values
// set by Init never change afterwards, and Init must complete before the
// collectives are called. An uninitialized Info reports a world size of 1,
// so collectives stay local.
type Info struct {
	mu          sync.RWMutex
	initialized bool
	backend     Backend
	worldSize   int
	rank        int
	engine      tensor.Backend
}

// New creates an uninitialized Info. Tests and embedders that want explicit
// state use New; everything else shares Instance.
func New() *Info {
	return &Info{worldSize: 1}
}

var instance = sync.OnceValue(New)

// Instance returns the process-wide Info, creating it on first use.
func Instance() *Info {
	return instance()
}

// Init records the bootstrap result. It fails for invalid configs and for
// every call after the first successful one.
func (i *Info) Init(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if i.initialized {
		return ErrAlreadyInitialized
	}
	i.initialized = true
	i.backend = cfg.Backend
	i.worldSize = cfg.WorldSize
	i.rank = cfg.Rank
	i.engine = cfg.Engine

	slog.Info("distributed initialized", "backend", cfg.Backend, "world_size", cfg.WorldSize, "rank", cfg.Rank)
	return nil
}

// IsInit reports whether Init has completed.
func (i *Info) IsInit() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.initialized
}

// DistributedBackend returns the transport of the run. It is Gloo, the zero
// value, before Init.
func (i *Info) DistributedBackend() Backend {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.backend
}

// WorldSize returns the number of processes in the run.
func (i *Info) WorldSize() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.worldSize
}

// Rank returns this process's rank.
func (i *Info) Rank() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.rank
}

// Engine returns the tensor backend used for synthesized tensors.
func (i *Info) Engine() (tensor.Backend, error) {
	i.mu.RLock()
	engine := i.engine
	i.mu.RUnlock()

	if engine != nil {
		return engine, nil
	}
	return tensor.DefaultBackend()
}

// IsDistributedInit reports whether the process-wide run is initialized.
func IsDistributedInit() bool {
	return Instance().IsInit()
}

// DistributedBackend returns the transport of the process-wide run.
func DistributedBackend() Backend {
	return Instance().DistributedBackend()
}

// GetWorldSize returns the world size of the process-wide run.
func GetWorldSize() int {
	return Instance().WorldSize()
}

// GetWorldRank returns the rank of this process in the process-wide run.
func GetWorldRank() int {
	return Instance().Rank()
}

// Init initializes the process-wide run.
func Init(cfg Config) error {
	return Instance().Init(cfg)
}
