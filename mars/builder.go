package mars

import "wars/arena"

// Builder configures and constructs a Mars. Chain the WithXxx options
// and finish with Build:
//
//	m, err := mars.NewBuilder().
//		WithArenaSize(8000).
//		WithMaxCycles(80000).
//		Build()
type Builder struct {
	cfg Config
}

// NewBuilder returns a builder primed with DefaultConfig.
func NewBuilder() Builder {
	return Builder{cfg: DefaultConfig()}
}

// WithConfig replaces the whole configuration.
func (b Builder) WithConfig(cfg Config) Builder {
	b.cfg = cfg
	return b
}

// WithArenaSize sets the number of arena cells.
func (b Builder) WithArenaSize(n uint32) Builder {
	b.cfg.ArenaSize = n
	return b
}

// WithPSpaceSize sets the per-process private storage size.
func (b Builder) WithPSpaceSize(n uint32) Builder {
	b.cfg.PSpaceSize = n
	return b
}

// WithMaxCycles sets the cycle budget.
func (b Builder) WithMaxCycles(n int) Builder {
	b.cfg.MaxCycles = n
	return b
}

// WithMaxThreads sets the per-process thread cap.
func (b Builder) WithMaxThreads(n int) Builder {
	b.cfg.MaxThreads = n
	return b
}

// WithMaxLength sets the longest loadable program.
func (b Builder) WithMaxLength(n int) Builder {
	b.cfg.MaxLength = n
	return b
}

// WithMinDistance sets the minimum circular distance between batch
// placements.
func (b Builder) WithMinDistance(n uint32) Builder {
	b.cfg.MinDistance = n
	return b
}

// WithVersion sets the informational version (x100).
func (b Builder) WithVersion(v int) Builder {
	b.cfg.Version = v
	return b
}

// Build validates the configuration and constructs a halted, empty
// Mars. A configuration error here is the caller's to surface; the
// bundled CLI maps it to exit code 2.
func (b Builder) Build() (*Mars, error) {
	if err := b.cfg.validate(); err != nil {
		return nil, err
	}
	return &Mars{
		cfg:    b.cfg,
		mem:    arena.New(b.cfg.ArenaSize),
		pspace: make(map[Pin][]uint32),
		pins:   make(map[Pin]Pid),
		halted: true,
	}, nil
}

// BuildAndLoad builds and immediately batch-loads, a convenience for
// tests and runners.
func (b Builder) BuildAndLoad(placements []Placement) (*Mars, error) {
	m, err := b.Build()
	if err != nil {
		return nil, err
	}
	if _, err := m.LoadBatch(placements); err != nil {
		return nil, err
	}
	return m, nil
}
