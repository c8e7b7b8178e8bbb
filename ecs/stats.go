package ecs

// StoreStats summarizes the state of every pool in a Store.
type StoreStats struct {
	PoolCount    int
	TotalActive  int
	TotalPending int
	TotalFree    int
	Pools        []PoolStats
}

// PoolStats describes a single pool.
type PoolStats struct {
	Id        uint16
	Type      string
	Active    int
	Pending   int
	Free      int
	Capacity  int
	Max       int
	Spawned   uint64
	Released  uint64
	Exhausted uint64
}

// CollectStats gathers per-pool statistics in registration order
func (s *Store) CollectStats() StoreStats {
	stats := StoreStats{
		PoolCount: len(s.pools),
		Pools:     make([]PoolStats, 0, len(s.pools)),
	}
	for _, pool := range s.pools {
		ps := pool.stats()
		stats.TotalActive += ps.Active
		stats.TotalPending += ps.Pending
		stats.TotalFree += ps.Free
		stats.Pools = append(stats.Pools, ps)
	}
	return stats
}
