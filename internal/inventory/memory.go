package inventory

import (
	"context"
	"sync"

	"github.com/cankorkmaz/cinegrid/internal/domain"
)

// MemoryLayoutRepository keeps seat grids in process memory with one lock per
// showtime. It backs unit tests and is the reference implementation of the
// LayoutRepository contract: the callback runs on a copy, and the copy only
// replaces the stored grid when the callback succeeds.
type MemoryLayoutRepository struct {
	mu    sync.RWMutex
	grids map[int]*lockedGrid
}

type lockedGrid struct {
	mu   sync.Mutex
	grid *domain.SeatGrid
}

func NewMemoryLayoutRepository() *MemoryLayoutRepository {
	return &MemoryLayoutRepository{
		grids: make(map[int]*lockedGrid),
	}
}

// Create registers the grid for a showtime. Called at showtime creation time.
func (m *MemoryLayoutRepository) Create(showtimeID int, grid *domain.SeatGrid) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.grids[showtimeID] = &lockedGrid{grid: grid}
}

func (m *MemoryLayoutRepository) Delete(showtimeID int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.grids, showtimeID)
}

func (m *MemoryLayoutRepository) View(ctx context.Context, showtimeID int, fn func(*domain.SeatGrid) error) error {
	entry, err := m.get(showtimeID)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	return fn(entry.grid.Clone())
}

func (m *MemoryLayoutRepository) Update(ctx context.Context, showtimeID int, fn func(*domain.SeatGrid) error) error {
	entry, err := m.get(showtimeID)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	working := entry.grid.Clone()

	if err := fn(working); err != nil {
		return err
	}

	entry.grid = working

	return nil
}

func (m *MemoryLayoutRepository) get(showtimeID int) (*lockedGrid, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.grids[showtimeID]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	return entry, nil
}
