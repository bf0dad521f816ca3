package spreadsheet

import (
	"slices"

	"github.com/vogtb/go-sheetgraph/packages/grid"
)

// updateEdges makes refs the outgoing edges of the cell. referenced positions
// without a cell get an empty placeholder so every edge has both endpoints,
// and placeholders that lose their last reader are reclaimed.
func (c *Cell) updateEdges(refs []grid.Position) {
	next := make(map[grid.Position]struct{}, len(refs))
	for _, ref := range refs {
		next[ref] = struct{}{}
	}

	// drop stale edges first
	for _, pos := range sortedPositions(c.outgoing) {
		if _, keep := next[pos]; keep {
			continue
		}
		delete(c.outgoing, pos)
		target := c.sheet.cellAt(pos)
		if target == nil {
			continue
		}
		delete(target.incoming, c.pos)
		if target.removable() {
			c.sheet.removeCell(pos)
		}
	}

	for _, ref := range refs {
		if _, exists := c.outgoing[ref]; exists {
			continue
		}
		target := c.sheet.ensureCell(ref)
		target.incoming[c.pos] = struct{}{}
		c.outgoing[ref] = struct{}{}
	}
}

// detachEdges removes every outgoing edge of the cell. used when the sheet
// tears down all of its cells at once, so placeholders are not reclaimed one
// by one.
func (c *Cell) detachEdges() {
	for pos := range c.outgoing {
		if target := c.sheet.cellAt(pos); target != nil {
			delete(target.incoming, c.pos)
		}
	}
	clear(c.outgoing)
}

// wouldIntroduceCircularDependency reports whether reading refs from this
// cell would close a cycle: that is the case when one of the referenced cells
// already depends on this cell, or is this cell. the returned position is the
// offending reference.
func (c *Cell) wouldIntroduceCircularDependency(refs []grid.Position) (grid.Position, bool) {
	targets := make(map[grid.Position]struct{}, len(refs))
	for _, ref := range refs {
		// a position without a cell has no dependents of its own
		if ref == c.pos || c.sheet.cellAt(ref) != nil {
			targets[ref] = struct{}{}
		}
	}
	if len(targets) == 0 {
		return grid.None, false
	}

	visited := make(map[grid.Position]struct{})
	return c.sheet.findDependent(c.pos, targets, visited)
}

// findDependent walks backward along incoming edges from pos looking for any
// of targets
func (s *Sheet) findDependent(pos grid.Position, targets, visited map[grid.Position]struct{}) (grid.Position, bool) {
	if _, alreadyVisited := visited[pos]; alreadyVisited {
		return grid.None, false
	}
	visited[pos] = struct{}{}

	if _, hit := targets[pos]; hit {
		return pos, true
	}

	cell := s.cellAt(pos)
	if cell == nil {
		return grid.None, false
	}
	for _, dependent := range sortedPositions(cell.incoming) {
		if found, ok := s.findDependent(dependent, targets, visited); ok {
			return found, true
		}
	}
	return grid.None, false
}

// invalidateCache drops the cached value of this cell and of every cell
// depending on it. the walk does not descend below a dependent without a
// cache: nothing that reads it can hold one either. returns the number of
// caches dropped.
func (c *Cell) invalidateCache() int {
	count := 0
	if c.dropCache() {
		count++
	}

	visited := make(map[grid.Position]struct{})
	visited[c.pos] = struct{}{}
	for dependent := range c.incoming {
		count += c.sheet.collectInvalidated(dependent, visited)
	}
	return count
}

func (s *Sheet) collectInvalidated(pos grid.Position, visited map[grid.Position]struct{}) int {
	if _, alreadyVisited := visited[pos]; alreadyVisited {
		return 0
	}
	visited[pos] = struct{}{}

	cell := s.cellAt(pos)
	if cell == nil || !cell.dropCache() {
		return 0
	}

	count := 1
	for dependent := range cell.incoming {
		count += s.collectInvalidated(dependent, visited)
	}
	return count
}

// sortedPositions returns the members of set in row-major order
func sortedPositions(set map[grid.Position]struct{}) []grid.Position {
	if len(set) == 0 {
		return nil
	}
	result := make([]grid.Position, 0, len(set))
	for pos := range set {
		result = append(result, pos)
	}
	slices.SortFunc(result, func(a, b grid.Position) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
	return result
}
