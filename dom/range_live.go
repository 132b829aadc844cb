package dom

import "sync"

// rangeRegistry tracks the live ranges of a document so that tree and
// character data mutations can update their boundary points.
type rangeRegistry struct {
	mu     sync.Mutex
	ranges map[*Range]struct{}
}

func newRangeRegistry() *rangeRegistry {
	return &rangeRegistry{ranges: make(map[*Range]struct{})}
}

func (rr *rangeRegistry) register(r *Range) {
	if rr == nil {
		return
	}
	rr.mu.Lock()
	rr.ranges[r] = struct{}{}
	rr.mu.Unlock()
}

// each calls fn for every registered range and both of its boundary points.
func (rr *rangeRegistry) each(fn func(bp *boundaryPoint)) {
	if rr == nil {
		return
	}
	rr.mu.Lock()
	ranges := make([]*Range, 0, len(rr.ranges))
	for r := range rr.ranges {
		ranges = append(ranges, r)
	}
	rr.mu.Unlock()
	for _, r := range ranges {
		fn(&r.start)
		fn(&r.end)
	}
}

// adjustForInsert runs the insertion steps for count nodes inserted into
// parent at index.
func (rr *rangeRegistry) adjustForInsert(parent *Node, index, count int) {
	rr.each(func(bp *boundaryPoint) {
		if bp.node == parent && bp.offset > index {
			bp.offset += count
		}
	})
}

// adjustForRemove runs the removal steps for child, currently at index in
// parent.
func (rr *rangeRegistry) adjustForRemove(parent, child *Node, index int) {
	rr.each(func(bp *boundaryPoint) {
		if child.isInclusiveAncestorOf(bp.node) {
			bp.node = parent
			bp.offset = index
		} else if bp.node == parent && bp.offset > index {
			bp.offset--
		}
	})
}

// adjustForReplaceData runs the replace data steps for node.
func (rr *rangeRegistry) adjustForReplaceData(node *Node, offset, count, added int) {
	rr.each(func(bp *boundaryPoint) {
		if bp.node != node {
			return
		}
		switch {
		case bp.offset > offset && bp.offset <= offset+count:
			bp.offset = offset
		case bp.offset > offset+count:
			bp.offset += added - count
		}
	})
}

// adjustForSplit moves boundary points past offset in node into newNode,
// which has just been inserted after node.
func (rr *rangeRegistry) adjustForSplit(node, newNode *Node, offset int) {
	parent := node.parentNode
	index := node.Index()
	rr.each(func(bp *boundaryPoint) {
		switch {
		case bp.node == node && bp.offset > offset:
			bp.node = newNode
			bp.offset -= offset
		case bp.node == parent && bp.offset == index+1:
			bp.offset++
		}
	})
}

// adjustForMerge runs the normalize steps for a Text node merged into text
// at offset length.
func (rr *rangeRegistry) adjustForMerge(text, merged *Node, length int) {
	parent := merged.parentNode
	index := merged.Index()
	rr.each(func(bp *boundaryPoint) {
		switch {
		case bp.node == merged:
			bp.node = text
			bp.offset += length
		case bp.node == parent && bp.offset == index:
			bp.node = text
			bp.offset = length
		}
	})
}
