package vertex

// PlacementKind tells how a planned upload acquires display memory.
type PlacementKind uint8

const (
	// PlacementReuse rewrites the region the target bucket already owns.
	PlacementReuse PlacementKind = iota
	// PlacementExtend grows the target bucket in place from its
	// current offset.
	PlacementExtend
	// PlacementAppend claims memory right after the highest occupied
	// region.
	PlacementAppend
	// PlacementFrontGap claims the free memory before the lowest
	// occupied offset.
	PlacementFrontGap
)

func (k PlacementKind) String() string {
	switch k {
	case PlacementReuse:
		return "reuse"
	case PlacementExtend:
		return "extend"
	case PlacementAppend:
		return "append"
	case PlacementFrontGap:
		return "front gap"
	}
	return "unknown"
}

// Placement locates an upload in display memory.
type Placement struct {
	Kind   PlacementKind
	Offset uint16
}

// PacketCount converts an asset byte length to its display memory
// footprint in 1 KiB units, header report included. Lengths above
// MaxAssetLength overflow the unit counter and must be rejected before
// calling.
func PacketCount(length int) uint16 {
	chunks := (length + bulkChunkLength - 1) / bulkChunkLength
	return uint16((chunks + 1) / 2)
}

// PlanPlacement finds room for packets units written through the
// target bucket. Strategies are tried from cheapest to most intrusive:
// reuse the bucket region, extend it in place, append after the tail,
// fill the gap before the head. A false return means nothing fits
// until the directory is wiped.
func PlanPlacement(dir *Directory, target uint8, packets uint16) (Placement, bool) {
	slot := dir.Buckets[target]

	if slot.MemorySize >= packets {
		return Placement{Kind: PlacementReuse, Offset: slot.MemoryOffset}, true
	}

	if canExtend(dir, target, packets) {
		return Placement{Kind: PlacementExtend, Offset: slot.MemoryOffset}, true
	}

	start, end := dir.extent()
	if uint32(end)+uint32(packets) <= MemoryTotal {
		return Placement{Kind: PlacementAppend, Offset: end}, true
	}

	if packets < start {
		return Placement{Kind: PlacementFrontGap, Offset: 0}, true
	}

	return Placement{}, false
}

// canExtend reports whether [offset, offset+packets) of the target
// bucket region overlaps any other occupied bucket.
func canExtend(dir *Directory, target uint8, packets uint16) bool {
	offset := dir.Buckets[target].MemoryOffset
	limit := uint32(offset) + uint32(packets)

	for _, other := range dir.Buckets {
		if other.Index == target || !other.Occupied {
			continue
		}
		if other.MemoryOffset == offset {
			return false
		}
		if other.MemoryOffset > offset && uint32(other.MemoryOffset) < limit {
			return false
		}
		if other.MemoryOffset < offset && other.end() > offset {
			return false
		}
	}

	return true
}
