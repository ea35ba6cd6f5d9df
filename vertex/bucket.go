package vertex

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var ErrNoFreeBucket = errors.New("no releasable bucket available")

// Bucket is one entry of the on-device asset directory.
type Bucket struct {
	Index    uint8 `json:"index" cbor:"1,keyasint"`
	Occupied bool  `json:"occupied" cbor:"2,keyasint"`
	// Asset is the firmware identifier of the stored payload.
	Asset uint8 `json:"asset,omitempty" cbor:"3,keyasint,omitempty,omitzero"`
	// MemoryOffset and MemorySize locate the payload in display
	// memory, in 1 KiB units.
	MemoryOffset uint16 `json:"memory_offset" cbor:"4,keyasint,omitempty,omitzero"`
	MemorySize   uint16 `json:"memory_size" cbor:"5,keyasint,omitempty,omitzero"`
}

func (b Bucket) end() uint16 {
	return b.MemoryOffset + b.MemorySize
}

// Directory is a snapshot of the sixteen bucket records.
type Directory struct {
	Buckets [BucketCount]Bucket `json:"buckets" cbor:"1,keyasint"`
}

// FirstFree returns the lowest unoccupied bucket.
func (d *Directory) FirstFree() (uint8, bool) {
	for _, b := range d.Buckets {
		if !b.Occupied {
			return b.Index, true
		}
	}

	return 0, false
}

// extent returns the lowest occupied offset and the highest occupied
// end. Both are 0 on an empty directory.
func (d *Directory) extent() (start, end uint16) {
	first := true
	for _, b := range d.Buckets {
		if !b.Occupied {
			continue
		}
		if first || b.MemoryOffset < start {
			start = b.MemoryOffset
		}
		if b.end() > end {
			end = b.end()
		}
		first = false
	}

	return start, end
}

// ReadDirectory queries every bucket record from the device. Records
// go stale as soon as any process touches the display, callers read a
// fresh directory before acting on one.
func (c *Controller) ReadDirectory() (*Directory, error) {
	dir := &Directory{}
	for index := uint8(0); index < BucketCount; index++ {
		response, err := c.Run(CommandQueryBucket, index)
		if err != nil {
			return nil, fmt.Errorf("query_bucket %d: %w", index, err)
		}
		if len(response) < replyHeaderLength+bucketMetaLength {
			return nil, fmt.Errorf("query_bucket %d: invalid response length %d", index, len(response))
		}

		dir.Buckets[index] = parseBucket(index, response)
	}

	return dir, nil
}

// parseBucket decodes a query response. A record is occupied when any
// metadata byte is set.
func parseBucket(index uint8, response []byte) Bucket {
	b := Bucket{Index: index}

	meta := response[replyHeaderLength : replyHeaderLength+bucketMetaLength]
	for _, v := range meta {
		if v != 0 {
			b.Occupied = true
			break
		}
	}
	if !b.Occupied {
		return b
	}

	b.Asset = meta[0]
	b.MemoryOffset = binary.LittleEndian.Uint16(meta[2:4])
	b.MemorySize = binary.LittleEndian.Uint16(meta[4:6])
	return b
}

// deleteBucket asks the firmware to release one bucket record. The
// firmware refuses while the bucket feeds the screen.
func (c *Controller) deleteBucket(index uint8) (bool, error) {
	response, err := c.Run(CommandDeleteBucket, index)
	if err != nil {
		return false, fmt.Errorf("delete_bucket %d: %w", index, err)
	}

	return acked(response), nil
}

// prepareBucket clears a bucket for writing, walking forward when the
// firmware refuses to release one. Occupied buckets only drop their
// memory claim on a second delete.
func (c *Controller) prepareBucket(dir *Directory, start uint8) (uint8, error) {
	for index := start; index < BucketCount; index++ {
		ok, err := c.deleteBucket(index)
		if err != nil {
			return 0, err
		}
		if !ok {
			if c.log != nil {
				c.log.Debugf("Bucket %d is busy, trying the next one", index)
			}
			continue
		}

		if dir.Buckets[index].Occupied {
			if _, err := c.deleteBucket(index); err != nil {
				return 0, err
			}
		}

		return index, nil
	}

	return 0, ErrNoFreeBucket
}
