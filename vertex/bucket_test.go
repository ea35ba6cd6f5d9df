package vertex

import (
	"errors"
	"testing"
)

func TestParseBucket(t *testing.T) {
	response := make([]byte, 64)
	response[0], response[1] = 0x31, 0x04

	b := parseBucket(3, response)
	if b.Occupied {
		t.Error("all-zero metadata should parse as a free bucket")
	}
	if b.Index != 3 {
		t.Errorf("Index = %d, want 3", b.Index)
	}

	response[14] = 4    // asset identifier
	response[15] = 0x03 // firmware constant
	response[16] = 0x34 // offset 0x1234
	response[17] = 0x12
	response[18] = 0x10 // size 0x0410
	response[19] = 0x04

	b = parseBucket(3, response)
	if !b.Occupied {
		t.Fatal("bucket with metadata should parse as occupied")
	}
	if b.Asset != 4 {
		t.Errorf("Asset = %d, want 4", b.Asset)
	}
	if b.MemoryOffset != 0x1234 {
		t.Errorf("MemoryOffset = %#04x, want 0x1234", b.MemoryOffset)
	}
	if b.MemorySize != 0x0410 {
		t.Errorf("MemorySize = %#04x, want 0x0410", b.MemorySize)
	}
}

func TestParseBucket_AnyMetadataByteMeansOccupied(t *testing.T) {
	for offset := 14; offset < 20; offset++ {
		response := make([]byte, 64)
		response[offset] = 0x01

		if b := parseBucket(0, response); !b.Occupied {
			t.Errorf("byte %d set, bucket should be occupied", offset)
		}
	}
}

func TestDirectory_FirstFree(t *testing.T) {
	dir := dirWith()
	if index, ok := dir.FirstFree(); !ok || index != 0 {
		t.Errorf("FirstFree() = %d, %v; want 0, true", index, ok)
	}

	dir = dirWith(
		Bucket{Index: 0, MemoryOffset: 0, MemorySize: 10},
		Bucket{Index: 1, MemoryOffset: 10, MemorySize: 10},
	)
	if index, ok := dir.FirstFree(); !ok || index != 2 {
		t.Errorf("FirstFree() = %d, %v; want 2, true", index, ok)
	}

	full := dirWith()
	for i := range full.Buckets {
		full.Buckets[i].Occupied = true
	}
	if index, ok := full.FirstFree(); ok {
		t.Errorf("FirstFree() = %d, %v; want none on a full directory", index, ok)
	}
}

func TestDirectory_Extent(t *testing.T) {
	dir := dirWith()
	if start, end := dir.extent(); start != 0 || end != 0 {
		t.Errorf("extent() = %d, %d; want 0, 0 on an empty directory", start, end)
	}

	dir = dirWith(
		Bucket{Index: 2, MemoryOffset: 400, MemorySize: 100},
		Bucket{Index: 5, MemoryOffset: 100, MemorySize: 50},
		Bucket{Index: 9, MemoryOffset: 1000, MemorySize: 24},
	)
	if start, end := dir.extent(); start != 100 || end != 1024 {
		t.Errorf("extent() = %d, %d; want 100, 1024", start, end)
	}
}

func TestController_ReadDirectory(t *testing.T) {
	fake := newFakeDevice(t)
	fake.store(1, 0, 128)
	fake.store(4, 128, 512)

	c := NewController(fake)
	dir, err := c.ReadDirectory()
	if err != nil {
		t.Fatalf("ReadDirectory error: %v", err)
	}

	if len(fake.requests) != BucketCount {
		t.Errorf("expected %d queries, got %d", BucketCount, len(fake.requests))
	}

	for i, b := range dir.Buckets {
		if int(b.Index) != i {
			t.Errorf("bucket %d carries index %d", i, b.Index)
		}
	}

	if !dir.Buckets[1].Occupied || dir.Buckets[1].MemorySize != 128 {
		t.Errorf("bucket 1 = %+v, want occupied with size 128", dir.Buckets[1])
	}
	if !dir.Buckets[4].Occupied || dir.Buckets[4].MemoryOffset != 128 {
		t.Errorf("bucket 4 = %+v, want occupied at offset 128", dir.Buckets[4])
	}
	if dir.Buckets[0].Occupied || dir.Buckets[15].Occupied {
		t.Error("untouched buckets should be free")
	}
}

func TestController_ReadDirectory_NeverCached(t *testing.T) {
	fake := newFakeDevice(t)
	fake.store(2, 0, 32)
	c := NewController(fake)

	dir, err := c.ReadDirectory()
	if err != nil {
		t.Fatalf("ReadDirectory error: %v", err)
	}
	if dir.Buckets[7].Occupied {
		t.Fatal("bucket 7 should start free")
	}

	again, err := c.ReadDirectory()
	if err != nil {
		t.Fatalf("ReadDirectory error: %v", err)
	}
	if *again != *dir {
		t.Error("two reads of an untouched device should match")
	}

	// Another process stores an asset behind our back.
	fake.store(7, 0, 64)

	dir, err = c.ReadDirectory()
	if err != nil {
		t.Fatalf("ReadDirectory error: %v", err)
	}
	if !dir.Buckets[7].Occupied {
		t.Error("second read should see the new record")
	}
}

func TestController_PrepareBucket_WalksPastBusyBuckets(t *testing.T) {
	fake := newFakeDevice(t)
	fake.busy[3] = 1
	fake.busy[4] = 1

	c := NewController(fake)
	dir, err := c.ReadDirectory()
	if err != nil {
		t.Fatalf("ReadDirectory error: %v", err)
	}

	index, err := c.prepareBucket(dir, 3)
	if err != nil {
		t.Fatalf("prepareBucket error: %v", err)
	}
	if index != 5 {
		t.Errorf("prepareBucket() = %d, want 5", index)
	}

	want := []uint8{3, 4, 5}
	if len(fake.deletes) != len(want) {
		t.Fatalf("deletes = %v, want %v", fake.deletes, want)
	}
	for i, d := range want {
		if fake.deletes[i] != d {
			t.Errorf("delete %d targeted bucket %d, want %d", i, fake.deletes[i], d)
		}
	}
}

func TestController_PrepareBucket_DeletesOccupiedTwice(t *testing.T) {
	fake := newFakeDevice(t)
	fake.store(2, 100, 50)

	c := NewController(fake)
	dir, err := c.ReadDirectory()
	if err != nil {
		t.Fatalf("ReadDirectory error: %v", err)
	}

	index, err := c.prepareBucket(dir, 2)
	if err != nil {
		t.Fatalf("prepareBucket error: %v", err)
	}
	if index != 2 {
		t.Errorf("prepareBucket() = %d, want 2", index)
	}
	if len(fake.deletes) != 2 || fake.deletes[0] != 2 || fake.deletes[1] != 2 {
		t.Errorf("deletes = %v, want bucket 2 deleted twice", fake.deletes)
	}
}

func TestController_PrepareBucket_AllBusy(t *testing.T) {
	fake := newFakeDevice(t)
	for i := uint8(0); i < BucketCount; i++ {
		fake.busy[i] = 1
	}

	c := NewController(fake)
	dir, err := c.ReadDirectory()
	if err != nil {
		t.Fatalf("ReadDirectory error: %v", err)
	}

	if _, err := c.prepareBucket(dir, 0); !errors.Is(err, ErrNoFreeBucket) {
		t.Errorf("prepareBucket error = %v, want ErrNoFreeBucket", err)
	}
}
