package arena

import "testing"

func TestAllocReusesFreedBlocks(t *testing.T) {
	a, err := New(16, 8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	blk, err := a.Alloc(16)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if a.UsedSize() != 16 {
		t.Fatalf("UsedSize: got %d want 16", a.UsedSize())
	}
	a.Free(blk)
	if a.UsedSize() != 0 {
		t.Fatalf("UsedSize after Free: got %d want 0", a.UsedSize())
	}
	if _, err := a.Alloc(16); err != nil {
		t.Fatalf("Alloc after Free: %v", err)
	}
}

func TestAllocRejectsOversizeRequest(t *testing.T) {
	a, err := New(16, 8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := a.Alloc(17); err == nil {
		t.Fatal("Alloc larger than blockSize should error")
	}
}

func TestResetWipesUsageButKeepsOneChunk(t *testing.T) {
	a, err := New(8, 8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 300; i++ { // force growth beyond one chunk
		if _, err := a.Alloc(8); err != nil {
			t.Fatalf("Alloc #%d: %v", i, err)
		}
	}
	a.Reset()
	if a.UsedSize() != 0 {
		t.Fatalf("UsedSize after Reset: got %d want 0", a.UsedSize())
	}
}

func TestAlignmentRoundedUpToPowerOfTwo(t *testing.T) {
	a, err := New(10, 3) // 3 isn't a power of two
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.blockSize%4 != 0 {
		t.Fatalf("blockSize should be rounded to a multiple of the corrected alignment (4), got %d", a.blockSize)
	}
}

func TestNewRejectsNonPositiveBlockSize(t *testing.T) {
	if _, err := New(0, 8); err == nil {
		t.Fatal("New with blockSize 0 should error")
	}
}

func TestDestroyThenUsedSizeIsZero(t *testing.T) {
	a, err := New(16, 8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := a.Alloc(16); err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	a.Destroy()
	if a.UsedSize() != 0 {
		t.Fatalf("UsedSize after Destroy: got %d want 0", a.UsedSize())
	}
}
