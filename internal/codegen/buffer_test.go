package codegen

import "testing"

func TestEmitRMAndROReturnSequentialAddresses(t *testing.T) {
	b := NewBuffer()
	a0 := b.EmitRM(LDC, AC, 5, AC3, "load 5")
	a1 := b.EmitRO(ADD, AC, AC, AC, "add")
	if a0 != 0 || a1 != 1 {
		t.Fatalf("expected addresses 0,1, got %d,%d", a0, a1)
	}
	if b.Len() != 2 {
		t.Fatalf("expected length 2, got %d", b.Len())
	}
}

func TestEmitSkipReservesSlotsForBackpatching(t *testing.T) {
	b := NewBuffer()
	patch := b.EmitSkip(1)
	b.EmitRM(LDC, AC, 1, AC3, "after the gap")

	here := b.EmitWhereAmI()
	b.EmitNewLoc(patch)
	b.EmitRM(JMP, PC, here-patch-1, PC, "patched jump")
	b.Restore()

	if b.EmitWhereAmI() != here {
		t.Fatalf("expected Restore to return the cursor to the high-water mark %d, got %d", here, b.EmitWhereAmI())
	}

	instrs := b.Instructions()
	if instrs[patch].Op != JMP {
		t.Fatalf("expected patched slot to hold JMP, got %s", instrs[patch].Op)
	}
	if instrs[patch].D != here-patch-1 {
		t.Fatalf("expected patched displacement %d, got %d", here-patch-1, instrs[patch].D)
	}
}

func TestRestoreAfterMultipleBackpatchesResumesAtHighWaterMark(t *testing.T) {
	b := NewBuffer()
	b.EmitRM(LDC, AC, 1, AC3, "one")
	p1 := b.EmitSkip(1)
	b.EmitRM(LDC, AC, 2, AC3, "two")
	p2 := b.EmitSkip(1)
	b.EmitRM(LDC, AC, 3, AC3, "three")

	high := b.Len()

	b.EmitNewLoc(p1)
	b.EmitRM(JMP, PC, 0, PC, "patch 1")
	b.Restore()
	b.EmitNewLoc(p2)
	b.EmitRM(JMP, PC, 0, PC, "patch 2")
	b.Restore()

	if b.Len() != high {
		t.Fatalf("expected length to stay at the high-water mark %d, got %d", high, b.Len())
	}
	if b.EmitWhereAmI() != high {
		t.Fatalf("expected cursor at %d after final Restore, got %d", high, b.EmitWhereAmI())
	}
}

func TestEmitStrLitStoresLengthAndCharacters(t *testing.T) {
	b := NewBuffer()
	b.EmitStrLit(-1, FP, "hi")

	instrs := b.Instructions()
	// length word first: LDC len, ST at base+1
	if instrs[0].Op != LDC || instrs[0].D != 2 {
		t.Fatalf("expected LDC with length 2 first, got %s %d", instrs[0].Op, instrs[0].D)
	}
	if instrs[1].Op != ST || instrs[1].D != 0 {
		t.Fatalf("expected ST at base+1 (=0), got %s %d", instrs[1].Op, instrs[1].D)
	}
	// first character 'h' stored at base-0
	if instrs[2].Op != LDC || instrs[2].D != int('h') {
		t.Fatalf("expected LDC 'h', got %s %d", instrs[2].Op, instrs[2].D)
	}
	if instrs[3].Op != ST || instrs[3].D != -1 {
		t.Fatalf("expected ST at base-0 (=-1), got %s %d", instrs[3].Op, instrs[3].D)
	}
	// second character 'i' stored at base-1
	if instrs[5].Op != ST || instrs[5].D != -2 {
		t.Fatalf("expected ST at base-1 (=-2), got %s %d", instrs[5].Op, instrs[5].D)
	}
}

func TestEmitCommentProducesNoAddressableInstruction(t *testing.T) {
	b := NewBuffer()
	b.EmitComment("a note")
	addr := b.EmitRM(LDC, AC, 1, AC3, "real instruction")
	if addr != 1 {
		t.Fatalf("expected the comment to occupy address 0 and push the real instruction to 1, got %d", addr)
	}
	instrs := b.Instructions()
	if instrs[0].Format != FormatComment || instrs[0].Text != "a note" {
		t.Fatalf("expected a comment row at 0, got %+v", instrs[0])
	}
}
