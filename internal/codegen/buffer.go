package codegen

// Buffer is the emitted instruction stream. It supports appending new
// instructions and, via EmitNewLoc/Restore, temporarily rewinding the
// write cursor to patch a previously reserved slot without losing the
// high-water mark it needs to resume appending from afterward. This is
// the whole of the code generator's backpatching discipline: reserve a
// slot with EmitSkip, keep its address, and later EmitNewLoc back to
// it once the jump target is known.
type Buffer struct {
	instrs   []Instruction
	comments []string

	emitLoc     int
	highEmitLoc int
}

// NewBuffer returns an empty instruction buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) store(i Instruction, comment string) int {
	addr := b.emitLoc
	if addr < len(b.instrs) {
		b.instrs[addr] = i
		b.comments[addr] = comment
	} else {
		b.instrs = append(b.instrs, i)
		b.comments = append(b.comments, comment)
	}
	b.emitLoc++
	if b.emitLoc > b.highEmitLoc {
		b.highEmitLoc = b.emitLoc
	}
	return addr
}

// EmitRO emits a register-only instruction and returns its address.
func (b *Buffer) EmitRO(op OpCode, r, s, t int, comment string) int {
	return b.store(Instruction{Format: FormatRO, Op: op, R: r, S: s, T: t}, comment)
}

// EmitRM emits a register-memory instruction (effective address is
// d + R[s]) and returns its address.
func (b *Buffer) EmitRM(op OpCode, r, d, s int, comment string) int {
	return b.store(Instruction{Format: FormatRM, Op: op, R: r, D: d, S: s}, comment)
}

// EmitSkip reserves n instruction slots and returns the address of the
// first one, for later backpatching.
func (b *Buffer) EmitSkip(n int) int {
	start := b.emitLoc
	for i := 0; i < n; i++ {
		b.store(Instruction{Op: opNone}, "")
	}
	return start
}

// EmitNewLoc repositions the write cursor to addr, so the next Emit*
// call overwrites a previously reserved slot instead of appending.
func (b *Buffer) EmitNewLoc(addr int) { b.emitLoc = addr }

// EmitWhereAmI returns the current write cursor.
func (b *Buffer) EmitWhereAmI() int { return b.emitLoc }

// Restore moves the write cursor back to the high-water mark, so
// emission resumes appending after a round of backpatching.
func (b *Buffer) Restore() { b.emitLoc = b.highEmitLoc }

// EmitComment appends a pass-through comment row to the listing.
func (b *Buffer) EmitComment(text string) {
	b.store(Instruction{Format: FormatComment, Text: text}, "")
}

// EmitStrLit writes s's characters into memory as a sequence of
// LDC/ST pairs, one per character, plus its length one word above its
// base — base is the location the string's declaration or bare literal
// was assigned by the layout pass, relative to baseReg (GP for a global
// or static string, FP for a local array's initializer).
func (b *Buffer) EmitStrLit(base, baseReg int, s string) {
	b.EmitRM(LDC, AC, len(s), AC3, "length of string literal")
	b.EmitRM(ST, AC, base+1, baseReg, "store string length")
	for i := 0; i < len(s); i++ {
		b.EmitRM(LDC, AC, int(s[i]), AC3, "character of string literal")
		b.EmitRM(ST, AC, base-i, baseReg, "store string character")
	}
}

// Len returns the number of instructions emitted so far (the high
// water mark), i.e. the final code length once generation completes.
func (b *Buffer) Len() int { return b.highEmitLoc }

// Instructions returns the final instruction stream in address order,
// for the listing renderer.
func (b *Buffer) Instructions() []Instruction { return b.instrs[:b.highEmitLoc] }

// Comments returns the per-instruction trailing comment, parallel to
// Instructions.
func (b *Buffer) Comments() []string { return b.comments[:b.highEmitLoc] }
