package main

const (
	wordSize   = 8  // every local occupies one machine word
	stackAlign = 16 // System V requires %rsp % 16 == 0 at call boundaries
)

// alignTo rounds n up to the nearest multiple of align.
// alignTo(5, 8) == 8, alignTo(11, 8) == 16, alignTo(16, 16) == 16.
func alignTo(n, align int) int {
	return (n + align - 1) / align * align
}

// AssignOffsets gives each local a word-sized slot below the frame base, in
// the order the locals are stored. It returns annotated copies and the frame
// size, rounded up to the stack alignment.
func AssignOffsets(locals []Var) ([]Var, int) {
	out := make([]Var, len(locals))
	offset := 0
	for i, v := range locals {
		offset += wordSize
		v.Offset = -offset
		out[i] = v
	}
	return out, alignTo(offset, stackAlign)
}

// LayoutFrame assigns stack offsets to f's locals and fixes its frame size.
// It must be called exactly once, after parsing and before Generate.
func (f *Function) LayoutFrame() {
	if f.laidOut {
		panic("LayoutFrame: frame already laid out")
	}
	f.Locals, f.FrameSize = AssignOffsets(f.Locals)
	f.laidOut = true
}
